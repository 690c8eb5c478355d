package util

import "testing"

func TestOrderedKeys(t *testing.T) {
	m := map[string]int{"uart": 1, "gpio": 2, "spi": 3}

	expected := []string{"gpio", "spi", "uart"}
	keys := OrderedKeys(m)
	if len(keys) != len(expected) {
		t.Fatal("unexpected number of keys")
	}
	for i := range keys {
		if keys[i] != expected[i] {
			t.Fatalf("unexpected key at index %d", i)
		}
	}
}

func TestOrderedEntries(t *testing.T) {
	m := map[int]string{12: "fail", -4: "wow", 3: "gonna"}

	expected := []OrderedMapEntry[int, string]{
		{Key: -4, Value: "wow"},
		{Key: 3, Value: "gonna"},
		{Key: 12, Value: "fail"},
	}

	entries := OrderedEntries(m)
	values := OrderedValues(m)
	if len(entries) != len(expected) {
		t.Fatal("unexpected number of entries")
	}
	for i := range entries {
		if entries[i] != expected[i] {
			t.Fatalf("unexpected entry at index %d", i)
		}
		if values[i] != expected[i].Value {
			t.Fatalf("unexpected value at index %d", i)
		}
	}
}
