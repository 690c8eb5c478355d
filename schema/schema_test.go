package schema

import (
	"strings"
	"testing"
)

func TestErrorNamesDocumentEntryAndField(t *testing.T) {
	err := Errorf("ip-library", "uart", "cell_count", "missing required field")
	for _, part := range []string{"ip-library", `"uart"`, `"cell_count"`, "missing required field"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("error %q should contain %q", err.Error(), part)
		}
	}
}

func TestErrorWithoutField(t *testing.T) {
	err := Errorf("bus-slaves", "u0", "", "duplicate type name")
	if strings.Contains(err.Error(), `""`) {
		t.Fatalf("error %q should not render an empty field", err.Error())
	}
}
