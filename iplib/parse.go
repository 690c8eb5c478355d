package iplib

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wbgen/wbgen/schema"
	"github.com/wbgen/wbgen/util"
)

// DocumentName identifies the IP library document in validation errors.
const DocumentName = "ip-library"

type rawInfo struct {
	Name        string                   `json:"name"`
	Description *string                  `json:"description"`
	Bus         []string                 `json:"bus"`
	CellCount   []map[string]interface{} `json:"cell_count"`
	WindowSize  interface{}              `json:"window_size"`
}

type rawInterface struct {
	Name          string `json:"name"`
	Port          string `json:"port"`
	Direction     string `json:"direction"`
	Width         *int   `json:"width"`
	Description   string `json:"description"`
	OutputControl bool   `json:"output_control"`
}

type rawFIFO struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Width int    `json:"width"`
}

type rawEntry struct {
	Info              *rawInfo                 `json:"info"`
	Description       *string                  `json:"description"`
	Bus               []string                 `json:"bus"`
	CellCount         []map[string]interface{} `json:"cell_count"`
	WindowSize        interface{}              `json:"window_size"`
	ExternalInterface []rawInterface           `json:"external_interface"`
	Flags             interface{}              `json:"flags"`
	Fifos             []rawFIFO                `json:"fifos"`
}

// ParseLibrary parses and validates an IP library JSON document. Two layouts
// are accepted: a map from type name to entry, and the aggregated form
// {"slaves": [...]} where each entry carries its name in an "info" block.
func ParseLibrary(data []byte) (*Library, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, schema.Errorf(DocumentName, "", "", "invalid JSON document: %s", err)
	}

	if slavesRaw, ok := doc["slaves"]; ok && len(doc) == 1 {
		return parseAggregated(slavesRaw)
	}
	return parseKeyed(doc)
}

func parseAggregated(data json.RawMessage) (*Library, error) {
	var rawEntries []rawEntry
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return nil, schema.Errorf(DocumentName, "", "slaves", "invalid entry list: %s", err)
	}

	library := &Library{entries: map[string]*Entry{}}
	for i, raw := range rawEntries {
		if raw.Info == nil || raw.Info.Name == "" {
			return nil, schema.Errorf(DocumentName, "slaves["+strconv.Itoa(i)+"]", "info.name", "missing required field")
		}
		entry, err := buildEntry(raw.Info.Name, raw)
		if err != nil {
			return nil, err
		}
		if _, exists := library.entries[entry.Name]; exists {
			return nil, schema.Errorf(DocumentName, entry.Name, "", "duplicate type name")
		}
		library.entries[entry.Name] = entry
	}
	return library, nil
}

func parseKeyed(doc map[string]json.RawMessage) (*Library, error) {
	library := &Library{entries: map[string]*Entry{}}
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	// Sorted so that the first reported validation error is stable.
	sort.Strings(names)

	for _, name := range names {
		var raw rawEntry
		if err := json.Unmarshal(doc[name], &raw); err != nil {
			return nil, schema.Errorf(DocumentName, name, "", "malformed entry: %s", err)
		}
		entry, err := buildEntry(name, raw)
		if err != nil {
			return nil, err
		}
		library.entries[name] = entry
	}
	return library, nil
}

func buildEntry(name string, raw rawEntry) (*Entry, error) {
	// The aggregated layout nests the descriptive fields in an "info"
	// block; the keyed layout carries them on the entry itself.
	description := raw.Description
	bus := raw.Bus
	cellCount := raw.CellCount
	windowSize := raw.WindowSize
	if raw.Info != nil {
		if raw.Info.Description != nil {
			description = raw.Info.Description
		}
		if raw.Info.Bus != nil {
			bus = raw.Info.Bus
		}
		if raw.Info.CellCount != nil {
			cellCount = raw.Info.CellCount
		}
		if raw.Info.WindowSize != nil {
			windowSize = raw.Info.WindowSize
		}
	}

	if description == nil {
		return nil, schema.Errorf(DocumentName, name, "description", "missing required field")
	}
	if cellCount == nil {
		return nil, schema.Errorf(DocumentName, name, "cell_count", "missing required field")
	}

	entry := &Entry{
		Name: name,
		Info: IPInfo{
			Description: *description,
			Bus:         bus,
		},
		Interrupts: raw.Flags != nil,
	}

	seenTools := map[string]bool{}
	for _, item := range cellCount {
		for _, tool := range util.OrderedKeys(item) {
			count, ok := asCount(item[tool])
			if !ok {
				return nil, schema.Errorf(DocumentName, name, "cell_count",
					"value for tool %q is not a non-negative integer", tool)
			}
			if seenTools[tool] {
				return nil, schema.Errorf(DocumentName, name, "cell_count", "duplicate tool %q", tool)
			}
			seenTools[tool] = true
			entry.Info.CellCounts = append(entry.Info.CellCounts, CellCount{Tool: tool, Count: count})
		}
	}

	if windowSize != nil {
		size, err := asWindowSize(windowSize)
		if err != nil {
			return nil, schema.Errorf(DocumentName, name, "window_size", "%s", err)
		}
		entry.Info.WindowSize = size
	}

	seenInterfaces := map[string]bool{}
	for i, rawIface := range raw.ExternalInterface {
		if rawIface.Name == "" {
			return nil, schema.Errorf(DocumentName, name,
				"external_interface["+strconv.Itoa(i)+"].name", "missing required field")
		}
		if rawIface.Direction == "" {
			return nil, schema.Errorf(DocumentName, name,
				"external_interface["+strconv.Itoa(i)+"].direction", "missing required field")
		}
		direction := strings.ToLower(rawIface.Direction)
		if direction != "input" && direction != "output" {
			return nil, schema.Errorf(DocumentName, name,
				"external_interface["+strconv.Itoa(i)+"].direction",
				"must be \"input\" or \"output\", got %q", rawIface.Direction)
		}
		if seenInterfaces[rawIface.Name] {
			return nil, schema.Errorf(DocumentName, name, "external_interface",
				"duplicate interface name %q", rawIface.Name)
		}
		seenInterfaces[rawIface.Name] = true

		iface := ExternalInterface{
			Name:          rawIface.Name,
			Port:          rawIface.Port,
			Direction:     direction,
			Width:         1,
			Description:   rawIface.Description,
			OutputControl: rawIface.OutputControl,
		}
		if iface.Port == "" {
			iface.Port = iface.Name
		}
		if rawIface.Width != nil {
			if *rawIface.Width < 1 {
				return nil, schema.Errorf(DocumentName, name,
					"external_interface["+strconv.Itoa(i)+"].width", "must be at least 1")
			}
			iface.Width = *rawIface.Width
		}
		entry.ExternalInterfaces = append(entry.ExternalInterfaces, iface)
	}

	for _, rawFifo := range raw.Fifos {
		entry.FIFOs = append(entry.FIFOs, FIFO{
			Name:  rawFifo.Name,
			Depth: rawFifo.Depth,
			Width: rawFifo.Width,
		})
	}

	return entry, nil
}

// asCount coerces a cell-count value to a non-negative integer. Numeric
// strings are tolerated because some vendor files quote their figures.
func asCount(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		count, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || count < 0 {
			return 0, false
		}
		return count, true
	default:
		return 0, false
	}
}

func asWindowSize(value interface{}) (uint32, error) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return 0, fmt.Errorf("must be a positive 32-bit integer")
		}
		return uint32(v), nil
	case string:
		return util.ParseAddress(v)
	default:
		return 0, fmt.Errorf("must be an integer or an address literal")
	}
}
