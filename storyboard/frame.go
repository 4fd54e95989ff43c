package storyboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category names a set of highlighted positions in a data structure.
type Category string

// Well-known highlight categories. The set is open: producers may send others.
const (
	Swapping  Category = "swapping"
	Comparing Category = "comparing"
	Sorted    Category = "sorted"
)

// Highlights maps each category to the positions it marks.
type Highlights map[Category][]int

// Has reports whether index i is marked by category c. Absent categories are empty.
func (h Highlights) Has(c Category, i int) bool {
	for _, idx := range h[c] {
		if idx == i {
			return true
		}
	}
	return false
}

// Value is a displayable scalar element of a data structure.
type Value string

func (v Value) String() string {
	return string(v)
}

// numeric reports whether v is spelled as a JSON number.
func (v Value) numeric() bool {
	if v == "" || (v[0] != '-' && (v[0] < '0' || v[0] > '9')) {
		return false
	}
	return json.Valid([]byte(v))
}

// UnmarshalJSON keeps numbers verbatim and unquotes strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*v = "null"
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Value(s)
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("storyboard: invalid value %q", data)
	}
	*v = Value(strings.TrimSpace(string(data)))
	return nil
}

// MarshalJSON writes numeric values as numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric() {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

// UnmarshalYAML accepts any scalar.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw == nil {
		*v = "null"
		return nil
	}
	*v = Value(fmt.Sprint(raw))
	return nil
}

// MarshalYAML writes numeric values unquoted.
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.numeric() {
		return string(v), nil
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil {
		if i, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return i, nil
		}
		return f, nil
	}
	return string(v), nil
}

// State is the visual state of the traced data structure at one step.
type State struct {
	Type       string     `json:"type,omitempty" yaml:"type,omitempty"`
	Values     []Value    `json:"values" yaml:"values"`
	Highlights Highlights `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Frame is one immutable snapshot of algorithm state.
type Frame struct {
	Step               int    `json:"step" yaml:"step"`
	Explanation        string `json:"explanation" yaml:"explanation"`
	LineHighlighted    *int   `json:"line_highlighted,omitempty" yaml:"line_highlighted,omitempty"`
	DataStructureState State  `json:"data_structure_state" yaml:"data_structure_state"`
}

// Line returns the highlighted line, or 0 when none is set.
func (f *Frame) Line() int {
	if f == nil || f.LineHighlighted == nil {
		return 0
	}
	return *f.LineHighlighted
}

// Storyboard is the ordered sequence of frames for one run.
type Storyboard []Frame
