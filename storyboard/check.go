package storyboard

import (
	"fmt"
	"sort"
)

// ViolationKind classifies a producer contract violation.
type ViolationKind string

const (
	StepGap         ViolationKind = "step_gap"
	IndexOutOfRange ViolationKind = "index_out_of_range"
	ShapeChanged    ViolationKind = "shape_changed"
	LineOutOfRange  ViolationKind = "line_out_of_range"
)

// Violation is a non-fatal breach of the frame contract.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	Step     int           `json:"step"`
	Category Category      `json:"category,omitempty"`
	Index    int           `json:"index,omitempty"`
	Detail   string        `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("step %d: %s: %s", v.Step, v.Kind, v.Detail)
}

// InvalidIndices returns the highlight entries of f that point outside its values.
func InvalidIndices(f *Frame) []Violation {
	var out []Violation
	n := len(f.DataStructureState.Values)
	for _, cat := range f.DataStructureState.Highlights.Categories() {
		for _, i := range f.DataStructureState.Highlights[cat] {
			if i < 0 || i >= n {
				out = append(out, Violation{
					Kind:     IndexOutOfRange,
					Step:     f.Step,
					Category: cat,
					Index:    i,
					Detail:   fmt.Sprintf("%s index %d outside [0, %d)", cat, i, n),
				})
			}
		}
	}
	return out
}

// Check reports every contract violation in frames. An empty result means
// the storyboard can be replayed without fallbacks.
func Check(frames Storyboard) []Violation {
	var out []Violation
	for i := range frames {
		f := &frames[i]
		if f.Step != i {
			out = append(out, Violation{
				Kind:   StepGap,
				Step:   f.Step,
				Detail: fmt.Sprintf("frame %d has step %d", i, f.Step),
			})
		}
		if f.LineHighlighted != nil && *f.LineHighlighted < 1 {
			out = append(out, Violation{
				Kind:   LineOutOfRange,
				Step:   f.Step,
				Detail: fmt.Sprintf("line %d is not positive", *f.LineHighlighted),
			})
		}
		out = append(out, InvalidIndices(f)...)
		if i > 0 {
			prev := len(frames[i-1].DataStructureState.Values)
			cur := len(f.DataStructureState.Values)
			if prev != cur {
				out = append(out, Violation{
					Kind:   ShapeChanged,
					Step:   f.Step,
					Detail: fmt.Sprintf("values length changed from %d to %d", prev, cur),
				})
			}
		}
	}
	return out
}

// Categories lists the categories present in h in name order.
func (h Highlights) Categories() []Category {
	cats := make([]Category, 0, len(h))
	for c := range h {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
