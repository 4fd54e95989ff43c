package scene

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// Palette assigns fill colours to highlight categories.
type Palette struct {
	Default colorful.Color
	Fills   map[storyboard.Category]colorful.Color
	// Priority decides which category wins when an index is in several sets.
	Priority []storyboard.Category
}

// DefaultPalette colours swapping red, comparing amber, sorted green and
// everything else grey.
func DefaultPalette() Palette {
	p, _ := NewPalette("#6b7280", map[string]string{
		string(storyboard.Swapping):  "#ef4444",
		string(storyboard.Comparing): "#f59e0b",
		string(storyboard.Sorted):    "#22c55e",
	}, nil)
	return p
}

// NewPalette builds a palette from hex colours. Categories missing from
// priority follow the well-known ones and then the rest in name order.
func NewPalette(defaultHex string, fills map[string]string, priority []string) (Palette, error) {
	p := Palette{Fills: make(map[storyboard.Category]colorful.Color)}

	var err error
	p.Default, err = colorful.Hex(defaultHex)
	if err != nil {
		return Palette{}, fmt.Errorf("default colour %q: %w", defaultHex, err)
	}
	for name, hex := range fills {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("colour for %s %q: %w", name, hex, err)
		}
		p.Fills[storyboard.Category(name)] = c
	}

	seen := make(map[storyboard.Category]bool)
	add := func(c storyboard.Category) {
		if _, ok := p.Fills[c]; ok && !seen[c] {
			seen[c] = true
			p.Priority = append(p.Priority, c)
		}
	}
	for _, name := range priority {
		add(storyboard.Category(name))
	}
	for _, c := range []storyboard.Category{storyboard.Swapping, storyboard.Comparing, storyboard.Sorted} {
		add(c)
	}
	var rest []storyboard.Category
	for c := range p.Fills {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, c := range rest {
		add(c)
	}

	return p, nil
}

// Role returns the winning category for index i, or "" when none applies.
func (p Palette) Role(h storyboard.Highlights, i int) storyboard.Category {
	for _, c := range p.Priority {
		if h.Has(c, i) {
			return c
		}
	}
	return ""
}

// Fill returns the colour for a role.
func (p Palette) Fill(role storyboard.Category) colorful.Color {
	if c, ok := p.Fills[role]; ok {
		return c
	}
	return p.Default
}
