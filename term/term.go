// Package term draws a view as styled terminal text.
package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matt-g-everett/algoviz/listing"
	"github.com/matt-g-everett/algoviz/scene"
	"github.com/matt-g-everett/algoviz/session"
)

const cellWidth = 5

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	lineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#facc15")).
			Foreground(lipgloss.Color("#000000"))
	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("#ffffff"))
	blankCell = strings.Repeat(" ", cellWidth)
)

// Render draws v. Lifted cells are drawn one row above the others.
func Render(v session.View) string {
	var sections []string

	switch {
	case v.Loading:
		sections = append(sections, dimStyle.Render("Loading..."))
	case v.Error != "":
		sections = append(sections, errorStyle.Render(v.Error))
	}

	if v.Status.Frame != nil {
		sections = append(sections,
			titleStyle.Render(fmt.Sprintf("Step %d: %s", v.Scene.Step, v.Scene.Explanation)),
			cells(v.Scene),
		)
	}

	if len(v.Listing.Lines) > 0 {
		sections = append(sections, code(v.Listing))
	}

	status := v.Status.State.String()
	if v.Counter != "" {
		status = v.Counter + "  " + status
	}
	sections = append(sections, dimStyle.Render(status))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func cells(s scene.Scene) string {
	if len(s.Elements) == 0 {
		return dimStyle.Render("(no values)")
	}
	raised := make([]string, len(s.Elements))
	level := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		c := cellStyle.Background(lipgloss.Color(e.Fill.Hex())).Render(e.Value.String())
		if e.Lift > 0 {
			raised[i], level[i] = c, blankCell
		} else {
			raised[i], level[i] = blankCell, c
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(raised, " "),
		strings.Join(level, " "),
	)
}

func code(l listing.Listing) string {
	width := len(fmt.Sprint(len(l.Lines)))
	lines := make([]string, len(l.Lines))
	for i, line := range l.Lines {
		text := fmt.Sprintf("%*d  %s", width, line.Number, line.Text)
		if line.Highlighted {
			text = lineStyle.Render(text)
		}
		lines[i] = text
	}
	return strings.Join(lines, "\n")
}
