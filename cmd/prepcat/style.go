package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/prepcat"
)

// styles decorates browse output. Each renderer detects the color profile of
// its writer, so text written to a pipe or file stays plain.
type styles struct {
	r       *lipgloss.Renderer
	section lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	errText lipgloss.Style
}

func newStyles(out, errOut io.Writer) *styles {
	r := lipgloss.NewRenderer(out)
	return &styles{
		r:       r,
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		errText: lipgloss.NewRenderer(errOut).NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// subject renders a subject name in the subject's own color, if it has one.
func (s *styles) subject(subj *prepcat.Subject) string {
	st := s.title
	if subj.Color != "" {
		st = st.Foreground(lipgloss.Color(subj.Color))
	}
	return st.Render(subj.Name)
}

var difficultyColors = map[prepcat.Difficulty]lipgloss.Color{
	prepcat.DifficultyEasy:   lipgloss.Color("2"),
	prepcat.DifficultyMedium: lipgloss.Color("3"),
	prepcat.DifficultyHard:   lipgloss.Color("1"),
}

func (s *styles) difficulty(d prepcat.Difficulty) string {
	return s.r.NewStyle().Foreground(difficultyColors[d]).Render(string(d))
}
