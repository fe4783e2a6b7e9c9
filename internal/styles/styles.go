package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	stderr = termenv.NewOutput(os.Stderr)

	ERROR = func(s string) string {
		return stderr.String(s).
			Foreground(stderr.Color("9")).
			String()
	}
)

// Palette styles completion listings written to one terminal.
type Palette struct {
	value       lipgloss.Style
	marker      lipgloss.Style
	description lipgloss.Style
	summary     lipgloss.Style
}

// NewPalette returns a Palette rendering for w with the given color profile.
// termenv.Ascii disables styling.
func NewPalette(w io.Writer, profile termenv.Profile) *Palette {
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)

	return &Palette{
		value:       r.NewStyle().Bold(true),
		marker:      r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		description: r.NewStyle().Foreground(lipgloss.Color("12")),
		summary:     r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// StdoutPalette detects the color profile of standard output.
func StdoutPalette() *Palette {
	return NewPalette(os.Stdout, termenv.NewOutput(os.Stdout).EnvColorProfile())
}

// Value renders a suggestion value. A leading external marker is
// highlighted separately.
func (p *Palette) Value(s, marker string) string {
	if marker != "" && len(s) > len(marker) && s[:len(marker)] == marker {
		return p.marker.Render(marker) + p.value.Render(s[len(marker):])
	}
	return p.value.Render(s)
}

func (p *Palette) Description(s string) string {
	return p.description.Render(s)
}

func (p *Palette) Summary(s string) string {
	return p.summary.Render(s)
}
