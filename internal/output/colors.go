package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Title     *color.Color
	Label     *color.Color
	Value     *color.Color
	Dim       *color.Color
	Success   *color.Color
	Warn      *color.Color
	Error     *color.Color
	Highlight *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:     color.New(color.FgWhite, color.Bold),
		Label:     color.New(color.FgBlue),
		Value:     color.New(color.FgCyan),
		Dim:       color.New(color.Faint),
		Success:   color.New(color.FgGreen),
		Warn:      color.New(color.FgYellow),
		Error:     color.New(color.FgRed),
		Highlight: color.New(color.FgMagenta, color.Bold),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	for _, c := range scheme.all() {
		c.DisableColor()
	}
	return scheme
}

// NewColorScheme picks the default or the plain scheme.
func NewColorScheme(useColor bool) *ColorScheme {
	if useColor {
		scheme := DefaultColorScheme()
		// fatih/color disables itself globally when stdout is not a
		// terminal; an explicit decision overrides that.
		for _, c := range scheme.all() {
			c.EnableColor()
		}
		return scheme
	}
	return NoColorScheme()
}

func (s *ColorScheme) all() []*color.Color {
	return []*color.Color{s.Title, s.Label, s.Value, s.Dim, s.Success, s.Warn, s.Error, s.Highlight}
}

// Rate colours a success percentage: green from 99, yellow from 95, red below.
func (s *ColorScheme) Rate(percent float64) *color.Color {
	switch {
	case percent >= 99:
		return s.Success
	case percent >= 95:
		return s.Warn
	default:
		return s.Error
	}
}

// SuccessIcon returns a checkmark in the scheme's success colour.
func (s *ColorScheme) SuccessIcon() string {
	return s.Success.Sprint("✓")
}

// ErrorIcon returns a cross in the scheme's error colour.
func (s *ColorScheme) ErrorIcon() string {
	return s.Error.Sprint("✗")
}
