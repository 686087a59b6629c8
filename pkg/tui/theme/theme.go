package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Editor EditorTheme
	Footer FooterTheme
	Picker PickerTheme
}

// EditorTheme styles the collection frame and its rows.
type EditorTheme struct {
	Title       lipgloss.Style
	Row         lipgloss.Style
	RowAlt      lipgloss.Style
	Cursor      lipgloss.Style
	Dragging    lipgloss.Style
	Placeholder lipgloss.Style
	Handle      lipgloss.Style
	Remove      lipgloss.Style
	Disabled    lipgloss.Style
	Empty       lipgloss.Style
	KeyValid    lipgloss.Style
	KeyInvalid  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// PickerTheme styles the type chooser overlay.
type PickerTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
}

// Palette is the small set of colors the theme derives its styles from.
type Palette struct {
	Base   colorful.Color
	Accent colorful.Color
	Muted  colorful.Color
	Danger colorful.Color
}

// DarkPalette suits dark terminal backgrounds.
func DarkPalette() Palette {
	return Palette{
		Base:   hex("#1d1f27"),
		Accent: hex("#b48ead"),
		Muted:  hex("#6c7086"),
		Danger: hex("#e06c75"),
	}
}

// LightPalette suits light terminal backgrounds.
func LightPalette() Palette {
	return Palette{
		Base:   hex("#f5f5f7"),
		Accent: hex("#8839ef"),
		Muted:  hex("#8c8fa1"),
		Danger: hex("#d20f39"),
	}
}

// Default returns the theme matching the terminal background.
func Default() Theme {
	if termenv.HasDarkBackground() {
		return FromPalette(DarkPalette())
	}
	return FromPalette(LightPalette())
}

// FromPalette builds every style from p. Odd rows are striped with the base
// color blended slightly toward the accent.
func FromPalette(p Palette) Theme {
	accent := lipglossColor(p.Accent)
	muted := lipglossColor(p.Muted)
	danger := lipglossColor(p.Danger)
	stripe := lipglossColor(p.Base.BlendLab(p.Accent, 0.12))
	drag := lipglossColor(p.Base.BlendLab(p.Accent, 0.35))

	return Theme{
		Editor: EditorTheme{
			Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
			Row:         lipgloss.NewStyle(),
			RowAlt:      lipgloss.NewStyle().Background(stripe),
			Cursor:      lipgloss.NewStyle().Foreground(accent).Bold(true),
			Dragging:    lipgloss.NewStyle().Background(drag).Bold(true),
			Placeholder: lipgloss.NewStyle().Foreground(muted),
			Handle:      lipgloss.NewStyle().Foreground(muted),
			Remove:      lipgloss.NewStyle().Foreground(danger),
			Disabled:    lipgloss.NewStyle().Foreground(muted).Faint(true),
			Empty:       lipgloss.NewStyle().Foreground(muted).Italic(true),
			KeyValid:    lipgloss.NewStyle().Foreground(accent),
			KeyInvalid:  lipgloss.NewStyle().Foreground(danger),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(muted),
			Status: lipgloss.NewStyle().Foreground(muted),
			Error:  lipgloss.NewStyle().Foreground(danger),
		},
		Picker: PickerTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(0, 1),
			Title:    lipgloss.NewStyle().Bold(true),
			Item:     lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Reverse(true),
			Empty:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
	}
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

func lipglossColor(c colorful.Color) color.Color {
	return lipgloss.Color(c.Clamped().Hex())
}
