// Package overlay draws one rendered block on top of another.
package overlay

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

// Compose draws foreground over background with its top-left corner at
// (x, y), clipped to width by height. Background text outside the block is
// kept.
func Compose(background string, width, height int, foreground string, x, y int) string {
	lines := normalize(background, width, height)
	if foreground == "" || width <= 0 {
		return strings.Join(lines, "\n")
	}
	fg := strings.Split(foreground, "\n")
	fgWidth := 0
	for _, l := range fg {
		fgWidth = max(fgWidth, lipgloss.Width(l))
	}
	x = clamp(x, 0, max(width-fgWidth, 0))
	y = clamp(y, 0, max(height-len(fg), 0))
	fgWidth = min(fgWidth, width-x)

	for i, l := range fg {
		row := y + i
		if row >= len(lines) {
			break
		}
		base := []rune(lines[row])
		suffix := ""
		if x+fgWidth < len(base) {
			suffix = string(base[x+fgWidth:])
		}
		prefix := string(base[:min(x, len(base))])
		lines[row] = prefix + pad(truncate.String(l, uint(fgWidth)), fgWidth) + suffix
	}
	return strings.Join(lines, "\n")
}

// normalize returns exactly height plain lines of exactly width cells.
// Background styling is dropped so the block can be cut by rune.
func normalize(view string, width, height int) []string {
	lines := strings.Split(stripped(view), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(truncate.String(lines[i], uint(max(width, 0))), width)
	}
	return lines
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripped(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
