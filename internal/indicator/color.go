package indicator

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultLow    = 20
	DefaultMedium = 30
)

const (
	ColorCritical lipgloss.Color = "#F44336"
	ColorWarning  lipgloss.Color = "#FFC107"
	ColorNominal  lipgloss.Color = "#4CAF50"
	ColorUnknown  lipgloss.Color = "#424242"

	textDark  lipgloss.Color = "#000000"
	textLight lipgloss.Color = "#FFFFFF"

	// Perceived luminance above which dark text reads better.
	contrastCutoff = 186
)

// Thresholds split the battery range into critical, warning and nominal.
type Thresholds struct {
	Low    int
	Medium int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Low: DefaultLow, Medium: DefaultMedium}
}

// ColorForPercent returns the fill color for a battery level.
func (t Thresholds) ColorForPercent(pct int) lipgloss.Color {
	switch {
	case pct < t.Low:
		return ColorCritical
	case pct < t.Medium:
		return ColorWarning
	default:
		return ColorNominal
	}
}

// ContrastText picks black or white text for a "#RRGGBB" background.
// Anything unparsable gets black.
func ContrastText(bg lipgloss.Color) lipgloss.Color {
	hex := strings.TrimPrefix(string(bg), "#")
	if len(hex) != 6 {
		return textDark
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return textDark
	}

	r := float64(v >> 16 & 0xff)
	g := float64(v >> 8 & 0xff)
	b := float64(v & 0xff)

	if 0.299*r+0.587*g+0.114*b > contrastCutoff {
		return textDark
	}

	return textLight
}
