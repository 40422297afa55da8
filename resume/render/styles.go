package render

import (
	"html/template"
	"math"
	"strconv"
	"strings"
)

// Palette carries the swatch colours shown for a template.
type Palette struct {
	Primary    string
	Secondary  string
	Background string
}

// Palettes centralizes the colours each template is drawn with.
var Palettes = map[string]Palette{
	"modern": {
		Primary:    "#3B82F6",
		Secondary:  "#1E40AF",
		Background: "#F3F4F6",
	},
	"professional": {
		Primary:    "#6B7280",
		Secondary:  "#111827",
		Background: "#F9FAFB",
	},
	"creative": {
		Primary:    "#EC4899",
		Secondary:  "#4F46E5",
		Background: "#FFFBEB",
	},
	"minimal": {
		Primary:    "#64748B",
		Secondary:  "#334155",
		Background: "#F8FAFC",
	},
}

const maxSkillLevel = 5

var funcMap = template.FuncMap{
	"join":          joinNonEmpty,
	"degreeLine":    degreeLine,
	"barWidth":      barWidth,
	"levelLabel":    levelLabel,
	"skillTint":     skillTint,
	"skillOpacity":  skillOpacity,
	"pageStyle":     pageStyle,
	"background":    background,
	"gradient":      gradient,
	"withSeparator": withSeparator,
	"last":          func(i, n int) bool { return i == n-1 },
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func degreeLine(degree, field string) string {
	return joinNonEmpty(" in ", degree, field)
}

// barWidth is the filled share of a skill bar, as a CSS declaration.
func barWidth(level float64) template.CSS {
	return template.CSS("width: " + formatNumber(level/maxSkillLevel*100) + "%")
}

func levelLabel(level float64) string {
	return formatNumber(level) + "/" + strconv.Itoa(maxSkillLevel)
}

// skillOpacity is the creative tag tint alpha: 0.1 + level/10.
func skillOpacity(level float64) string {
	return formatNumber(0.1 + level/10)
}

func skillTint(level float64, text string) template.CSS {
	return template.CSS("background-color: rgba(236, 72, 153, " + skillOpacity(level) + "); color: " + text)
}

func pageStyle(width, height int) template.CSS {
	return template.CSS("width: " + strconv.Itoa(width) + "px; height: " + strconv.Itoa(height) + "px; overflow: hidden")
}

func background(color string) template.CSS {
	return template.CSS("background-color: " + color)
}

func gradient(from, to string) template.CSS {
	return template.CSS("background: linear-gradient(to right, " + from + ", " + to + ")")
}

// withSeparator drops empty values so callers can join what remains.
func withSeparator(values ...string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

// formatNumber renders n with at most two decimals and no trailing zeros.
func formatNumber(n float64) string {
	return strconv.FormatFloat(math.Round(n*100)/100, 'f', -1, 64)
}
