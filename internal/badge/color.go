package badge

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// DefaultColor is used when a color token cannot be resolved.
	DefaultColor = "#4c1"
	// ErrorColor paints error and invalid-path badges.
	ErrorColor = "#e05d44"
	// PreviewColor is the value color of the example badge when none is given.
	PreviewColor = "#007ec6"
)

var namedColors = map[string]string{
	"red":           "#e05d44",
	"green":         "#4c1",
	"blue":          "#007ec6",
	"yellow":        "#dfb317",
	"orange":        "#fe7d37",
	"purple":        "#9f9f9f",
	"pink":          "#ff69b4",
	"gray":          "#9f9f9f",
	"grey":          "#9f9f9f",
	"brightgreen":   "#4c1",
	"lightgrey":     "#9f9f9f",
	"success":       "#4c1",
	"important":     "#fe7d37",
	"critical":      "#e05d44",
	"informational": "#007ec6",
	"inactive":      "#9f9f9f",
}

var (
	hex6Pattern      = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
	hashHex6Pattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hex3Pattern      = regexp.MustCompile(`^[0-9a-fA-F]{3}$`)
	severityBrackets = []struct {
		below int64
		color string
	}{
		{below: 100, color: "#97ca00"},
		{below: 1000, color: "#4c1"},
		{below: 10000, color: "#007ec6"},
	}
)

// ResolveColor maps a named color or hex token to a badge fill color.
// Names are matched before hex patterns; unknown tokens fall back to DefaultColor.
func ResolveColor(token string) string {
	if named, ok := namedColors[strings.ToLower(token)]; ok {
		return named
	}

	switch {
	case hex6Pattern.MatchString(token):
		return "#" + token
	case hashHex6Pattern.MatchString(token):
		return token
	case hex3Pattern.MatchString(token):
		var b strings.Builder
		b.WriteByte('#')
		for i := 0; i < len(token); i++ {
			b.WriteByte(token[i])
			b.WriteByte(token[i])
		}
		return b.String()
	default:
		return DefaultColor
	}
}

// SeverityColor picks the default value color for a download total.
func SeverityColor(total int64) string {
	for _, bracket := range severityBrackets {
		if total < bracket.below {
			return bracket.color
		}
	}
	return ErrorColor
}

// NamedColors returns the accepted color names in sorted order.
func NamedColors() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
