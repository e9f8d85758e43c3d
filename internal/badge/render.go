package badge

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Style selects the visual variant of a badge.
type Style string

const (
	// StyleFlat is the default rounded badge.
	StyleFlat Style = "flat"
	// StyleFlatSquare drops the corner radius.
	StyleFlatSquare Style = "flat-square"
	// StylePlastic doubles the gradient overlay.
	StylePlastic Style = "plastic"
)

const (
	badgeHeight  = 20
	minBoxWidth  = 40
	boxPadding   = 10
	labelFill    = "#555"
	fontFamily   = "DejaVu Sans,Verdana,Geneva,sans-serif"
	textScale    = 10
	wideRuneLow  = '\u4e00'
	wideRuneHigh = '\u9fff'
)

// Spec is the fully resolved input of Render.
type Spec struct {
	Label string
	Value string
	Color string
	Style Style
}

// ParseStyle maps a style query value to a Style. Unknown values render as flat.
func ParseStyle(raw string) Style {
	switch Style(raw) {
	case StyleFlatSquare:
		return StyleFlatSquare
	case StylePlastic:
		return StylePlastic
	default:
		return StyleFlat
	}
}

func (s Style) cornerRadius() int {
	if s == StyleFlatSquare {
		return 0
	}
	return 3
}

func (s Style) gradientOpacity() string {
	if s == StylePlastic {
		return "0.2"
	}
	return "0.1"
}

// TextWidth estimates the rendered width of text in badge units.
// Only the common Han block is treated as wide.
func TextWidth(text string) int {
	width := 0
	for _, r := range text {
		switch {
		case isASCIIAlnum(r):
			width += 6
		case r >= wideRuneLow && r <= wideRuneHigh:
			width += 11
		default:
			width += 4
		}
	}
	return width
}

// BoxWidth is the width of one badge panel holding text.
func BoxWidth(text string) int {
	return max(TextWidth(text)+boxPadding, minBoxWidth)
}

// Width is the total width of the badge described by spec.
func Width(spec Spec) int {
	return BoxWidth(spec.Label) + BoxWidth(spec.Value)
}

// Render produces a self-contained SVG document for spec.
func Render(spec Spec) string {
	labelWidth := BoxWidth(spec.Label)
	valueWidth := BoxWidth(spec.Value)
	totalWidth := labelWidth + valueWidth
	rx := spec.Style.cornerRadius()
	opacity := spec.Style.gradientOpacity()

	label := escapeText(spec.Label)
	value := escapeText(spec.Value)
	color := escapeText(spec.Color)
	labelX := labelWidth * textScale / 2
	valueX := labelWidth*textScale + valueWidth*textScale/2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" role="img" aria-label="%s: %s">`+"\n", totalWidth, badgeHeight, label, value)
	fmt.Fprintf(&b, "  <title>%s: %s</title>\n", label, value)
	b.WriteString(`  <linearGradient id="b" x2="0" y2="100%">` + "\n")
	fmt.Fprintf(&b, `    <stop offset="0" stop-color="#bbb" stop-opacity="%s"/>`+"\n", opacity)
	fmt.Fprintf(&b, `    <stop offset="1" stop-opacity="%s"/>`+"\n", opacity)
	b.WriteString("  </linearGradient>\n")
	b.WriteString(`  <clipPath id="a">` + "\n")
	fmt.Fprintf(&b, `    <rect width="%d" height="%d" rx="%d" fill="#fff"/>`+"\n", totalWidth, badgeHeight, rx)
	b.WriteString("  </clipPath>\n")
	b.WriteString(`  <g clip-path="url(#a)">` + "\n")
	fmt.Fprintf(&b, `    <path fill="%s" d="M0 0h%dv%dH0z"/>`+"\n", labelFill, labelWidth, badgeHeight)
	fmt.Fprintf(&b, `    <path fill="%s" d="M%d 0h%dv%dH%dz"/>`+"\n", color, labelWidth, valueWidth, badgeHeight, labelWidth)
	fmt.Fprintf(&b, `    <path fill="url(#b)" d="M0 0h%dv%dH0z"/>`+"\n", totalWidth, badgeHeight)
	b.WriteString("  </g>\n")
	fmt.Fprintf(&b, `  <g fill="#fff" text-anchor="middle" font-family="%s" font-size="110">`+"\n", fontFamily)
	writeText(&b, labelX, label)
	writeText(&b, valueX, value)
	b.WriteString("  </g>\n")
	b.WriteString("</svg>\n")
	return b.String()
}

// writeText emits the shadow copy one unit below the text itself.
func writeText(b *strings.Builder, x int, text string) {
	fmt.Fprintf(b, `    <text x="%d" y="150" fill="#010101" fill-opacity=".3" transform="scale(.1)">%s</text>`+"\n", x, text)
	fmt.Fprintf(b, `    <text x="%d" y="140" transform="scale(.1)">%s</text>`+"\n", x, text)
}

func escapeText(text string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(text)); err != nil {
		return ""
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
