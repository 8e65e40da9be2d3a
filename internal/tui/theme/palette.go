package theme

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Card holds the colors of a booking card of one status.
type Card struct {
	Bg    lipgloss.Color
	BgAlt lipgloss.Color // adjacent cards of the same status alternate
	Text  lipgloss.Color
}

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Now         lipgloss.Color
	Warning     lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color

	cards    map[string]Card
	fallback Card

	Modal ModalColors
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Backdrop  lipgloss.Color
}

// NewPalette derives a Palette from t.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(fallback)
	}
	light := isLightTheme(t.Bg)

	card := func(accent string, muted bool) Card {
		bg := cardBg(accent, t.Bg, light, muted)
		return Card{
			Bg:    lipgloss.Color(bg),
			BgAlt: lipgloss.Color(alternateShade(bg, light)),
			Text:  lipgloss.Color(chooseTextColor(bg, t.Fg, t.Bg)),
		}
	}

	modal := ModalColors{
		Bg:        lipgloss.Color(coalesce(t.BaseBg, t.BgHighlight, t.Bg)),
		Border:    adaptiveColor(coalesce(t.ModalBorder, t.Accent)),
		Text:      adaptiveColor(coalesce(t.TextPrimary, t.Fg)),
		Muted:     adaptiveColor(coalesce(t.TextMuted, t.FgMuted)),
		Highlight: adaptiveColor(coalesce(t.Highlight, t.BgSelection, t.Accent)),
		Backdrop:  lipgloss.Color(coalesce(t.BgSelection, t.BgHighlight, t.Bg)),
	}

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Now:         lipgloss.Color(t.Now),
		Warning:     lipgloss.Color(t.Warning),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),

		cards: map[string]Card{
			"confirmed": card(t.Confirmed, false),
			"pending":   card(t.Pending, false),
			"completed": card(t.Completed, true),
			"cancelled": card(t.Cancelled, true),
		},
		fallback: card(t.Accent, false),
		Modal:    modal,
	}
}

// Card returns the card colors for a booking status. Unknown statuses use
// the accent color.
func (p *Palette) Card(status string) Card {
	if c, ok := p.cards[status]; ok {
		return c
	}
	return p.fallback
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// cardBg tones accent down so card text stays readable. Muted cards are
// pushed further towards the background.
func cardBg(accent, bg string, light, muted bool) string {
	if light {
		if muted {
			return blendColors(accent, bg, 0.88)
		}
		return blendColors(accent, bg, 0.75)
	}
	if muted {
		return scaleColor(accent, 0.30, 30)
	}
	return scaleColor(accent, 0.50, 40)
}

// scaleColor darkens hex by factor, keeping every channel at or above floor.
func scaleColor(hex string, factor float64, floor int) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}
	scale := func(c int) int {
		return max(int(float64(c)*factor), floor)
	}
	return formatHexColor(scale(r), scale(g), scale(b))
}

func alternateShade(hex string, light bool) string {
	if light {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

func rgb(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func formatHexColor(r, g, b int) string {
	clamp := func(c int) int { return min(max(c, 0), 255) }
	v := clamp(r)<<16 | clamp(g)<<8 | clamp(b)
	s := strconv.FormatInt(int64(v), 16)
	for len(s) < 6 {
		s = "0" + s
	}
	return "#" + s
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := rgb(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, ok1 := rgb(a)
	br, bg, bb, ok2 := rgb(b)
	if !ok1 || !ok2 {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
