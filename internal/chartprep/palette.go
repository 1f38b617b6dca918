package chartprep

import "tradepulse/pkg/contracts/domain"

// TimeEncoding selects how timestamps are rendered for the charting backend.
type TimeEncoding string

const (
	// EncodingISO8601 renders UTC-normalized ISO-8601 strings without a
	// timezone suffix.
	EncodingISO8601 TimeEncoding = "iso8601"
	// EncodingEpochMillis renders epoch milliseconds as integers.
	EncodingEpochMillis TimeEncoding = "epoch_ms"
)

// ParseTimeEncoding maps a configuration label to a TimeEncoding,
// defaulting to epoch milliseconds.
func ParseTimeEncoding(s string) TimeEncoding {
	if TimeEncoding(s) == EncodingISO8601 {
		return EncodingISO8601
	}
	return EncodingEpochMillis
}

// Theme names a chart palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a configuration label to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Palette holds the theme-dependent colors. The side-to-role mapping is
// fixed: buys take the win color, sells the lose color, everything else
// (including unrecognized sides) the neutral color.
type Palette struct {
	Win       string `json:"win"`
	Lose      string `json:"lose"`
	Neutral   string `json:"neutral"`
	PriceLine string `json:"price_line"`
}

var (
	lightPalette = Palette{
		Win:       "#2e7d32",
		Lose:      "#c62828",
		Neutral:   "#1976d2",
		PriceLine: "#455a64",
	}
	darkPalette = Palette{
		Win:       "#66bb6a",
		Lose:      "#ef5350",
		Neutral:   "#64b5f6",
		PriceLine: "#b0bec5",
	}
)

// PaletteFor returns the palette for a theme.
func PaletteFor(theme Theme) Palette {
	if theme == ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// ColorFor maps a trade side to its display color.
func (p Palette) ColorFor(side domain.Side) string {
	switch side {
	case domain.SideBuy:
		return p.Win
	case domain.SideSell:
		return p.Lose
	default:
		return p.Neutral
	}
}
