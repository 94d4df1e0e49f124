package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending string
	Selected, Disabled                            string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string
	SymPrev, SymNext, SymSearch                   string
}

var current Theme

func init() { SetTheme("classic") }

// Themes lists the accepted theme names.
func Themes() []string { return []string{"classic", "neon", "mono", "dark"} }

// SetTheme selects a theme by name. Unknown names select classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			Selected: reverse + "\033[96m", Disabled: dim,
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
			SymPrev: "◀", SymNext: "▶", SymSearch: "⌕",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:  "mono",
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Pending: "",
			Selected: "", Disabled: "",
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymUnchecked: "-",
			SymPrev: "<", SymNext: ">", SymSearch: "?",
		}
	case "dark":
		current = Theme{
			Name:  "dark",
			Title: bold + fgWhite,
			Muted: fgGray, Accent: "\033[94m",
			Success: "\033[92m", Error: "\033[91m", Pending: "\033[93m",
			Selected: reverse + bold, Disabled: fgGray,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
			SymPrev: "‹", SymNext: "›", SymSearch: "⌕",
		}
	default: // classic
		current = Theme{
			Name:  "classic",
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			Selected: reverse, Disabled: dim,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
			SymPrev: "‹", SymNext: "›", SymSearch: "⌕",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Link underlines s in the accent color.
func Link(s string) string { return C(underline+current.Accent, s) }
