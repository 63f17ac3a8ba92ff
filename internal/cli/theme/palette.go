// Package theme holds the persisted colour theme preference and turns the
// selected palette into terminal styles.
package theme

import "sort"

// Name identifies a palette
type Name string

const (
	Beige      Name = "beige"
	Scandi     Name = "scandi"
	Cappuccino Name = "cappuccino"
	Forest     Name = "forest"
	Ocean      Name = "ocean"
	Plum       Name = "plum"
)

// Default is used on first run and whenever a stored name does not resolve.
const Default = Beige

// Colors is the full token set of a palette. Values are CSS colour strings;
// only hex values can be rendered in a terminal.
type Colors struct {
	Primary      string
	PrimaryHover string
	PrimaryLight string
	PrimaryBg    string

	Accent      string
	AccentHover string
	AccentBg    string

	BgPrimary   string
	BgSecondary string
	BgCard      string

	TextPrimary   string
	TextSecondary string
	TextMuted     string

	Border      string
	BorderLight string

	BtnPrimary      string
	BtnPrimaryHover string
	BtnSecondary    string
	BtnSecondaryBg  string
}

// Palette is a named, described colour set
type Palette struct {
	Name        Name
	Label       string
	Description string
	Colors      Colors
}

var palettes = map[Name]Palette{
	Beige: {
		Name:        Beige,
		Label:       "Beige & Earth",
		Description: "Warm neutrals with green accents and terracotta highlights",
		Colors: Colors{
			Primary:         "#2d5a27",
			PrimaryHover:    "#1e3d1a",
			PrimaryLight:    "#5a8f5a",
			PrimaryBg:       "rgba(45, 90, 39, 0.1)",
			Accent:          "#c17f59",
			AccentHover:     "#a36547",
			AccentBg:        "rgba(193, 127, 89, 0.1)",
			BgPrimary:       "#f4f5f2",
			BgSecondary:     "#faf9f6",
			BgCard:          "#faf8f5",
			TextPrimary:     "#3d3428",
			TextSecondary:   "#6d5c4a",
			TextMuted:       "#a89880",
			Border:          "#e5ddd3",
			BorderLight:     "#f5f0e8",
			BtnPrimary:      "#2d5a27",
			BtnPrimaryHover: "#1e3d1a",
			BtnSecondary:    "#c17f59",
			BtnSecondaryBg:  "rgba(193, 127, 89, 0.1)",
		},
	},
	Scandi: {
		Name:        Scandi,
		Label:       "Scandinavian Night",
		Description: "Dark sophisticated with gold and mint accents",
		Colors: Colors{
			Primary:         "#d4a574",
			PrimaryHover:    "#b8956a",
			PrimaryLight:    "#e0c0a0",
			PrimaryBg:       "rgba(212, 165, 116, 0.12)",
			Accent:          "#9db4a0",
			AccentHover:     "#8a9f8d",
			AccentBg:        "rgba(157, 180, 160, 0.12)",
			BgPrimary:       "#2a2f35",
			BgSecondary:     "#24282c",
			BgCard:          "#2f343a",
			TextPrimary:     "#e8e4df",
			TextSecondary:   "#a8a49d",
			TextMuted:       "#7a7670",
			Border:          "#3d4148",
			BorderLight:     "#363a40",
			BtnPrimary:      "#d4a574",
			BtnPrimaryHover: "#b8956a",
			BtnSecondary:    "#9db4a0",
			BtnSecondaryBg:  "rgba(157, 180, 160, 0.12)",
		},
	},
	Cappuccino: {
		Name:        Cappuccino,
		Label:       "Cappuccino & Stone",
		Description: "Warm coffee tones with stone neutrals",
		Colors: Colors{
			Primary:         "#6d5c4a",
			PrimaryHover:    "#5c4d3d",
			PrimaryLight:    "#8b7d6a",
			PrimaryBg:       "rgba(109, 92, 74, 0.1)",
			Accent:          "#c17f59",
			AccentHover:     "#a36547",
			AccentBg:        "rgba(193, 127, 89, 0.1)",
			BgPrimary:       "#faf8f5",
			BgSecondary:     "#f5f0e8",
			BgCard:          "#faf8f5",
			TextPrimary:     "#3d3428",
			TextSecondary:   "#6d5c4a",
			TextMuted:       "#a89880",
			Border:          "#e5ddd3",
			BorderLight:     "#f5f0e8",
			BtnPrimary:      "#6d5c4a",
			BtnPrimaryHover: "#5c4d3d",
			BtnSecondary:    "#a89880",
			BtnSecondaryBg:  "rgba(168, 152, 128, 0.1)",
		},
	},
	Forest: {
		Name:        Forest,
		Label:       "Forest Green",
		Description: "Deep greens with a terracotta accent",
		Colors: Colors{
			Primary:         "#2d5a27",
			PrimaryHover:    "#1e3d1a",
			PrimaryLight:    "#5a8f5a",
			PrimaryBg:       "rgba(90, 143, 90, 0.1)",
			Accent:          "#c17f59",
			AccentHover:     "#a36547",
			AccentBg:        "rgba(193, 127, 89, 0.1)",
			BgPrimary:       "#f4f5f2",
			BgSecondary:     "#faf9f6",
			BgCard:          "#faf8f5",
			TextPrimary:     "#3d3428",
			TextSecondary:   "#6d5c4a",
			TextMuted:       "#a89880",
			Border:          "#e5ddd3",
			BorderLight:     "#f5f0e8",
			BtnPrimary:      "#2d5a27",
			BtnPrimaryHover: "#1e3d1a",
			BtnSecondary:    "#c17f59",
			BtnSecondaryBg:  "rgba(193, 127, 89, 0.1)",
		},
	},
	Ocean: {
		Name:        Ocean,
		Label:       "Ocean Blue",
		Description: "Cool blues with an amber accent",
		Colors: Colors{
			Primary:         "#1e40af",
			PrimaryHover:    "#1e3a8a",
			PrimaryLight:    "#3b82f6",
			PrimaryBg:       "rgba(59, 130, 246, 0.1)",
			Accent:          "#f59e0b",
			AccentHover:     "#d97706",
			AccentBg:        "rgba(245, 158, 11, 0.1)",
			BgPrimary:       "#f8fafc",
			BgSecondary:     "#f1f5f9",
			BgCard:          "#ffffff",
			TextPrimary:     "#0f172a",
			TextSecondary:   "#334155",
			TextMuted:       "#64748b",
			Border:          "#cbd5e1",
			BorderLight:     "#e2e8f0",
			BtnPrimary:      "#1e40af",
			BtnPrimaryHover: "#1e3a8a",
			BtnSecondary:    "#f59e0b",
			BtnSecondaryBg:  "rgba(245, 158, 11, 0.1)",
		},
	},
	Plum: {
		Name:        Plum,
		Label:       "Plum Purple",
		Description: "Rich purples with an amber accent",
		Colors: Colors{
			Primary:         "#7c3aed",
			PrimaryHover:    "#6d28d9",
			PrimaryLight:    "#a78bfa",
			PrimaryBg:       "rgba(167, 139, 250, 0.1)",
			Accent:          "#f59e0b",
			AccentHover:     "#d97706",
			AccentBg:        "rgba(245, 158, 11, 0.1)",
			BgPrimary:       "#faf5ff",
			BgSecondary:     "#f3e8ff",
			BgCard:          "#ffffff",
			TextPrimary:     "#1e1b4b",
			TextSecondary:   "#4c1d95",
			TextMuted:       "#8b5cf6",
			Border:          "#ddd6fe",
			BorderLight:     "#ede9fe",
			BtnPrimary:      "#7c3aed",
			BtnPrimaryHover: "#6d28d9",
			BtnSecondary:    "#f59e0b",
			BtnSecondaryBg:  "rgba(245, 158, 11, 0.1)",
		},
	},
}

// Valid reports whether name is a known palette
func Valid(name Name) bool {
	_, ok := palettes[name]
	return ok
}

// Resolve returns the palette for name, or the default palette when name is
// unknown.
func Resolve(name Name) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

// Names lists the palettes in a stable order, default first.
func Names() []Name {
	names := make([]Name, 0, len(palettes))
	for name := range palettes {
		if name != Default {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return append([]Name{Default}, names...)
}
