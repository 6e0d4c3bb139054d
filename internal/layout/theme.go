// Package layout maps abstract slide specs onto concrete visual geometry,
// fonts and colors. Everything here is a pure function of its inputs.
package layout

import (
	"fmt"

	"deckgen/internal/domain"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as the uppercase hex form used in OOXML attributes.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Palette holds the three theme colors.
type Palette struct {
	Primary   RGB
	Secondary RGB
	Accent    RGB
}

// Gradient is a two-stop background fill.
type Gradient struct {
	Start RGB
	End   RGB
}

// Fonts assigns a font family per text role.
type Fonts struct {
	Title string
	Body  string
}

// ThemeProfile is one of the six built-in themes. The set is closed: profiles
// are resolved through ProfileFor, never by arbitrary key lookup.
type ThemeProfile struct {
	Name       domain.Theme
	Colors     Palette
	Background Gradient
	Fonts      Fonts
}

// SizeProfile carries the point sizes per text role.
type SizeProfile struct {
	Title    int
	Subtitle int
	Body     int
}

var themeProfiles = map[domain.Theme]ThemeProfile{
	domain.ThemeCorporate: {
		Name:       domain.ThemeCorporate,
		Colors:     Palette{Primary: RGB{26, 35, 126}, Secondary: RGB{144, 164, 174}, Accent: RGB{255, 87, 34}},
		Background: Gradient{Start: RGB{236, 239, 241}, End: RGB{207, 216, 220}},
		Fonts:      Fonts{Title: "Segoe UI Semibold", Body: "Segoe UI"},
	},
	domain.ThemeTechnology: {
		Name:       domain.ThemeTechnology,
		Colors:     Palette{Primary: RGB{0, 230, 118}, Secondary: RGB{3, 169, 244}, Accent: RGB{255, 64, 129}},
		Background: Gradient{Start: RGB{0, 0, 0}, End: RGB{48, 48, 48}},
		Fonts:      Fonts{Title: "Roboto", Body: "Roboto"},
	},
	domain.ThemeCreative: {
		Name:       domain.ThemeCreative,
		Colors:     Palette{Primary: RGB{255, 111, 145}, Secondary: RGB{255, 202, 58}, Accent: RGB{138, 201, 38}},
		Background: Gradient{Start: RGB{255, 243, 246}, End: RGB{255, 224, 229}},
		Fonts:      Fonts{Title: "Poppins", Body: "Poppins"},
	},
	domain.ThemeAcademic: {
		Name:       domain.ThemeAcademic,
		Colors:     Palette{Primary: RGB{38, 70, 83}, Secondary: RGB{244, 162, 97}, Accent: RGB{231, 111, 81}},
		Background: Gradient{Start: RGB{255, 251, 245}, End: RGB{255, 241, 232}},
		Fonts:      Fonts{Title: "Georgia", Body: "Georgia"},
	},
	domain.ThemeHealth: {
		Name:       domain.ThemeHealth,
		Colors:     Palette{Primary: RGB{102, 187, 106}, Secondary: RGB{56, 79, 73}, Accent: RGB{255, 143, 0}},
		Background: Gradient{Start: RGB{255, 255, 255}, End: RGB{230, 255, 244}},
		Fonts:      Fonts{Title: "Helvetica Neue", Body: "Helvetica"},
	},
	domain.ThemeEnvironment: {
		Name:       domain.ThemeEnvironment,
		Colors:     Palette{Primary: RGB{34, 87, 59}, Secondary: RGB{44, 106, 84}, Accent: RGB{255, 245, 157}},
		Background: Gradient{Start: RGB{232, 245, 233}, End: RGB{200, 230, 201}},
		Fonts:      Fonts{Title: "Lato", Body: "Lato"},
	},
}

var sizeProfiles = map[domain.TextSize]SizeProfile{
	domain.TextSizeSmall:  {Title: 26, Subtitle: 20, Body: 16},
	domain.TextSizeMedium: {Title: 30, Subtitle: 24, Body: 20},
	domain.TextSizeLarge:  {Title: 34, Subtitle: 28, Body: 24},
}

// ProfileFor resolves a theme name to its profile. Unknown names fall back to
// corporate, mirroring the submission default.
func ProfileFor(theme domain.Theme) ThemeProfile {
	if profile, ok := themeProfiles[theme]; ok {
		return profile
	}
	return themeProfiles[domain.ThemeCorporate]
}

// SizesFor resolves a text size name to its point sizes, defaulting to medium.
func SizesFor(size domain.TextSize) SizeProfile {
	if profile, ok := sizeProfiles[size]; ok {
		return profile
	}
	return sizeProfiles[domain.TextSizeMedium]
}
