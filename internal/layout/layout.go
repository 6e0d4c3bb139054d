package layout

import (
	"deckgen/internal/domain"
)

// EMU conversions. OOXML positions shapes in English Metric Units.
const (
	emuPerInch = 914400

	slideWidthEMU  = 10 * emuPerInch
	slideHeightEMU = 75 * emuPerInch / 10
)

// Kind selects the slide arrangement.
type Kind string

const (
	KindTitle      Kind = "title"
	KindContent    Kind = "content"
	KindTwoContent Kind = "two_content"
)

// Box is a shape rectangle in EMU.
type Box struct {
	X, Y, W, H int64
}

// TextStyle is the resolved font treatment for one text role.
type TextStyle struct {
	Font  string
	Size  int
	Color RGB
	Bold  bool
}

// ResolvedLayout is the concrete visual plan for one slide: boxes, styles,
// background and the truncated bullet text ready for serialization.
type ResolvedLayout struct {
	Kind       Kind
	Title      string
	Bullets    []string
	TitleBox   Box
	BodyBox    Box
	VisualBox  *Box
	TitleStyle TextStyle
	BodyStyle  TextStyle
	Background Gradient
}

// Bullet budgets differ between arrangements: visuals halve the body width,
// so fewer and shorter bullets fit.
const (
	maxBulletsWithVisual = 6
	maxBulletsTextOnly   = 8
	maxBulletLenVisual   = 120
	maxBulletLenTextOnly = 180
)

// Resolve maps a slide spec plus theme and size profiles onto a concrete
// layout. It performs no I/O and is fully deterministic.
func Resolve(spec domain.SlideSpec, theme ThemeProfile, sizes SizeProfile) ResolvedLayout {
	kind := KindContent
	if spec.Index == 0 {
		kind = KindTitle
	} else if spec.HasVisual() {
		kind = KindTwoContent
	}

	resolved := ResolvedLayout{
		Kind:       kind,
		Title:      spec.Title,
		Background: theme.Background,
		TitleStyle: TextStyle{Font: theme.Fonts.Title, Size: sizes.Title, Color: theme.Colors.Primary, Bold: true},
		BodyStyle:  TextStyle{Font: theme.Fonts.Body, Size: sizes.Body, Color: theme.Colors.Secondary},
	}

	switch kind {
	case KindTitle:
		resolved.TitleStyle.Size = sizes.Title + 6
		resolved.TitleBox = Box{X: inches(0.5), Y: inches(2.2), W: inches(9.0), H: inches(1.4)}
		resolved.BodyBox = Box{X: inches(1.0), Y: inches(3.8), W: inches(8.0), H: inches(1.2)}
		if len(spec.Bullets) > 0 {
			// The opening slide carries a single subtitle line.
			resolved.Bullets = []string{truncateBullet(spec.Bullets[0], maxBulletLenTextOnly)}
			resolved.BodyStyle.Size = sizes.Subtitle
		}

	case KindTwoContent:
		resolved.TitleBox = Box{X: inches(0.5), Y: inches(0.3), W: inches(9.0), H: inches(1.0)}
		resolved.BodyBox = Box{X: inches(0.5), Y: inches(1.5), W: inches(4.5), H: inches(5.4)}
		visual := Box{X: inches(5.2), Y: inches(1.5), W: inches(4.5), H: inches(4.5)}
		resolved.VisualBox = &visual
		resolved.Bullets = truncateBullets(spec.Bullets, maxBulletsWithVisual, maxBulletLenVisual)

	default:
		resolved.TitleBox = Box{X: inches(0.5), Y: inches(0.3), W: inches(9.0), H: inches(1.0)}
		resolved.BodyBox = Box{X: inches(0.5), Y: inches(1.5), W: inches(9.0), H: inches(5.4)}
		resolved.Bullets = truncateBullets(spec.Bullets, maxBulletsTextOnly, maxBulletLenTextOnly)
	}

	return resolved
}

// SlideSize returns the deck page size in EMU.
func SlideSize() (int64, int64) {
	return slideWidthEMU, slideHeightEMU
}

func inches(v float64) int64 {
	return int64(v * emuPerInch)
}

// truncateBullets enforces the per-arrangement bullet budget, appending a
// continuation marker when bullets were dropped.
func truncateBullets(bullets []string, maxCount, maxLen int) []string {
	if len(bullets) == 0 {
		return nil
	}
	out := make([]string, 0, maxCount+1)
	for i, bullet := range bullets {
		if i == maxCount {
			out = append(out, "...")
			break
		}
		out = append(out, truncateBullet(bullet, maxLen))
	}
	return out
}

// truncateBullet cuts on rune boundaries: maxLen counts characters, and a
// byte slice could split a multi-byte rune.
func truncateBullet(bullet string, maxLen int) string {
	if len(bullet) <= maxLen {
		return bullet
	}
	runes := []rune(bullet)
	if len(runes) <= maxLen {
		return bullet
	}
	return string(runes[:maxLen-3]) + "..."
}
