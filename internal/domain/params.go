package domain

import (
	"fmt"
	"strings"
)

// Theme enumerates the built-in visual themes.
type Theme string

const (
	ThemeCorporate   Theme = "corporate"
	ThemeTechnology  Theme = "technology"
	ThemeCreative    Theme = "creative"
	ThemeAcademic    Theme = "academic"
	ThemeHealth      Theme = "health"
	ThemeEnvironment Theme = "environment"
)

// TextSize enumerates the supported text size profiles.
type TextSize string

const (
	TextSizeSmall  TextSize = "small"
	TextSizeMedium TextSize = "medium"
	TextSizeLarge  TextSize = "large"
)

// Tone enumerates the supported writing tones.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneUrgent       Tone = "urgent"
	ToneAcademic     Tone = "academic"
	ToneCasual       Tone = "casual"
	ToneInspiring    Tone = "inspiring"
)

// Audience enumerates the supported target audiences.
type Audience string

const (
	AudienceGeneral    Audience = "general public"
	AudienceTechnical  Audience = "technical professionals"
	AudienceStudents   Audience = "students"
	AudienceExecutives Audience = "executives"
)

// Themes lists every valid theme in a stable order.
func Themes() []Theme {
	return []Theme{ThemeCorporate, ThemeTechnology, ThemeCreative, ThemeAcademic, ThemeHealth, ThemeEnvironment}
}

// TextSizes lists every valid text size.
func TextSizes() []TextSize {
	return []TextSize{TextSizeSmall, TextSizeMedium, TextSizeLarge}
}

// Tones lists every valid tone.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneFriendly, ToneUrgent, ToneAcademic, ToneCasual, ToneInspiring}
}

// Audiences lists every valid audience.
func Audiences() []Audience {
	return []Audience{AudienceGeneral, AudienceTechnical, AudienceStudents, AudienceExecutives}
}

// Params is the submission parameter set. Every field is drawn from a closed
// enumeration; SlideCount is optional (zero means "derive from input").
type Params struct {
	SlideCount int
	Theme      Theme
	TextSize   TextSize
	Tone       Tone
	Audience   Audience
	Filename   string
}

// Normalize fills empty fields with their defaults and validates the rest
// against the enumerated domains. An explicit slide count is clamped to the
// configured bounds rather than rejected. Normalize is called once at
// submission; a non-nil error wraps ErrValidation and means no job may be
// created.
func (p *Params) Normalize(minSlides, maxSlides int) error {
	if p.Theme == "" {
		p.Theme = ThemeCorporate
	}
	if p.TextSize == "" {
		p.TextSize = TextSizeMedium
	}
	if p.Tone == "" {
		p.Tone = ToneProfessional
	}
	if p.Audience == "" {
		p.Audience = AudienceGeneral
	}
	if p.Filename == "" {
		p.Filename = "presentation"
	}

	if !contains(Themes(), p.Theme) {
		return fmt.Errorf("%w: unknown theme %q", ErrValidation, p.Theme)
	}
	if !contains(TextSizes(), p.TextSize) {
		return fmt.Errorf("%w: unknown text size %q", ErrValidation, p.TextSize)
	}
	if !contains(Tones(), p.Tone) {
		return fmt.Errorf("%w: unknown tone %q", ErrValidation, p.Tone)
	}
	if !contains(Audiences(), p.Audience) {
		return fmt.Errorf("%w: unknown audience %q", ErrValidation, p.Audience)
	}
	if p.SlideCount != 0 {
		if p.SlideCount < minSlides {
			p.SlideCount = minSlides
		}
		if p.SlideCount > maxSlides {
			p.SlideCount = maxSlides
		}
	}
	p.Filename = sanitizeFilename(p.Filename)
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// sanitizeFilename strips extensions and characters that would escape the
// artifact directory.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "presentation"
	}
	return b.String()
}
