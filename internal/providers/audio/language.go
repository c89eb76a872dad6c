package audio

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"dreamvisualizer/internal/domain"
)

// Language is a supported narration language.
type Language struct {
	Name string
	Tag  language.Tag
}

// Code returns the ISO 639-1 code sent to the TTS backend.
func (l Language) Code() string {
	base, _ := l.Tag.Base()
	return base.String()
}

var supported = []Language{
	{Name: "english", Tag: language.English},
	{Name: "spanish", Tag: language.Spanish},
	{Name: "french", Tag: language.French},
	{Name: "german", Tag: language.German},
	{Name: "italian", Tag: language.Italian},
	{Name: "portuguese", Tag: language.Portuguese},
	{Name: "hindi", Tag: language.Hindi},
}

// DefaultLanguage is used when a request names none.
var DefaultLanguage = supported[0]

// SupportedLanguages lists narration languages by name.
func SupportedLanguages() []string {
	out := make([]string, len(supported))
	for i, l := range supported {
		out[i] = l.Name
	}
	return out
}

// ParseLanguage accepts an English language name ("spanish") or a BCP 47
// tag ("es", "pt-BR").
func ParseLanguage(s string) (Language, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DefaultLanguage, nil
	}
	for _, l := range supported {
		if l.Name == name {
			return l, nil
		}
	}
	if tag, err := language.Parse(name); err == nil {
		base, _ := tag.Base()
		for _, l := range supported {
			if b, _ := l.Tag.Base(); b == base {
				return l, nil
			}
		}
	}
	return Language{}, domain.Invalid(fmt.Sprintf("Unsupported language: %s", s))
}
