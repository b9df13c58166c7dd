package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnsupportedLanguage indicates a language with no translation.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SupportedLanguages lists the UI languages. The first is the fallback.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Romanian,
	language.Spanish,
}

var matcher = language.NewMatcher(SupportedLanguages)

// MatchLanguage maps a BCP 47 code (or a POSIX locale such as "ro_RO") to
// the closest supported language.
func MatchLanguage(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return SupportedLanguages[0], fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return SupportedLanguages[0], fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return SupportedLanguages[idx], nil
}

// DetectLanguage picks a supported language from $LC_ALL, $LC_MESSAGES or
// $LANG, falling back to English.
func DetectLanguage() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		// "ro_RO.UTF-8@euro" -> "ro_RO"
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			break
		}
		if tag, err := MatchLanguage(v); err == nil {
			return tag
		}
		break
	}
	return SupportedLanguages[0]
}
