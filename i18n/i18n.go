// Package i18n localizes user-visible strings. Message keys are the English
// text, so an unknown key or locale prints the key itself.
package i18n

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/soocke/deepin-screenshot-go/assets"
)

// Translator formats messages for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New builds a Translator for a POSIX locale name such as "zh_CN.UTF-8".
func New(locale string) (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	files, err := assets.LocaleFiles()
	if err != nil {
		return nil, err
	}
	for name, data := range files {
		if err := load(b, name, data); err != nil {
			return nil, err
		}
	}
	tag := ParseLocale(locale)
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b))}, nil
}

func load(b *catalog.Builder, name string, data []byte) error {
	var msgs map[string]string
	if err := json.Unmarshal(data, &msgs); err != nil {
		return fmt.Errorf("locale %s: %w", name, err)
	}
	tag := ParseLocale(name)
	for key, msg := range msgs {
		if err := b.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("locale %s: %q: %w", name, key, err)
		}
	}
	return nil
}

// Tr formats key in the translator's language.
func (t *Translator) Tr(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Tag is the language the translator resolved to.
func (t *Translator) Tag() language.Tag { return t.tag }

// ParseLocale converts "zh_CN.UTF-8@latin" style names to a language tag.
// C, POSIX and unparsable names yield language.Und.
func ParseLocale(locale string) language.Tag {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return language.Und
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// LocaleFromEnv returns the message locale following POSIX precedence.
func LocaleFromEnv(getenv func(string) string) string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(k); v != "" {
			return v
		}
	}
	return ""
}
