// Package localization provides functionality for internationalization (i18n)
// of server-composed texts, primarily the SYSTEM lifecycle messages the hub
// posts into rooms. Translations load from JSON files named by language code.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Localizer manages the translations for the application.
type Localizer struct {
	translations map[string]map[string]string
	defaultLang  string
	mu           sync.RWMutex
}

// NewLocalizer loads all translations from the provided directory path.
// The directory should contain JSON files named with the language code
// (e.g., "en.json"). defaultLang selects the language used by Format.
func NewLocalizer(path, defaultLang string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
		defaultLang:  defaultLang,
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}
		l.translations[lang] = translations
	}

	return l, nil
}

// NewStaticLocalizer builds a Localizer from an in-memory table. Used in
// tests and as the fallback when no locales directory is configured.
func NewStaticLocalizer(defaultLang string, table map[string]map[string]string) *Localizer {
	return &Localizer{translations: table, defaultLang: defaultLang}
}

// GetString returns the localized string for a given key and language.
// Falls back to "en", then to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}
	if lang != "en" {
		if enTranslations, ok := l.translations["en"]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}
	return key
}

// Format resolves key in the default language and interpolates args via
// fmt.Sprintf. A missing key degrades to the key itself, never panics.
func (l *Localizer) Format(key string, args ...any) string {
	template := l.GetString(l.defaultLang, key)
	if len(args) == 0 || !strings.Contains(template, "%") {
		return template
	}
	return fmt.Sprintf(template, args...)
}
