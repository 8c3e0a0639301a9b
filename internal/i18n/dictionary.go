// Package i18n holds the two-language presentation state: the translation
// dictionaries and the language session that selects between them.
package i18n

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

//go:embed locales/ar.json
var arabicLocale []byte

//go:embed locales/en.json
var englishLocale []byte

// ErrTranslationType indicates a dictionary path that resolved to a missing
// node or a non-string value. This is a configuration error and is surfaced
// loudly rather than silently swallowed.
var ErrTranslationType = errors.New("translation path is not a string")

// Dictionary is a nested mapping from dotted key paths to localized values
type Dictionary map[string]any

// placeholderPattern matches {{key}} with optional inner whitespace
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// loadDictionary decodes an embedded locale document
func loadDictionary(data []byte) (Dictionary, error) {
	var dict Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse locale file: %w", err)
	}
	return dict, nil
}

// Dictionaries loads both embedded dictionaries keyed by language
func Dictionaries() (map[Language]Dictionary, error) {
	ar, err := loadDictionary(arabicLocale)
	if err != nil {
		return nil, fmt.Errorf("arabic locale: %w", err)
	}
	en, err := loadDictionary(englishLocale)
	if err != nil {
		return nil, fmt.Errorf("english locale: %w", err)
	}
	return map[Language]Dictionary{
		LanguageArabic:  ar,
		LanguageEnglish: en,
	}, nil
}

// Resolve walks a dotted path through nested mappings. It returns nil if any
// segment is missing; there is no partial-match fallback.
func Resolve(dict Dictionary, path string) any {
	var current any = map[string]any(dict)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// Translate resolves path to a string and applies placeholder replacements.
// Every {{key}} occurrence is substituted with the replacement value;
// unmatched placeholders are left verbatim. A missing or non-string node
// fails with ErrTranslationType.
func Translate(dict Dictionary, path string, replacements map[string]string) (string, error) {
	value := Resolve(dict, path)
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("path %q: %w", path, ErrTranslationType)
	}

	if len(replacements) == 0 {
		return text, nil
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		if replacement, ok := replacements[key]; ok {
			return replacement
		}
		return match
	}), nil
}
