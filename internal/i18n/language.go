package i18n

import (
	"fmt"
	"sync"

	"github.com/ahlulathar/ahlulathar-api/internal/prefs"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/ahlulathar/ahlulathar-api/pkg/metrics"
	"go.uber.org/zap"
)

// Language identifies one of the two supported presentation languages
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// Direction is the document text direction implied by a language
type Direction string

const (
	DirectionRTL Direction = "rtl"
	DirectionLTR Direction = "ltr"
)

// languageKey is the preference store key owning the persisted language
const languageKey = "language"

// ValidLanguage reports whether lang is a supported language id
func ValidLanguage(lang Language) bool {
	return lang == LanguageArabic || lang == LanguageEnglish
}

// DirectionFor maps a language to its text direction
func DirectionFor(lang Language) Direction {
	if lang == LanguageArabic {
		return DirectionRTL
	}
	return DirectionLTR
}

// Session tracks the current language, persists it, and exposes the derived
// direction and dictionary. Language changes apply their side effects
// (persistence, direction) synchronously in the same critical section as the
// state update, so no intermediate inconsistent state is observable.
type Session struct {
	mu           sync.RWMutex
	current      Language
	defaultLang  Language
	dictionaries map[Language]Dictionary
	prefs        prefs.Store
}

// NewSession builds a language session, restoring the persisted language if
// present and valid, else falling back to the default.
func NewSession(store prefs.Store, defaultLang Language) (*Session, error) {
	if !ValidLanguage(defaultLang) {
		return nil, fmt.Errorf("unsupported default language %q", defaultLang)
	}

	dictionaries, err := Dictionaries()
	if err != nil {
		return nil, err
	}

	current := defaultLang
	if stored, ok := store.Get(languageKey); ok {
		if ValidLanguage(Language(stored)) {
			current = Language(stored)
		} else {
			logger.Warn("Ignoring invalid persisted language", zap.String("value", stored))
		}
	}

	return &Session{
		current:      current,
		defaultLang:  defaultLang,
		dictionaries: dictionaries,
		prefs:        store,
	}, nil
}

// Language returns the current language
func (s *Session) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Direction returns the current text direction
func (s *Session) Direction() Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DirectionFor(s.current)
}

// Dictionary returns the dictionary for the current language
func (s *Session) Dictionary() Dictionary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dictionaries[s.current]
}

// DictionaryFor returns the dictionary for an explicit language
func (s *Session) DictionaryFor(lang Language) (Dictionary, bool) {
	dict, ok := s.dictionaries[lang]
	return dict, ok
}

// SetLanguage switches to lang and persists the choice. Setting the language
// already in effect re-applies the side effects idempotently.
func (s *Session) SetLanguage(lang Language) error {
	if !ValidLanguage(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = lang
	if err := s.prefs.Set(languageKey, string(lang)); err != nil {
		// State already changed; persistence failure only costs the restore
		logger.Error("Failed to persist language preference", zap.Error(err))
	}

	metrics.LanguageSwitches.WithLabelValues(string(lang)).Inc()
	return nil
}

// ToggleLanguage flips between the exactly two supported languages
func (s *Session) ToggleLanguage() Language {
	s.mu.Lock()
	next := LanguageArabic
	if s.current == LanguageArabic {
		next = LanguageEnglish
	}
	s.current = next
	if err := s.prefs.Set(languageKey, string(next)); err != nil {
		logger.Error("Failed to persist language preference", zap.Error(err))
	}
	s.mu.Unlock()

	metrics.LanguageSwitches.WithLabelValues(string(next)).Inc()
	return next
}

// Translate resolves a path in the current language's dictionary
func (s *Session) Translate(path string, replacements map[string]string) (string, error) {
	s.mu.RLock()
	dict := s.dictionaries[s.current]
	lang := s.current
	s.mu.RUnlock()

	text, err := Translate(dict, path, replacements)
	if err != nil {
		metrics.TranslationErrors.WithLabelValues(string(lang)).Inc()
		return "", err
	}
	return text, nil
}
