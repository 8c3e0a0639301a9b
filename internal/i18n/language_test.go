package i18n

import (
	"testing"

	"github.com/ahlulathar/ahlulathar-api/internal/prefs"
	"github.com/ahlulathar/ahlulathar-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func TestNewSession_DefaultsToArabic(t *testing.T) {
	session, err := NewSession(prefs.NewMemoryStore(), LanguageArabic)
	require.NoError(t, err)

	assert.Equal(t, LanguageArabic, session.Language())
	assert.Equal(t, DirectionRTL, session.Direction())
}

func TestNewSession_RestoresPersistedLanguage(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set("language", "en"))

	session, err := NewSession(store, LanguageArabic)
	require.NoError(t, err)

	assert.Equal(t, LanguageEnglish, session.Language())
	assert.Equal(t, DirectionLTR, session.Direction())
}

func TestNewSession_InvalidPersistedLanguageFallsBack(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set("language", "fr"))

	session, err := NewSession(store, LanguageArabic)
	require.NoError(t, err)

	assert.Equal(t, LanguageArabic, session.Language())
}

func TestSetLanguage_PersistsAndFlipsDirection(t *testing.T) {
	store := prefs.NewMemoryStore()
	session, err := NewSession(store, LanguageArabic)
	require.NoError(t, err)

	require.NoError(t, session.SetLanguage(LanguageEnglish))

	assert.Equal(t, LanguageEnglish, session.Language())
	assert.Equal(t, DirectionLTR, session.Direction())

	persisted, ok := store.Get("language")
	assert.True(t, ok)
	assert.Equal(t, "en", persisted)
}

func TestSetLanguage_Idempotent(t *testing.T) {
	store := prefs.NewMemoryStore()
	session, err := NewSession(store, LanguageArabic)
	require.NoError(t, err)

	require.NoError(t, session.SetLanguage(LanguageEnglish))
	require.NoError(t, session.SetLanguage(LanguageEnglish))

	assert.Equal(t, LanguageEnglish, session.Language())
	persisted, _ := store.Get("language")
	assert.Equal(t, "en", persisted)
}

func TestSetLanguage_Unsupported(t *testing.T) {
	session, err := NewSession(prefs.NewMemoryStore(), LanguageArabic)
	require.NoError(t, err)

	assert.Error(t, session.SetLanguage("fr"))
	assert.Equal(t, LanguageArabic, session.Language())
}

// Toggling twice returns to the original language and direction
func TestToggleLanguage_RoundTrip(t *testing.T) {
	store := prefs.NewMemoryStore()
	session, err := NewSession(store, LanguageArabic)
	require.NoError(t, err)

	original := session.Language()
	originalDirection := session.Direction()

	next := session.ToggleLanguage()
	assert.Equal(t, LanguageEnglish, next)
	assert.Equal(t, DirectionLTR, session.Direction())

	back := session.ToggleLanguage()
	assert.Equal(t, original, back)
	assert.Equal(t, originalDirection, session.Direction())

	persisted, _ := store.Get("language")
	assert.Equal(t, string(original), persisted)
}

func TestSession_Translate(t *testing.T) {
	session, err := NewSession(prefs.NewMemoryStore(), LanguageArabic)
	require.NoError(t, err)

	arabic, err := session.Translate("auth.errors.invalidPassword", nil)
	require.NoError(t, err)
	assert.Equal(t, "كلمة المرور غير صحيحة", arabic)

	require.NoError(t, session.SetLanguage(LanguageEnglish))

	english, err := session.Translate("auth.errors.invalidPassword", nil)
	require.NoError(t, err)
	assert.Equal(t, "Incorrect password", english)
}

func TestSession_DictionarySwitchesWithLanguage(t *testing.T) {
	session, err := NewSession(prefs.NewMemoryStore(), LanguageArabic)
	require.NoError(t, err)

	arName, err := Translate(session.Dictionary(), "common.siteName", nil)
	require.NoError(t, err)

	require.NoError(t, session.SetLanguage(LanguageEnglish))

	enName, err := Translate(session.Dictionary(), "common.siteName", nil)
	require.NoError(t, err)

	assert.NotEqual(t, arName, enName)
}
