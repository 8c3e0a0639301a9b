package handlers

import (
	"errors"
	"net/http"

	"github.com/ahlulathar/ahlulathar-api/internal/i18n"
	"github.com/ahlulathar/ahlulathar-api/internal/models"
	"github.com/gin-gonic/gin"
)

// LanguageHandler handles localization endpoints
type LanguageHandler struct {
	session *i18n.Session
}

// NewLanguageHandler creates a new LanguageHandler
func NewLanguageHandler(session *i18n.Session) *LanguageHandler {
	return &LanguageHandler{
		session: session,
	}
}

// languageResponse is the shared payload for language state endpoints
func languageResponse(lang i18n.Language) gin.H {
	return gin.H{
		"language":  lang,
		"direction": i18n.DirectionFor(lang),
	}
}

// GetLanguage handles GET /api/v1/language
// Returns the active language and its text direction
func (h *LanguageHandler) GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, languageResponse(h.session.Language()))
}

// SetLanguage handles PUT /api/v1/language
// Switches the active language and persists the choice
func (h *LanguageHandler) SetLanguage(c *gin.Context) {
	var req models.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.session.SetLanguage(i18n.Language(req.Language)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to switch language", err)
		return
	}

	c.JSON(http.StatusOK, languageResponse(h.session.Language()))
}

// ToggleLanguage handles POST /api/v1/language/toggle
// Switches between Arabic and English
func (h *LanguageHandler) ToggleLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, languageResponse(h.session.ToggleLanguage()))
}

// GetDictionary handles GET /api/v1/language/dictionary
// Returns the full dictionary for the active language, or for ?lang= when given
func (h *LanguageHandler) GetDictionary(c *gin.Context) {
	lang := h.session.Language()
	if requested := c.Query("lang"); requested != "" {
		lang = i18n.Language(requested)
	}

	dict, ok := h.session.DictionaryFor(lang)
	if !ok {
		respondError(c, http.StatusBadRequest, "Unsupported language", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language":   lang,
		"direction":  i18n.DirectionFor(lang),
		"dictionary": dict,
	})
}

// Translate handles POST /api/v1/language/translate
// Resolves a single dictionary path with optional placeholder replacements
func (h *LanguageHandler) Translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	text, err := h.session.Translate(req.Path, req.Replacements)
	if err != nil {
		if errors.Is(err, i18n.ErrTranslationType) {
			respondError(c, http.StatusNotFound, "Translation not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Translation failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path": req.Path,
		"text": text,
	})
}
