package models

import (
	"fmt"
	"sort"
	"strings"
)

// UpdateType categorizes an entry in the updates feed
type UpdateType string

const (
	UpdateTypeFeature     UpdateType = "feature"
	UpdateTypeFix         UpdateType = "fix"
	UpdateTypeImprovement UpdateType = "improvement"
)

// ValidUpdateType reports whether t is a recognized update type
func ValidUpdateType(t UpdateType) bool {
	switch t {
	case UpdateTypeFeature, UpdateTypeFix, UpdateTypeImprovement:
		return true
	}
	return false
}

// Update is a single entry in the public updates feed
type Update struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"` // ISO 8601 date
	Type        UpdateType `json:"type"`
}

// CreateUpdateRequest is the admin payload for publishing a feed entry
type CreateUpdateRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=2000"`
	Date        string `json:"date" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=feature fix improvement"`
}

// DecodeUpdate parses a raw store record into a typed Update.
// Unknown types are rejected rather than silently coerced.
func DecodeUpdate(record map[string]any) (*Update, error) {
	if record == nil {
		return nil, fmt.Errorf("nil record: %w", ErrMalformedRecord)
	}

	id := stringField(record, "id")
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing record id: %w", ErrMalformedRecord)
	}

	typ := UpdateType(stringField(record, "type"))
	if !ValidUpdateType(typ) {
		return nil, fmt.Errorf("unknown update type %q: %w", typ, ErrMalformedRecord)
	}

	return &Update{
		ID:          id,
		Title:       stringField(record, "title"),
		Description: stringField(record, "description"),
		Date:        stringField(record, "date"),
		Type:        typ,
	}, nil
}

// SortUpdatesNewestFirst orders the feed by date descending.
// ISO 8601 dates sort correctly as strings.
func SortUpdatesNewestFirst(updates []*Update) {
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Date > updates[j].Date
	})
}
