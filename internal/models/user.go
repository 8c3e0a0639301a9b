package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the access level assigned to a user record
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ValidRole reports whether r is one of the recognized roles
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ErrMalformedRecord indicates a store record that cannot be decoded into a User
var ErrMalformedRecord = errors.New("malformed user record")

// User is the authenticated identity cached after login
type User struct {
	ID          string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	IsActive    bool   `json:"isActive"`
	Role        Role   `json:"role"`
}

// Credentials is a transient login request payload, never persisted
type Credentials struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// stringField reads an optional string field from a raw record
func stringField(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

// DecodeUser parses a raw store record into a typed User.
// This is the validation boundary between the schema-less document store
// and the rest of the application: records missing an id are rejected,
// missing displayName defaults to empty, missing role defaults to student.
func DecodeUser(record map[string]any) (*User, error) {
	if record == nil {
		return nil, fmt.Errorf("nil record: %w", ErrMalformedRecord)
	}

	id := stringField(record, "id")
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing record id: %w", ErrMalformedRecord)
	}

	role := Role(stringField(record, "role"))
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrMalformedRecord)
	}

	isActive, _ := record["isActive"].(bool)

	return &User{
		ID:          id,
		DisplayName: stringField(record, "displayName"),
		Email:       stringField(record, "email"),
		PhoneNumber: stringField(record, "phoneNumber"),
		PhotoURL:    stringField(record, "photoURL"),
		IsActive:    isActive,
		Role:        role,
	}, nil
}

// StoredPassword returns the trimmed password field of a raw user record
func StoredPassword(record map[string]any) string {
	return strings.TrimSpace(stringField(record, "password"))
}
