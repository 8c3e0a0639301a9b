package models

// Session is the request-scoped view of an authenticated user,
// reconstructed from JWT claims by the session middleware
type Session struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        Role   `json:"role"`
	ExpiresAt   int64  `json:"expires_at"`
	IssuedAt    int64  `json:"issued_at"`
}

// LoginResponse is returned by the login endpoint
type LoginResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

// SetLanguageRequest selects the active presentation language
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=ar en"`
}

// TranslateRequest resolves a single dictionary path with optional placeholder values
type TranslateRequest struct {
	Path         string            `json:"path" binding:"required"`
	Replacements map[string]string `json:"replacements,omitempty"`
}

// ShowToastRequest publishes a transient notification
type ShowToastRequest struct {
	Message  string `json:"message" binding:"required,max=500"`
	Severity string `json:"severity" binding:"required,oneof=success error warning info"`
}

// UploadAvatarRequest carries a base64-encoded avatar image
type UploadAvatarRequest struct {
	ImageData   string `json:"image_data" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}
