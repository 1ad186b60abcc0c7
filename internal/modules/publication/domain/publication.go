package domain

import (
	"time"

	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
)

// Publication is one journaled publish attempt
type Publication struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	Platform    platform.Platform `json:"platform"`
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Text        string            `json:"text"`
	HasImage    bool              `json:"has_image"`
	Fallback    bool              `json:"fallback"`
	FallbackURL string            `json:"fallback_url,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
