package domain

import (
	"strings"
	"time"

	moderation "github.com/reshetovitsme/contentguard/internal/modules/moderation/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	publishing "github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
)

// Session is one compose-analyze-publish workflow
type Session struct {
	ID         string
	Text       string
	Image      *media.Image
	Platform   platform.Platform
	Analysis   *moderation.AnalysisResult
	State      State
	Revision   uint64
	Publishing bool
	Outcome    *Outcome
	UpdatedAt  time.Time
}

// HasContent reports whether there is anything to analyze
func (s *Session) HasContent() bool {
	return strings.TrimSpace(s.Text) != "" || s.Image != nil
}

// Analyzing reports whether a moderation call is outstanding
func (s *Session) Analyzing() bool {
	return s.State == StateAnalyzing
}

// Invalidate records a content change: the analysis no longer applies and any outstanding
// result for the old content is superseded.
func (s *Session) Invalidate(now time.Time) {
	s.Revision++
	s.Analysis = nil
	s.UpdatedAt = now
	if s.HasContent() {
		s.State = StateEdited
	} else {
		s.State = StateEmpty
	}
}

// ImageInfo describes the attached image without its bytes
type ImageInfo struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Size     int    `json:"size"`
}

// View is a read-only snapshot of a session
type View struct {
	ID             string                     `json:"id"`
	Text           string                     `json:"text"`
	Image          *ImageInfo                 `json:"image,omitempty"`
	Platform       platform.Platform          `json:"platform"`
	State          State                      `json:"state"`
	Analysis       *moderation.AnalysisResult `json:"analysis,omitempty"`
	Analyzing      bool                       `json:"isAnalyzing"`
	Publishing     bool                       `json:"isPublishing"`
	HasCredentials bool                       `json:"hasCredentials"`
	CanPublish     bool                       `json:"canPublish"`
	LastOutcome    *Outcome                   `json:"lastOutcome,omitempty"`
	Revision       uint64                     `json:"revision"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
}

// FallbackReport lists what the manual-share fallback did
type FallbackReport struct {
	Copied     bool   `json:"copied"`
	CopyError  string `json:"copyError,omitempty"`
	ImagePath  string `json:"imagePath,omitempty"`
	ImageError string `json:"imageError,omitempty"`
	URL        string `json:"url,omitempty"`
	Opened     bool   `json:"opened"`
	OpenError  string `json:"openError,omitempty"`
}

// Outcome is the result of a publish action
type Outcome struct {
	Platform     platform.Platform `json:"platform"`
	Result       publishing.Result `json:"result"`
	Fallback     *FallbackReport   `json:"fallback,omitempty"`
	Notification string            `json:"notification"`
	FinishedAt   time.Time         `json:"finishedAt"`
}
