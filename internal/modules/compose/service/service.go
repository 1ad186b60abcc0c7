package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/contentguard/internal/modules/compose/domain"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	moderation "github.com/reshetovitsme/contentguard/internal/modules/moderation/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	publication "github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
	publishing "github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
	"github.com/reshetovitsme/contentguard/internal/shared/config"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	"github.com/samber/oops"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string, image *media.Image) (*moderation.AnalysisResult, error)
}

type Generator interface {
	Generate(ctx context.Context, topic string) (string, error)
}

type Dispatcher interface {
	Publish(ctx context.Context, p platform.Platform, creds credential.Credentials, post publishing.Post) publishing.Result
}

type CredentialSource interface {
	Current() credential.Credentials
}

type Journal interface {
	Record(p *publication.Publication) error
}

type Platforms interface {
	Default() platform.Descriptor
	Lookup(id platform.Platform) (platform.Descriptor, error)
	Parse(name string) (platform.Descriptor, error)
}

// Dependencies wires the orchestrator to the rest of the application
type Dependencies struct {
	Store       *SessionStore
	Analyzer    Analyzer
	Generator   Generator
	Dispatcher  Dispatcher
	Credentials CredentialSource
	Journal     Journal
	Platforms   Platforms
	Assistant   Assistant
	FixPolicy   config.FixPolicy
}

var (
	publishedNotice = map[platform.Platform]string{
		platform.PlatformTelegram: "Отправлено в канал Telegram",
		platform.PlatformVk:       "Опубликовано в VK",
		platform.PlatformDiscord:  "Опубликовано в Discord",
	}
	failedNotice = map[platform.Platform]string{
		platform.PlatformTelegram: "Ошибка API: ",
		platform.PlatformVk:       "Ошибка API VK: ",
		platform.PlatformDiscord:  "Ошибка Discord: ",
	}
)

const (
	textCopiedNotice = "Текст скопирован"
	imageSavedNotice = "Фото сохранено"
)

// Service drives compose sessions through edit, analysis and publishing
type Service struct {
	store       *SessionStore
	analyzer    Analyzer
	generator   Generator
	dispatcher  Dispatcher
	credentials CredentialSource
	journal     Journal
	platforms   Platforms
	assistant   Assistant
	fixPolicy   config.FixPolicy
	now         func() time.Time
}

// New creates the compose orchestrator
func New(deps Dependencies) *Service {
	policy := deps.FixPolicy
	if !policy.IsValid() {
		policy = config.FixPolicyTrust
	}

	return &Service{
		store:       deps.Store,
		analyzer:    deps.Analyzer,
		generator:   deps.Generator,
		dispatcher:  deps.Dispatcher,
		credentials: deps.Credentials,
		journal:     deps.Journal,
		platforms:   deps.Platforms,
		assistant:   deps.Assistant,
		fixPolicy:   policy,
		now:         time.Now,
	}
}

// Create opens an empty session on the default platform
func (s *Service) Create() domain.View {
	e := &entry{session: domain.Session{
		ID:        uuid.NewString(),
		Platform:  s.platforms.Default().ID,
		State:     domain.StateEmpty,
		UpdatedAt: s.now(),
	}}
	s.store.put(e)

	slog.Info("Compose session created", "session_id", e.session.ID)
	return s.view(&e.session)
}

func (s *Service) Get(id string) (domain.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return s.view(&e.session), nil
}

// SetText replaces the text. The analysis is discarded and an outstanding one is cancelled.
func (s *Service) SetText(id, text string) (domain.View, error) {
	return s.edit(id, func(sess *domain.Session) {
		sess.Text = text
	})
}

func (s *Service) SetImage(id string, image *media.Image) (domain.View, error) {
	return s.edit(id, func(sess *domain.Session) {
		sess.Image = image
	})
}

func (s *Service) RemoveImage(id string) (domain.View, error) {
	return s.edit(id, func(sess *domain.Session) {
		sess.Image = nil
	})
}

// SelectPlatform changes the publishing target. The analysis stays valid since the content is unchanged.
func (s *Service) SelectPlatform(id, name string) (domain.View, error) {
	desc, err := s.platforms.Parse(name)
	if err != nil {
		return domain.View{}, err
	}

	e, err := s.lookup(id)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Platform = desc.ID
	e.session.UpdatedAt = s.now()
	return s.view(&e.session), nil
}

// Generate writes a post about topic and puts it into the session as an edit
func (s *Service) Generate(ctx context.Context, id, topic string) (domain.View, error) {
	if _, err := s.lookup(id); err != nil {
		return domain.View{}, err
	}

	text, err := s.generator.Generate(ctx, topic)
	if err != nil {
		return domain.View{}, err
	}
	return s.SetText(id, text)
}

// Analyze runs moderation on the current content. If the content is edited before the
// call returns, the result is dropped and ErrSuperseded is returned.
func (s *Service) Analyze(ctx context.Context, id string) (domain.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	if e.session.Analyzing() || e.session.Publishing {
		e.mu.Unlock()
		return domain.View{}, oops.With("session_id", id).Wrap(errors.ErrBusy)
	}
	if !e.session.HasContent() {
		e.mu.Unlock()
		return domain.View{}, oops.With("session_id", id).Wrap(errors.ErrEmptyContent)
	}

	actx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.session.Analysis = nil
	e.session.State = domain.StateAnalyzing
	revision := e.session.Revision
	text, image := e.session.Text, e.session.Image
	e.mu.Unlock()

	result, err := s.analyzer.Analyze(actx, text, image)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Revision != revision {
		slog.Info("Discarding stale analysis", "session_id", id, "revision", revision, "current_revision", e.session.Revision)
		return domain.View{}, oops.With("session_id", id).Wrap(errors.ErrSuperseded)
	}

	e.cancel = nil
	e.session.UpdatedAt = s.now()
	if err != nil {
		e.session.State = domain.StateEdited
		return domain.View{}, err
	}

	e.session.Analysis = result
	if result.IsSafe {
		e.session.State = domain.StateAnalyzedSafe
	} else {
		e.session.State = domain.StateAnalyzedUnsafe
	}

	slog.Info("Session analysis stored", "session_id", id, "is_safe", result.IsSafe, "risk", result.OverallRisk, "issues", len(result.Issues))
	return s.view(&e.session), nil
}

// ApplyFix replaces the text with the suggested rewrite. Under the trust policy the rewrite is
// accepted as safe without another moderation call; under reverify it is analyzed again.
func (s *Service) ApplyFix(ctx context.Context, id string) (domain.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	if e.session.Analyzing() || e.session.Publishing {
		e.mu.Unlock()
		return domain.View{}, oops.With("session_id", id).Wrap(errors.ErrBusy)
	}
	if e.session.Analysis == nil {
		e.mu.Unlock()
		return domain.View{}, oops.With("session_id", id).Wrap(errors.ErrNoAnalysis)
	}

	analysis := e.session.Analysis.Clone()
	revised := analysis.RevisedText
	if strings.TrimSpace(revised) == "" {
		revised = e.session.Text
	}

	e.stopAnalysis()
	e.session.Text = revised
	e.session.Invalidate(s.now())

	if s.fixPolicy == config.FixPolicyReverify {
		e.mu.Unlock()
		slog.Info("Re-verifying revised text", "session_id", id)
		return s.Analyze(ctx, id)
	}
	defer e.mu.Unlock()

	fixed := analysis.MarkFixed()
	e.session.Analysis = &fixed
	e.session.State = domain.StateAnalyzedSafe

	slog.Info("Suggested rewrite accepted", "session_id", id, "policy", s.fixPolicy)
	return s.view(&e.session), nil
}

// CanPublish reports whether Publish would reach the platform right now
func (s *Service) CanPublish(id string) (bool, error) {
	e, err := s.lookup(id)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return canPublish(&e.session, s.credentials.Current()), nil
}

// Publish delivers the content to the selected platform. When delivery fails the
// manual-share fallback runs: copy text, save image, then open the share page.
func (s *Service) Publish(ctx context.Context, id string) (*domain.Outcome, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	creds := s.credentials.Current()
	if !canPublish(&e.session, creds) {
		e.mu.Unlock()
		return nil, oops.
			With("session_id", id, "platform", e.session.Platform, "state", e.session.State).
			Wrap(errors.ErrPublishNotAllowed)
	}

	desc, err := s.platforms.Lookup(e.session.Platform)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.session.Publishing = true
	e.session.State = domain.StatePublishing
	revision := e.session.Revision
	text, image := e.session.Text, e.session.Image
	e.mu.Unlock()

	result := s.dispatcher.Publish(ctx, desc.ID, creds, publishing.Post{Text: text, Image: image})

	outcome := &domain.Outcome{Platform: desc.ID, Result: result}
	var actions []string
	if result.Success {
		actions = append(actions, publishedNotice[desc.ID])
	} else {
		actions = append(actions, failedNotice[desc.ID]+result.Message)
		report, steps := s.fallback(ctx, desc, text, image)
		outcome.Fallback = report
		actions = append(actions, steps...)
	}
	outcome.Notification = strings.Join(actions, " & ")
	outcome.FinishedAt = s.now()

	s.journalOutcome(id, text, image, outcome)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Publishing = false
	e.session.Outcome = outcome
	e.session.UpdatedAt = outcome.FinishedAt
	if e.session.Revision == revision {
		if result.Success {
			e.session.State = domain.StatePublished
		} else {
			e.session.State = domain.StateFallback
		}
	}

	return outcome, nil
}

// Close stops session expiry
func (s *Service) Close() {
	s.store.Close()
}

// fallback runs the manual-share steps one after another; the share page opens only after
// the copy and save steps have finished.
func (s *Service) fallback(ctx context.Context, desc platform.Descriptor, text string, image *media.Image) (*domain.FallbackReport, []string) {
	report := &domain.FallbackReport{}
	var actions []string

	if text != "" {
		if err := s.assistant.CopyText(ctx, text); err != nil {
			slog.Warn("Clipboard copy failed", "platform", desc.ID, "error", err)
			report.CopyError = err.Error()
		} else {
			report.Copied = true
			actions = append(actions, textCopiedNotice)
		}
	}

	if image != nil {
		path, err := s.assistant.SaveImage(ctx, image)
		if err != nil {
			slog.Warn("Saving image failed", "platform", desc.ID, "error", err)
			report.ImageError = err.Error()
		} else {
			report.ImagePath = path
			actions = append(actions, imageSavedNotice)
		}
	}

	report.URL = desc.FallbackURL(text)
	if report.URL != "" {
		opened, err := s.assistant.OpenURL(ctx, report.URL)
		if err != nil {
			slog.Warn("Opening share page failed", "platform", desc.ID, "url", report.URL, "error", err)
			report.OpenError = err.Error()
		}
		report.Opened = opened
	}

	return report, actions
}

func (s *Service) journalOutcome(sessionID, text string, image *media.Image, outcome *domain.Outcome) {
	record := &publication.Publication{
		SessionID: sessionID,
		Platform:  outcome.Platform,
		Success:   outcome.Result.Success,
		Message:   outcome.Result.Message,
		Text:      text,
		HasImage:  image != nil,
		Fallback:  outcome.Fallback != nil,
		CreatedAt: outcome.FinishedAt,
	}
	if outcome.Fallback != nil {
		record.FallbackURL = outcome.Fallback.URL
	}

	if err := s.journal.Record(record); err != nil {
		slog.Error("Failed to journal publication", "session_id", sessionID, "platform", outcome.Platform, "error", err)
	}
}

func (s *Service) edit(id string, apply func(sess *domain.Session)) (domain.View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.View{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	apply(&e.session)
	e.stopAnalysis()
	e.session.Invalidate(s.now())
	return s.view(&e.session), nil
}

func (s *Service) lookup(id string) (*entry, error) {
	e, ok := s.store.get(id)
	if !ok {
		return nil, oops.With("session_id", id).Wrap(errors.ErrSessionNotFound)
	}
	return e, nil
}

func (s *Service) view(sess *domain.Session) domain.View {
	creds := s.credentials.Current()
	v := domain.View{
		ID:             sess.ID,
		Text:           sess.Text,
		Platform:       sess.Platform,
		State:          sess.State,
		Analyzing:      sess.Analyzing(),
		Publishing:     sess.Publishing,
		HasCredentials: creds.HasFor(sess.Platform),
		CanPublish:     canPublish(sess, creds),
		LastOutcome:    sess.Outcome,
		Revision:       sess.Revision,
		UpdatedAt:      sess.UpdatedAt,
	}
	if sess.Image != nil {
		v.Image = &domain.ImageInfo{
			Filename: sess.Image.Filename,
			MIMEType: sess.Image.MIMEType,
			Size:     sess.Image.Size(),
		}
	}
	if sess.Analysis != nil {
		analysis := sess.Analysis.Clone()
		v.Analysis = &analysis
	}
	return v
}

func canPublish(sess *domain.Session, creds credential.Credentials) bool {
	return sess.Analysis != nil &&
		sess.Analysis.IsSafe &&
		creds.HasFor(sess.Platform) &&
		!sess.Publishing &&
		!sess.Analyzing()
}
