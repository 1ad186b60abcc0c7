package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reshetovitsme/contentguard/internal/modules/compose/domain"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	moderation "github.com/reshetovitsme/contentguard/internal/modules/moderation/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	platformservice "github.com/reshetovitsme/contentguard/internal/modules/platform/service"
	publication "github.com/reshetovitsme/contentguard/internal/modules/publication/domain"
	publishing "github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
	publishingservice "github.com/reshetovitsme/contentguard/internal/modules/publishing/service"
	"github.com/reshetovitsme/contentguard/internal/shared/config"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	results []*moderation.AnalysisResult
	err     error
	texts   []string
	started chan struct{}
	release chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string, image *media.Image) (*moderation.AnalysisResult, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	call := len(f.texts)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := f.results[len(f.results)-1]
	if call <= len(f.results) {
		result = f.results[call-1]
	}
	clone := result.Clone()
	return &clone, nil
}

func (f *fakeAnalyzer) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, topic string) (string, error) {
	return f.text, f.err
}

type fakeDispatcher struct {
	mu      sync.Mutex
	result  publishing.Result
	posts   []publishing.Post
	started chan struct{}
	release chan struct{}
}

func (f *fakeDispatcher) Publish(ctx context.Context, p platform.Platform, creds credential.Credentials, post publishing.Post) publishing.Result {
	f.mu.Lock()
	f.posts = append(f.posts, post)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return f.result
}

func (f *fakeDispatcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

type staticCredentials struct {
	creds credential.Credentials
}

func (s staticCredentials) Current() credential.Credentials {
	return s.creds
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*publication.Publication
}

func (f *fakeJournal) Record(p *publication.Publication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, p)
	return nil
}

type fakeAssistant struct {
	mu      sync.Mutex
	steps   []string
	copyErr error
	opened  []string
}

func (f *fakeAssistant) CopyText(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, "copy")
	return f.copyErr
}

func (f *fakeAssistant) SaveImage(ctx context.Context, image *media.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, "save")
	return "/tmp/contentguard_safe_1.png", nil
}

func (f *fakeAssistant) OpenURL(ctx context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, "open")
	f.opened = append(f.opened, url)
	return true, nil
}

type harness struct {
	svc        *Service
	analyzer   *fakeAnalyzer
	dispatcher *fakeDispatcher
	journal    *fakeJournal
	assistant  *fakeAssistant
}

var (
	safeResult = &moderation.AnalysisResult{
		IsSafe:      true,
		OverallRisk: moderation.RiskLevelSAFE,
		Issues:      []moderation.Issue{},
		RevisedText: "Привет",
	}
	unsafeResult = &moderation.AnalysisResult{
		IsSafe:      false,
		OverallRisk: moderation.RiskLevelCRITICAL,
		Issues: []moderation.Issue{{
			Category: "Banned Org",
			Snippet:  "Instagram",
			Severity: moderation.RiskLevelCRITICAL,
		}},
		RevisedText: "Instagram (деятельность запрещена в РФ)",
	}
	telegramCreds = credential.Credentials{TelegramToken: "123:abc", TelegramChatID: "@channel"}
)

func newHarness(t *testing.T, creds credential.Credentials, policy config.FixPolicy, results ...*moderation.AnalysisResult) *harness {
	t.Helper()

	if len(results) == 0 {
		results = []*moderation.AnalysisResult{safeResult}
	}
	h := &harness{
		analyzer:   &fakeAnalyzer{results: results},
		dispatcher: &fakeDispatcher{result: publishing.Succeeded("ok")},
		journal:    &fakeJournal{},
		assistant:  &fakeAssistant{},
	}
	h.svc = New(Dependencies{
		Store:       NewSessionStore(time.Hour),
		Analyzer:    h.analyzer,
		Generator:   &fakeGenerator{text: "Сгенерированный пост"},
		Dispatcher:  h.dispatcher,
		Credentials: staticCredentials{creds: creds},
		Journal:     h.journal,
		Platforms:   platformservice.New(),
		Assistant:   h.assistant,
		FixPolicy:   policy,
	})
	t.Cleanup(h.svc.Close)
	return h
}

func (h *harness) analyzed(t *testing.T, text string) domain.View {
	t.Helper()

	v := h.svc.Create()
	_, err := h.svc.SetText(v.ID, text)
	require.NoError(t, err)
	v, err = h.svc.Analyze(context.Background(), v.ID)
	require.NoError(t, err)
	return v
}

func TestCreate_StartsEmptyOnDefaultPlatform(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)

	v := h.svc.Create()
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, domain.StateEmpty, v.State)
	assert.Equal(t, platform.PlatformTelegram, v.Platform)
	assert.Nil(t, v.Analysis)
	assert.False(t, v.CanPublish)

	got, err := h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestGet_UnknownSession(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)

	_, err := h.svc.Get("missing")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	_, err = h.svc.SetText("missing", "x")
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestAnalyze_EmptyContent(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)
	v := h.svc.Create()

	_, err := h.svc.Analyze(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrEmptyContent)

	_, err = h.svc.SetText(v.ID, "   ")
	require.NoError(t, err)
	_, err = h.svc.Analyze(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrEmptyContent)
	assert.Empty(t, h.analyzer.calls())
}

func TestAnalyze_ImageOnlyCountsAsContent(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)
	v := h.svc.Create()

	v, err := h.svc.SetImage(v.ID, media.NewImage("a.png", "image/png", []byte("\x89PNG\r\n\x1a\n")))
	require.NoError(t, err)
	assert.Equal(t, domain.StateEdited, v.State)
	require.NotNil(t, v.Image)
	assert.Equal(t, "a.png", v.Image.Filename)

	v, err = h.svc.Analyze(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAnalyzedSafe, v.State)
}

func TestAnalyze_Verdicts(t *testing.T) {
	safe := newHarness(t, telegramCreds, config.FixPolicyTrust, safeResult)
	v := safe.analyzed(t, "Привет")
	assert.Equal(t, domain.StateAnalyzedSafe, v.State)
	require.NotNil(t, v.Analysis)
	assert.True(t, v.Analysis.IsSafe)
	assert.True(t, v.CanPublish)

	unsafe := newHarness(t, telegramCreds, config.FixPolicyTrust, unsafeResult)
	v = unsafe.analyzed(t, "Instagram")
	assert.Equal(t, domain.StateAnalyzedUnsafe, v.State)
	require.NotNil(t, v.Analysis)
	assert.Len(t, v.Analysis.Issues, 1)
	assert.False(t, v.CanPublish)
}

func TestAnalyze_FailureLeavesNoResult(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	h.analyzer.err = errors.Analysis(errors.Transport(fmt.Errorf("connection refused")))

	v := h.svc.Create()
	_, err := h.svc.SetText(v.ID, "Привет")
	require.NoError(t, err)

	_, err = h.svc.Analyze(context.Background(), v.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAnalysis)
	assert.ErrorIs(t, err, errors.ErrTransport)

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEdited, v.State)
	assert.Nil(t, v.Analysis)
	assert.False(t, v.Analyzing)
}

func TestEdits_ClearAnalysis(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	image := media.NewImage("a.png", "image/png", []byte("img"))

	edits := map[string]func(id string) (domain.View, error){
		"text": func(id string) (domain.View, error) {
			return h.svc.SetText(id, "Другой текст")
		},
		"image": func(id string) (domain.View, error) {
			return h.svc.SetImage(id, image)
		},
		"remove image": func(id string) (domain.View, error) {
			return h.svc.RemoveImage(id)
		},
		"generate": func(id string) (domain.View, error) {
			return h.svc.Generate(context.Background(), id, "кофе")
		},
	}

	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			v := h.analyzed(t, "Привет")
			require.NotNil(t, v.Analysis)

			edited, err := edit(v.ID)
			require.NoError(t, err)
			assert.Nil(t, edited.Analysis)
			assert.Equal(t, domain.StateEdited, edited.State)
			assert.False(t, edited.CanPublish)
			assert.Greater(t, edited.Revision, v.Revision)
		})
	}
}

func TestEdits_ClearingEverythingReturnsToEmpty(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)
	v := h.svc.Create()

	_, err := h.svc.SetImage(v.ID, media.NewImage("a.png", "image/png", []byte("img")))
	require.NoError(t, err)
	v, err = h.svc.RemoveImage(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEmpty, v.State)
}

func TestGenerate_SetsText(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)
	v := h.svc.Create()

	v, err := h.svc.Generate(context.Background(), v.ID, "кофе")
	require.NoError(t, err)
	assert.Equal(t, "Сгенерированный пост", v.Text)
	assert.Equal(t, domain.StateEdited, v.State)
}

func TestGenerate_FailureKeepsText(t *testing.T) {
	h := newHarness(t, credential.Credentials{}, config.FixPolicyTrust)
	h.svc.generator = &fakeGenerator{err: errors.Generation(errors.API(fmt.Errorf("quota exceeded")))}
	v := h.svc.Create()
	_, err := h.svc.SetText(v.ID, "Черновик")
	require.NoError(t, err)

	_, err = h.svc.Generate(context.Background(), v.ID, "кофе")
	assert.ErrorIs(t, err, errors.ErrGeneration)

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Черновик", v.Text)
}

func TestSelectPlatform(t *testing.T) {
	h := newHarness(t, credential.Credentials{VKToken: "t", VKOwnerID: "-1"}, config.FixPolicyTrust)
	v := h.analyzed(t, "Привет")
	assert.False(t, v.HasCredentials)

	v, err := h.svc.SelectPlatform(v.ID, "VK")
	require.NoError(t, err)
	assert.Equal(t, platform.PlatformVk, v.Platform)
	assert.True(t, v.HasCredentials)
	assert.NotNil(t, v.Analysis)
	assert.True(t, v.CanPublish)

	_, err = h.svc.SelectPlatform(v.ID, "myspace")
	assert.ErrorIs(t, err, errors.ErrUnknownPlatform)
}

func TestAnalyze_SupersededByEdit(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	h.analyzer.started = make(chan struct{}, 1)
	h.analyzer.release = make(chan struct{})

	v := h.svc.Create()
	_, err := h.svc.SetText(v.ID, "Старый текст")
	require.NoError(t, err)

	errs := make(chan error, 1)
	go func() {
		_, err := h.svc.Analyze(context.Background(), v.ID)
		errs <- err
	}()
	<-h.analyzer.started

	busy, err := h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.True(t, busy.Analyzing)
	assert.Equal(t, domain.StateAnalyzing, busy.State)

	_, err = h.svc.SetText(v.ID, "Новый текст")
	require.NoError(t, err)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, errors.ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded analysis was not cancelled")
	}

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", v.Text)
	assert.Equal(t, domain.StateEdited, v.State)
	assert.Nil(t, v.Analysis)
	assert.False(t, v.Analyzing)
}

func TestAnalyze_BusyGuard(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	h.analyzer.started = make(chan struct{}, 1)
	h.analyzer.release = make(chan struct{})

	v := h.svc.Create()
	_, err := h.svc.SetText(v.ID, "Привет")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Analyze(context.Background(), v.ID)
		done <- err
	}()
	<-h.analyzer.started

	_, err = h.svc.Analyze(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrBusy)

	close(h.analyzer.release)
	require.NoError(t, <-done)
	assert.Len(t, h.analyzer.calls(), 1)
}

func TestApplyFix_TrustPolicy(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust, unsafeResult)
	v := h.analyzed(t, "Заходите в Instagram")
	require.False(t, v.Analysis.IsSafe)

	v, err := h.svc.ApplyFix(context.Background(), v.ID)
	require.NoError(t, err)

	assert.Equal(t, unsafeResult.RevisedText, v.Text)
	assert.Equal(t, domain.StateAnalyzedSafe, v.State)
	require.NotNil(t, v.Analysis)
	assert.True(t, v.Analysis.IsSafe)
	assert.Equal(t, moderation.RiskLevelSAFE, v.Analysis.OverallRisk)
	assert.Empty(t, v.Analysis.Issues)
	assert.NotNil(t, v.Analysis.Issues)
	assert.True(t, v.CanPublish)
	assert.Len(t, h.analyzer.calls(), 1)
}

func TestApplyFix_ReverifyPolicy(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyReverify, unsafeResult, safeResult)
	v := h.analyzed(t, "Заходите в Instagram")

	v, err := h.svc.ApplyFix(context.Background(), v.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Заходите в Instagram", unsafeResult.RevisedText}, h.analyzer.calls())
	assert.Equal(t, domain.StateAnalyzedSafe, v.State)
	assert.True(t, v.Analysis.IsSafe)
}

func TestApplyFix_ReverifyCanStayUnsafe(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyReverify, unsafeResult)
	v := h.analyzed(t, "Заходите в Instagram")

	v, err := h.svc.ApplyFix(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAnalyzedUnsafe, v.State)
	assert.False(t, v.CanPublish)
}

func TestApplyFix_RequiresAnalysis(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	v := h.svc.Create()

	_, err := h.svc.ApplyFix(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrNoAnalysis)
}

func TestPublish_OnlyWhenSafeWithCredentialsAndIdle(t *testing.T) {
	for _, hasCreds := range []bool{true, false} {
		for _, safe := range []bool{true, false} {
			for _, busy := range []bool{true, false} {
				name := fmt.Sprintf("creds=%t/safe=%t/publishing=%t", hasCreds, safe, busy)
				t.Run(name, func(t *testing.T) {
					creds := credential.Credentials{}
					if hasCreds {
						creds = telegramCreds
					}
					result := unsafeResult
					if safe {
						result = safeResult
					}
					h := newHarness(t, creds, config.FixPolicyTrust, result)
					v := h.analyzed(t, "Привет")

					if busy {
						e, ok := h.svc.store.get(v.ID)
						require.True(t, ok)
						e.mu.Lock()
						e.session.Publishing = true
						e.mu.Unlock()
					}

					allowed := hasCreds && safe && !busy
					can, err := h.svc.CanPublish(v.ID)
					require.NoError(t, err)
					assert.Equal(t, allowed, can)

					outcome, err := h.svc.Publish(context.Background(), v.ID)
					if allowed {
						require.NoError(t, err)
						assert.True(t, outcome.Result.Success)
						assert.Equal(t, 1, h.dispatcher.calls())
					} else {
						assert.ErrorIs(t, err, errors.ErrPublishNotAllowed)
						assert.Nil(t, outcome)
						assert.Zero(t, h.dispatcher.calls())
						assert.Empty(t, h.journal.records)
					}
				})
			}
		}
	}
}

func TestPublish_ConcurrentAttemptIsRejected(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	h.dispatcher.started = make(chan struct{}, 1)
	h.dispatcher.release = make(chan struct{})
	v := h.analyzed(t, "Привет")

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Publish(context.Background(), v.ID)
		done <- err
	}()
	<-h.dispatcher.started

	busy, err := h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.True(t, busy.Publishing)
	assert.Equal(t, domain.StatePublishing, busy.State)

	_, err = h.svc.Publish(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrPublishNotAllowed)

	_, err = h.svc.Analyze(context.Background(), v.ID)
	assert.ErrorIs(t, err, errors.ErrBusy)

	close(h.dispatcher.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, h.dispatcher.calls())
}

func TestPublish_Success(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	v := h.analyzed(t, "Привет")

	outcome, err := h.svc.Publish(context.Background(), v.ID)
	require.NoError(t, err)

	assert.True(t, outcome.Result.Success)
	assert.Nil(t, outcome.Fallback)
	assert.Equal(t, "Отправлено в канал Telegram", outcome.Notification)
	assert.Empty(t, h.assistant.steps)

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePublished, v.State)
	assert.False(t, v.Publishing)
	require.NotNil(t, v.LastOutcome)

	require.Len(t, h.journal.records, 1)
	record := h.journal.records[0]
	assert.Equal(t, v.ID, record.SessionID)
	assert.Equal(t, platform.PlatformTelegram, record.Platform)
	assert.True(t, record.Success)
	assert.False(t, record.Fallback)
}

func TestPublish_VKImageRunsFallback(t *testing.T) {
	h := newHarness(t, credential.Credentials{VKToken: "t", VKOwnerID: "-1"}, config.FixPolicyTrust)
	h.svc.dispatcher = publishingservice.NewDispatcher(publishingservice.NewVKPublisher("http://127.0.0.1:1", "5.131"))

	v := h.svc.Create()
	_, err := h.svc.SelectPlatform(v.ID, "vk")
	require.NoError(t, err)
	_, err = h.svc.SetText(v.ID, "Привет")
	require.NoError(t, err)
	_, err = h.svc.SetImage(v.ID, media.NewImage("a.png", "image/png", []byte("img")))
	require.NoError(t, err)
	_, err = h.svc.Analyze(context.Background(), v.ID)
	require.NoError(t, err)

	outcome, err := h.svc.Publish(context.Background(), v.ID)
	require.NoError(t, err)

	assert.False(t, outcome.Result.Success)
	require.NotNil(t, outcome.Fallback)
	assert.True(t, outcome.Fallback.Copied)
	assert.Equal(t, "/tmp/contentguard_safe_1.png", outcome.Fallback.ImagePath)
	assert.True(t, strings.HasPrefix(outcome.Fallback.URL, "https://vk.com/share.php?"))
	assert.True(t, outcome.Fallback.Opened)
	assert.Equal(t, []string{"copy", "save", "open"}, h.assistant.steps)

	assert.True(t, strings.HasPrefix(outcome.Notification, "Ошибка API VK: "))
	assert.True(t, strings.HasSuffix(outcome.Notification, " & Текст скопирован & Фото сохранено"))

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFallback, v.State)

	require.Len(t, h.journal.records, 1)
	assert.True(t, h.journal.records[0].Fallback)
	assert.True(t, h.journal.records[0].HasImage)
	assert.Equal(t, outcome.Fallback.URL, h.journal.records[0].FallbackURL)
}

func TestPublish_ClipboardFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, credential.Credentials{DiscordWebhookURL: "https://discord.com/api/webhooks/1/x"}, config.FixPolicyTrust)
	h.dispatcher.result = publishing.Failed("HTTP 500")
	h.assistant.copyErr = oops.Errorf("no clipboard")

	v := h.svc.Create()
	_, err := h.svc.SelectPlatform(v.ID, "discord")
	require.NoError(t, err)
	_, err = h.svc.SetText(v.ID, "Привет")
	require.NoError(t, err)
	_, err = h.svc.Analyze(context.Background(), v.ID)
	require.NoError(t, err)

	outcome, err := h.svc.Publish(context.Background(), v.ID)
	require.NoError(t, err)

	assert.False(t, outcome.Fallback.Copied)
	assert.Contains(t, outcome.Fallback.CopyError, "no clipboard")
	assert.Equal(t, "https://discord.com/app", outcome.Fallback.URL)
	assert.Equal(t, []string{"copy", "open"}, h.assistant.steps)
	assert.Equal(t, "Ошибка Discord: HTTP 500", outcome.Notification)
}

func TestPublish_AgainAfterPublished(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	v := h.analyzed(t, "Привет")

	_, err := h.svc.Publish(context.Background(), v.ID)
	require.NoError(t, err)
	_, err = h.svc.Publish(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, h.dispatcher.calls())
}

func TestPublish_EditDuringPublishKeepsEdit(t *testing.T) {
	h := newHarness(t, telegramCreds, config.FixPolicyTrust)
	h.dispatcher.started = make(chan struct{}, 1)
	h.dispatcher.release = make(chan struct{})
	v := h.analyzed(t, "Привет")

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Publish(context.Background(), v.ID)
		done <- err
	}()
	<-h.dispatcher.started

	_, err := h.svc.SetText(v.ID, "Правка")
	require.NoError(t, err)

	close(h.dispatcher.release)
	require.NoError(t, <-done)

	v, err = h.svc.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateEdited, v.State)
	assert.False(t, v.Publishing)
	assert.Nil(t, v.Analysis)
	assert.NotNil(t, v.LastOutcome)
}

func TestSessionStore_Expires(t *testing.T) {
	store := NewSessionStore(50 * time.Millisecond)
	t.Cleanup(store.Close)

	cancelled := make(chan struct{})
	store.put(&entry{
		session: domain.Session{ID: "s1"},
		cancel:  func() { close(cancelled) },
	})
	assert.Equal(t, 1, store.Count())

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("expired session did not cancel its analysis")
	}
	assert.Eventually(t, func() bool {
		_, ok := store.get("s1")
		return !ok
	}, 5*time.Second, 10*time.Millisecond)
}
