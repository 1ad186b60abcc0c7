package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
)

type discordMessage struct {
	Content string `json:"content"`
}

// DiscordPublisher delivers through a webhook or, without one, through a bot token
type DiscordPublisher struct {
	client        *resty.Client
	apiURL        string
	webhookPrefix string
}

// NewDiscordPublisher creates a publisher. apiURL is the versioned REST root used in bot mode,
// webhookPrefix the only accepted beginning of a webhook URL.
func NewDiscordPublisher(apiURL, webhookPrefix string) *DiscordPublisher {
	return &DiscordPublisher{
		client:        resty.New(),
		apiURL:        strings.TrimRight(apiURL, "/"),
		webhookPrefix: webhookPrefix,
	}
}

func (p *DiscordPublisher) Platform() platform.Platform {
	return platform.PlatformDiscord
}

// Publish prefers webhook mode whenever a webhook URL is set. The channel id then addresses a thread.
func (p *DiscordPublisher) Publish(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result {
	switch {
	case creds.DiscordWebhookURL != "":
		return p.viaWebhook(ctx, creds, post)
	case creds.DiscordBotToken != "" && creds.DiscordChannelID != "":
		return p.viaBot(ctx, creds, post)
	default:
		return domain.Failed("Отсутствуют данные Discord (Webhook URL или Токен Бота)")
	}
}

func (p *DiscordPublisher) viaWebhook(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result {
	if !strings.HasPrefix(creds.DiscordWebhookURL, p.webhookPrefix) {
		return domain.Failed("Неверный формат URL вебхука Discord")
	}

	req := p.client.R().SetContext(ctx)
	if creds.DiscordChannelID != "" {
		req.SetQueryParam("thread_id", creds.DiscordChannelID)
	}

	resp, err := p.send(req, creds.DiscordWebhookURL, post)
	if err != nil {
		slog.Error("Discord webhook error", "error", transportCause(err))
		return domain.Failed("Не удалось отправить через Webhook")
	}
	if resp.IsError() {
		slog.Error("Discord webhook error", "status", resp.StatusCode())
		return domain.Failed(fmt.Sprintf("Ошибка Discord Webhook: %d", resp.StatusCode()))
	}

	return domain.Succeeded("Успешно опубликовано через Discord Webhook")
}

func (p *DiscordPublisher) viaBot(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result {
	endpoint := fmt.Sprintf("%s/channels/%s/messages", p.apiURL, creds.DiscordChannelID)
	req := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bot "+creds.DiscordBotToken)

	resp, err := p.send(req, endpoint, post)
	if err != nil || resp.IsError() {
		status := 0
		if resp != nil {
			status = resp.StatusCode()
		}
		if err != nil {
			err = transportCause(err)
		}
		slog.Error("Discord bot API error", "status", status, "channel_id", creds.DiscordChannelID, "error", err)
		return domain.Failed("Ошибка Discord Bot API (CORS или токен)")
	}

	return domain.Succeeded("Успешно опубликовано через Discord Bot")
}

// send posts a JSON body, or a multipart form with payload_json and the file when an image is attached.
func (p *DiscordPublisher) send(req *resty.Request, url string, post domain.Post) (*resty.Response, error) {
	if post.Image == nil {
		return req.
			SetHeader("Content-Type", "application/json").
			SetBody(discordMessage{Content: post.Text}).
			Post(url)
	}

	payload, err := json.Marshal(discordMessage{Content: post.Text})
	if err != nil {
		return nil, err
	}

	return req.
		SetMultipartFormData(map[string]string{"payload_json": string(payload)}).
		SetMultipartField("file", post.Image.Filename, post.Image.MIMEType, bytes.NewReader(post.Image.Data)).
		Post(url)
}
