package service

import (
	"bytes"
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
)

// CaptionLimit is the longest caption Telegram accepts
const CaptionLimit = 1024

const ellipsis = "..."

// TelegramPublisher posts to a channel or chat through the Bot API
type TelegramPublisher struct {
	serverURL string
}

// NewTelegramPublisher creates a publisher for the Bot API at serverURL
func NewTelegramPublisher(serverURL string) *TelegramPublisher {
	return &TelegramPublisher{serverURL: serverURL}
}

func (p *TelegramPublisher) Platform() platform.Platform {
	return platform.PlatformTelegram
}

func (p *TelegramPublisher) Publish(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result {
	if creds.TelegramToken == "" || creds.TelegramChatID == "" {
		return domain.Failed("Отсутствуют учетные данные Telegram")
	}

	opts := []bot.Option{bot.WithSkipGetMe()}
	if p.serverURL != "" {
		opts = append(opts, bot.WithServerURL(p.serverURL))
	}

	b, err := bot.New(creds.TelegramToken, opts...)
	if err != nil {
		slog.Error("Failed to create telegram client", "error", err)
		return domain.Failed("Не удалось опубликовать в Telegram")
	}

	caption := TruncateCaption(post.Text)

	if post.Image != nil {
		params := &bot.SendPhotoParams{
			ChatID: creds.TelegramChatID,
			Photo: &models.InputFileUpload{
				Filename: post.Image.Filename,
				Data:     bytes.NewReader(post.Image.Data),
			},
			Caption: caption,
		}
		_, err = b.SendPhoto(ctx, params)
	} else {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: creds.TelegramChatID,
			Text:   caption,
		})
	}

	if err != nil {
		err = transportCause(err)
		slog.Error("Telegram publish error", "chat_id", creds.TelegramChatID, "error", err)
		return domain.Failed(err.Error())
	}

	return domain.Succeeded("Успешно отправлено в Telegram")
}

// TruncateCaption cuts text longer than CaptionLimit runes to CaptionLimit-3 runes plus "...".
func TruncateCaption(text string) string {
	if utf8.RuneCountInString(text) <= CaptionLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:CaptionLimit-len(ellipsis)]) + ellipsis
}
