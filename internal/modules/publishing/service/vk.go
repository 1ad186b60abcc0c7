package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-resty/resty/v2"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
)

const (
	vkImageUnsupported = "Загрузка фото в VK через API требует прокси. Используйте ссылку 'Поделиться'."
	vkGenericFailure   = "Ошибка API VK (CORS). Используйте кнопку 'Поделиться'."
)

type vkResponse struct {
	Response json.RawMessage `json:"response"`
	Error    *struct {
		ErrorCode int    `json:"error_code"`
		ErrorMsg  string `json:"error_msg"`
	} `json:"error"`
}

// VKPublisher posts text to a community or user wall via wall.post
type VKPublisher struct {
	client  *resty.Client
	version string
}

// NewVKPublisher creates a publisher for the VK method API at apiURL
func NewVKPublisher(apiURL, version string) *VKPublisher {
	return &VKPublisher{
		client:  resty.New().SetBaseURL(apiURL),
		version: version,
	}
}

func (p *VKPublisher) Platform() platform.Platform {
	return platform.PlatformVk
}

// Publish supports text only. Media upload needs a server-side proxy, so an attached image is
// declined up front with a pointer to the share link.
func (p *VKPublisher) Publish(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result {
	if creds.VKToken == "" || creds.VKOwnerID == "" {
		return domain.Failed("Отсутствуют учетные данные VK")
	}

	if post.Image != nil {
		return domain.Failed(vkImageUnsupported)
	}

	var body vkResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_token": creds.VKToken,
			"owner_id":     creds.VKOwnerID,
			"message":      post.Text,
			"v":            p.version,
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get("/wall.post")

	// Auth failures and cross-origin blocks look alike to the caller; both get the same actionable message.
	switch {
	case err != nil:
		slog.Error("VK publish error", "error", transportCause(err))
		return domain.Failed(vkGenericFailure)
	case resp.IsError():
		slog.Error("VK publish error", "status", resp.StatusCode())
		return domain.Failed(vkGenericFailure)
	case body.Error != nil:
		slog.Error("VK publish error", "code", body.Error.ErrorCode, "error", body.Error.ErrorMsg)
		return domain.Failed(vkGenericFailure)
	}

	return domain.Succeeded("Успешно опубликовано на стене VK")
}
