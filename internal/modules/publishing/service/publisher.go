package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	platform "github.com/reshetovitsme/contentguard/internal/modules/platform/domain"
	"github.com/reshetovitsme/contentguard/internal/modules/publishing/domain"
	"github.com/samber/lo"
)

// Publisher delivers a post to one platform through its API.
// Publish never returns an error: missing credentials and platform rejections come back as a failed Result.
type Publisher interface {
	Platform() platform.Platform
	Publish(ctx context.Context, creds credential.Credentials, post domain.Post) domain.Result
}

// Dispatcher routes a post to the publisher of the selected platform
type Dispatcher struct {
	publishers map[platform.Platform]Publisher
}

// NewDispatcher creates a dispatcher over publishers
func NewDispatcher(publishers ...Publisher) *Dispatcher {
	return &Dispatcher{
		publishers: lo.KeyBy(publishers, func(p Publisher) platform.Platform {
			return p.Platform()
		}),
	}
}

// Publish invokes the publisher registered for p
func (d *Dispatcher) Publish(ctx context.Context, p platform.Platform, creds credential.Credentials, post domain.Post) domain.Result {
	publisher, ok := d.publishers[p]
	if !ok {
		return domain.Failed("Платформа не поддерживается: " + p.String())
	}

	result := publisher.Publish(ctx, creds, post)
	if result.Success {
		slog.Info("Post published", "platform", p, "has_image", post.Image != nil)
	} else {
		slog.Warn("Direct publishing failed", "platform", p, "message", result.Message)
	}
	return result
}

// transportCause drops the request URL from a client error. Bot tokens, access tokens and
// webhook secrets travel in that URL and must not reach logs or result messages.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
