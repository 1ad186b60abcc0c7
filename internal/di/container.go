package di

import (
	"context"
	"log/slog"

	composeService "github.com/reshetovitsme/contentguard/internal/modules/compose/service"
	credentialRepo "github.com/reshetovitsme/contentguard/internal/modules/credential/repository"
	credentialService "github.com/reshetovitsme/contentguard/internal/modules/credential/service"
	generationService "github.com/reshetovitsme/contentguard/internal/modules/generation/service"
	moderationService "github.com/reshetovitsme/contentguard/internal/modules/moderation/service"
	platformService "github.com/reshetovitsme/contentguard/internal/modules/platform/service"
	publicationRepo "github.com/reshetovitsme/contentguard/internal/modules/publication/repository"
	publicationService "github.com/reshetovitsme/contentguard/internal/modules/publication/service"
	publishingService "github.com/reshetovitsme/contentguard/internal/modules/publishing/service"
	"github.com/reshetovitsme/contentguard/internal/shared/ai"
	"github.com/reshetovitsme/contentguard/internal/shared/config"
	httpServer "github.com/reshetovitsme/contentguard/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register AI Client
	do.Provide(injector, func(i do.Injector) (ai.Completer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client, err := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey)
		if err != nil {
			return nil, oops.With("context", "failed to create ai client").Wrap(err)
		}
		return client, nil
	})

	// Register Credential Repository
	do.Provide(injector, func(i do.Injector) (credentialRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := credentialRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize credential repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Publication Repository
	do.Provide(injector, func(i do.Injector) (publicationRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := publicationRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize publication repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Platform Service
	do.Provide(injector, func(i do.Injector) (*platformService.Service, error) {
		return platformService.New(), nil
	})

	// Register Credential Service
	do.Provide(injector, func(i do.Injector) (*credentialService.Service, error) {
		repo := do.MustInvoke[credentialRepo.Repository](i)
		return credentialService.New(repo), nil
	})

	// Register Moderation Service
	do.Provide(injector, func(i do.Injector) (*moderationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[ai.Completer](i)
		return moderationService.New(client, cfg.AITextModel, cfg.AIVisionModel), nil
	})

	// Register Generation Service
	do.Provide(injector, func(i do.Injector) (*generationService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[ai.Completer](i)
		return generationService.New(client, cfg.AITextModel), nil
	})

	// Register Publisher Dispatcher
	do.Provide(injector, func(i do.Injector) (*publishingService.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return publishingService.NewDispatcher(
			publishingService.NewTelegramPublisher(cfg.TelegramAPIURL),
			publishingService.NewVKPublisher(cfg.VKAPIURL, cfg.VKAPIVersion),
			publishingService.NewDiscordPublisher(cfg.DiscordAPIURL, cfg.DiscordWebhookPrefix),
		), nil
	})

	// Register Publication Services
	do.Provide(injector, func(i do.Injector) (*publicationService.Service, error) {
		repo := do.MustInvoke[publicationRepo.Repository](i)
		return publicationService.New(repo), nil
	})
	do.Provide(injector, func(i do.Injector) (*publicationService.FeedService, error) {
		publications := do.MustInvoke[*publicationService.Service](i)
		return publicationService.NewFeedService(publications), nil
	})

	// Register Compose Service
	do.Provide(injector, func(i do.Injector) (*composeService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return composeService.New(composeService.Dependencies{
			Store:       composeService.NewSessionStore(cfg.SessionIdleTTL()),
			Analyzer:    do.MustInvoke[*moderationService.Service](i),
			Generator:   do.MustInvoke[*generationService.Service](i),
			Dispatcher:  do.MustInvoke[*publishingService.Dispatcher](i),
			Credentials: do.MustInvoke[*credentialService.Service](i),
			Journal:     do.MustInvoke[*publicationService.Service](i),
			Platforms:   do.MustInvoke[*platformService.Service](i),
			Assistant:   composeService.NewDesktopAssistant(cfg.FallbackDownloadsDir, cfg.FallbackOpenBrowser),
			FixPolicy:   cfg.FixPolicy,
		}), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		server := httpServer.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*platformService.Service](i),
			do.MustInvoke[*credentialService.Service](i),
			do.MustInvoke[*generationService.Service](i),
			do.MustInvoke[*composeService.Service](i),
			do.MustInvoke[*publicationService.Service](i),
			do.MustInvoke[*publicationService.FeedService](i),
		)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}

	if compose, err := do.Invoke[*composeService.Service](injector); err == nil && compose != nil {
		compose.Close()
	}

	return nil
}
