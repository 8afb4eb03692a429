// Package di provides dependency injection configuration for the Up4Down server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/di/providers"
	"github.com/up4down/up4down-server/internal/logger"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/service"
	"github.com/up4down/up4down-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database and search
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Shared tooling
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideScriptRunner)
	do.Provide(injector, providers.ProvideRatingLimiter)

	// Business services
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideSuggestService)
	do.Provide(injector, providers.ProvideRatingService)
	do.Provide(injector, providers.ProvideDownloadService)
	do.Provide(injector, providers.ProvideItemService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideAdminService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNS)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*sandbox.Runner](injector)
	_ = do.MustInvoke[*providers.RatingLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.SuggestService](injector)
	_ = do.MustInvoke[*service.RatingService](injector)
	_ = do.MustInvoke[*service.DownloadService](injector)
	_ = do.MustInvoke[*service.ItemService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)

	// First-run seeding before the server starts taking requests.
	if err := providers.SeedOnStartup(injector); err != nil {
		return err
	}

	// Backfill the suggestion index when it is empty.
	providers.ReindexIfEmpty(injector)

	// Server, then local network advertisement once it is listening.
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSHandle](injector)

	return nil
}
