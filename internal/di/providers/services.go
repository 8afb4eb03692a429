package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/logger"
	"github.com/up4down/up4down-server/internal/ratelimit"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/service"
	"github.com/up4down/up4down-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideScriptRunner provides the item script sandbox.
func ProvideScriptRunner(i do.Injector) (*sandbox.Runner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return sandbox.NewRunner(cfg.Scripts.MaxLength), nil
}

// RatingLimiterHandle wraps the rating rate limiter with shutdown capability.
type RatingLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RatingLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRatingLimiter provides the per-IP rating submission limiter.
func ProvideRatingLimiter(i do.Injector) (*RatingLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	rps := float64(cfg.Ratings.SubmitPerMinute) / 60.0
	return &RatingLimiterHandle{
		KeyedRateLimiter: ratelimit.New(rps, cfg.Ratings.SubmitBurst),
	}, nil
}

// ProvideCatalogService provides the public browsing service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, cfg.Catalog, log.Logger), nil
}

// ProvideSuggestService provides the search suggestion service.
func ProvideSuggestService(i do.Injector) (*service.SuggestService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSuggestService(indexHandle.Index, cfg.Catalog, log.Logger), nil
}

// ProvideRatingService provides the rating submission service.
func ProvideRatingService(i do.Injector) (*service.RatingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRatingService(storeHandle.Store, log.Logger), nil
}

// ProvideDownloadService provides the download trigger service.
func ProvideDownloadService(i do.Injector) (*service.DownloadService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	runner := do.MustInvoke[*sandbox.Runner](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDownloadService(storeHandle.Store, runner, cfg.Scripts, log.Logger), nil
}

// ProvideItemService provides the admin item management service.
func ProvideItemService(i do.Injector) (*service.ItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	runner := do.MustInvoke[*sandbox.Runner](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewItemService(storeHandle.Store, validator, runner, log.Logger), nil
}

// ProvideCategoryService provides the admin category management service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideAdminService provides the admin account service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	runner := do.MustInvoke[*sandbox.Runner](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, tokens, runner, cfg.Auth, log.Logger), nil
}

// SeedOnStartup seeds the default categories and the bootstrap admin
// account on first run.
func SeedOnStartup(i do.Injector) error {
	ctx := context.Background()

	categoryService := do.MustInvoke[*service.CategoryService](i)
	if err := categoryService.EnsureDefaults(ctx); err != nil {
		return err
	}

	adminService := do.MustInvoke[*service.AdminService](i)
	return adminService.Bootstrap(ctx)
}
