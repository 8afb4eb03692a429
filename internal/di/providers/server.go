package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/up4down/up4down-server/internal/api"
	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/logger"
	"github.com/up4down/up4down-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(api.ServerOptions{
		Catalog:       do.MustInvoke[*service.CatalogService](i),
		Suggest:       do.MustInvoke[*service.SuggestService](i),
		Ratings:       do.MustInvoke[*service.RatingService](i),
		Downloads:     do.MustInvoke[*service.DownloadService](i),
		Items:         do.MustInvoke[*service.ItemService](i),
		Categories:    do.MustInvoke[*service.CategoryService](i),
		Admin:         do.MustInvoke[*service.AdminService](i),
		Tokens:        do.MustInvoke[*auth.TokenService](i),
		RatingLimiter: do.MustInvoke[*RatingLimiterHandle](i).KeyedRateLimiter,
		Server:        cfg.Server,
		Logger:        log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
