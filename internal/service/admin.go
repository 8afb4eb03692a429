package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/domain"
	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/store"
)

// AdminService handles the operator account: bootstrap, login, and the
// script dry-run used by the item form.
type AdminService struct {
	store  store.Store
	tokens *auth.TokenService
	runner *sandbox.Runner
	cfg    config.AuthConfig
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store store.Store, tokens *auth.TokenService, runner *sandbox.Runner, cfg config.AuthConfig, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		tokens: tokens,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// Bootstrap creates the initial admin account from configured credentials
// when no admin exists yet. Called once at startup.
func (s *AdminService) Bootstrap(ctx context.Context) error {
	count, err := s.store.CountAdminUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if s.cfg.AdminUsername == "" || s.cfg.AdminPassword == "" {
		s.logger.Warn("no admin account exists and no bootstrap credentials configured; admin surface is unreachable")
		return nil
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &domain.AdminUser{
		Record:       domain.Record{ID: id.MustGenerate(id.PrefixAdmin)},
		Username:     s.cfg.AdminUsername,
		PasswordHash: hash,
	}
	admin.InitTimestamps()

	if err := s.store.CreateAdminUser(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("bootstrapped admin account", "username", admin.Username)
	return nil
}

// Login verifies credentials and issues a session token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AdminService) Login(ctx context.Context, username, password string) (string, *domain.AdminUser, error) {
	admin, err := s.store.GetAdminUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, apperrors.InvalidCredentials("invalid username or password")
		}
		return "", nil, err
	}

	ok, err := auth.VerifyPassword(admin.PasswordHash, password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apperrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokens.GenerateSessionToken(admin)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("admin logged in", "username", admin.Username)
	return token, admin, nil
}

// ScriptTestInput carries a script plus the in-progress item form values
// it should see.
type ScriptTestInput struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url"`
	FileType    string `json:"file_type"`
	FileSize    string `json:"file_size"`
	Version     string `json:"version"`
}

// TestScript dry-runs a script against a synthetic item built from the
// form values, with safe fallbacks for anything left blank. Script errors
// become a single error log line; a silent successful run gets a
// synthetic confirmation line. The dry run itself never fails.
func (s *AdminService) TestScript(ctx context.Context, input ScriptTestInput) *sandbox.Result {
	item := &domain.Item{
		Record:      domain.Record{ID: "item-preview"},
		Title:       fallback(input.Title, "Test Item"),
		Description: input.Description,
		DownloadURL: fallback(input.DownloadURL, "https://example.com/download/test-item.zip"),
		FileType:    fallback(input.FileType, "zip"),
		FileSize:    fallback(input.FileSize, "1 MB"),
		Version:     fallback(input.Version, "1.0.0"),
	}

	result, err := s.runner.Run(ctx, input.Source, item)
	if err != nil {
		return &sandbox.Result{
			Logs: []sandbox.LogEntry{{Level: "error", Message: err.Error()}},
		}
	}
	if len(result.Logs) == 0 && len(result.OpenedURLs) == 0 && len(result.Alerts) == 0 {
		result.Logs = []sandbox.LogEntry{{Level: "log", Message: "Script executed successfully, no output"}}
	}
	return result
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
