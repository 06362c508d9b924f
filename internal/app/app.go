// Package app wires configuration, storage, clients, and the auth
// components into the shared core used by cmd/copyforge-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/copyforge/internal/auth"
	"github.com/bobmcallan/copyforge/internal/clients/gemini"
	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/extract"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
	"github.com/bobmcallan/copyforge/internal/storage"
)

// App holds all initialized components shared across handlers.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Storage       interfaces.StorageManager
	Codec         *auth.Codec
	Authenticator *auth.Authenticator
	Codes         *auth.CodeLedger
	Extractor     interfaces.TextExtractor
	Generator     interfaces.TextGenerator
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolvePaths anchors relative filesystem paths to the binary directory
// so the server behaves the same regardless of the working directory it
// was launched from. Absolute paths pass through untouched.
func resolvePaths(config *common.Config, binDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(binDir, *p)
		}
	}
	resolve(&config.Storage.TextsPath)
	resolve(&config.Logging.FilePath)
	resolve(&config.Server.StaticDir)
}

// NewApp initializes configuration, storage, clients, and auth components.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, COPYFORGE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("COPYFORGE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "copyforge.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/copyforge.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	resolvePaths(config, binDir)

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	if err := seedCredentials(ctx, storageManager, config); err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to seed credentials: %w", err)
	}

	var generator interfaces.TextGenerator
	if key := config.Clients.Gemini.APIKey; key != "" {
		geminiClient, err := gemini.NewClient(ctx, key,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			generator = geminiClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - copy generation will be unavailable")
	}

	app := &App{
		Config:        config,
		Logger:        logger,
		Storage:       storageManager,
		Codec:         auth.NewCodec(config.Auth.JWTSecret),
		Authenticator: auth.NewAuthenticator(storageManager.UserStore(), storageManager.OAuthStore()),
		Codes:         auth.NewCodeLedger(storageManager.OAuthStore(), config.Auth.GetCodeExpiry()),
		Extractor:     extract.NewPDFExtractor(),
		Generator:     generator,
		StartupTime:   time.Now(),
	}

	return app, nil
}

// seedCredentials loads the configured users and clients into the stores.
// Plaintext passwords and secrets are hashed on the way in; values already
// in bcrypt form pass through unchanged.
func seedCredentials(ctx context.Context, store interfaces.StorageManager, config *common.Config) error {
	now := time.Now()

	for _, seed := range config.Auth.Users {
		if seed.Username == "" || seed.Password == "" {
			return fmt.Errorf("auth.users entries require username and password")
		}
		hash, err := auth.HashSecret(seed.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for user %s: %w", seed.Username, err)
		}
		user := &models.User{
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hash,
			Disabled:     seed.Disabled,
			CreatedAt:    now,
		}
		if err := store.UserStore().SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed.Username, err)
		}
	}

	for _, seed := range config.Auth.Clients {
		if seed.ClientID == "" || seed.ClientSecret == "" {
			return fmt.Errorf("auth.clients entries require client_id and client_secret")
		}
		if len(seed.RedirectURIs) == 0 {
			return fmt.Errorf("auth.clients entry %s requires at least one redirect_uri", seed.ClientID)
		}
		hash, err := auth.HashSecret(seed.ClientSecret)
		if err != nil {
			return fmt.Errorf("failed to hash secret for client %s: %w", seed.ClientID, err)
		}
		client := &models.OAuthClient{
			ClientID:         seed.ClientID,
			ClientSecretHash: hash,
			ClientName:       seed.ClientName,
			RedirectURIs:     seed.RedirectURIs,
			CreatedAt:        now,
		}
		if err := store.OAuthStore().SaveClient(ctx, client); err != nil {
			return fmt.Errorf("failed to seed client %s: %w", seed.ClientID, err)
		}
	}

	return nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
