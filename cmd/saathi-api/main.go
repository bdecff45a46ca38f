package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/assistant"
	"github.com/rythu-saathi/backend/internal/auth"
	"github.com/rythu-saathi/backend/internal/config"
	"github.com/rythu-saathi/backend/internal/database"
	"github.com/rythu-saathi/backend/internal/finance"
	"github.com/rythu-saathi/backend/internal/forum"
	"github.com/rythu-saathi/backend/internal/journal"
	"github.com/rythu-saathi/backend/internal/logging"
	"github.com/rythu-saathi/backend/internal/market"
	"github.com/rythu-saathi/backend/internal/marketplace"
	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/schemes"
	"github.com/rythu-saathi/backend/internal/server"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/users"
	"github.com/rythu-saathi/backend/internal/watering"
	"github.com/rythu-saathi/backend/internal/weather"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "saathi-api",
		Short: "Rythu Saathi farming portal backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("token.ttl_minutes"), "Session token TTL in minutes")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Session token signing secret (overrides env)")
	cmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key (overrides env)")
	cmd.PersistentFlags().String("gemini-model", defaults.GetString("gemini.model"), "Gemini model name")
	cmd.PersistentFlags().String("weather-api-key", "", "Weather API key (overrides env)")
	cmd.PersistentFlags().String("weather-api-url", defaults.GetString("weather.api_url"), "Weather API base URL")
	cmd.PersistentFlags().String("market-api-key", "", "Market data API key (overrides env)")
	cmd.PersistentFlags().String("market-api-url", defaults.GetString("market.api_url"), "Market data API base URL")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "token.ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "gemini.api_key", "gemini-api-key")
	bindFlag(cmd, "gemini.model", "gemini-model")
	bindFlag(cmd, "weather.api_key", "weather-api-key")
	bindFlag(cmd, "weather.api_url", "weather-api-url")
	bindFlag(cmd, "market.api_key", "market-api-key")
	bindFlag(cmd, "market.api_url", "market-api-url")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	tokenManager := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "saathi-auth",
		Audience:      "saathi-api",
		TokenTTL:      appConfig.TokenTTL,
	})

	recordStore, err := store.New(store.Config{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	idProvider := store.NewUUIDProvider()

	usersService, err := users.NewService(users.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	notifyService, err := notify.NewService(notify.ServiceConfig{
		Store:      recordStore,
		Relay:      notify.NewRelay(),
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	forumService, err := forum.NewService(forum.ServiceConfig{
		Store:      recordStore,
		Notifier:   notifyService,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	journalService, err := journal.NewService(journal.ServiceConfig{
		Store:      recordStore,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	wateringService, err := watering.NewService(watering.ServiceConfig{
		Store:      recordStore,
		Notifier:   notifyService,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	marketplaceService, err := marketplace.NewService(marketplace.ServiceConfig{
		Store:      recordStore,
		Notifier:   notifyService,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	geminiClient, err := assistant.NewClient(ctx, assistant.ClientConfig{
		APIKey: appConfig.GeminiAPIKey,
		Model:  appConfig.GeminiModel,
	})
	if err != nil {
		return err
	}
	if !geminiClient.Configured() {
		logger.Warn("gemini api key not configured, assistant runs in fallback mode")
	}
	assistantService, err := assistant.NewService(assistant.ServiceConfig{
		Store:      recordStore,
		Client:     geminiClient,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	weatherService, err := weather.NewService(weather.ServiceConfig{
		Store: recordStore,
		Client: weather.NewClient(weather.ClientConfig{
			APIKey:  appConfig.WeatherAPIKey,
			BaseURL: appConfig.WeatherAPIURL,
		}),
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	marketService := market.NewService(market.ServiceConfig{
		Client: market.NewClient(market.ClientConfig{
			APIKey:  appConfig.MarketAPIKey,
			BaseURL: appConfig.MarketAPIURL,
		}),
		Clock:  time.Now,
		Logger: logger,
	})

	schemesService := schemes.NewService(schemes.ServiceConfig{
		Users:  usersService,
		Logger: logger,
	})

	financeService, err := finance.NewService(finance.ServiceConfig{
		Store:      recordStore,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	scheduler, err := notify.NewScheduler(notify.SchedulerConfig{
		Publisher: notifyService,
		Store:     recordStore,
		Recipients: func(ctx context.Context) ([]notify.Recipient, error) {
			accounts, err := usersService.List(ctx)
			if err != nil {
				return nil, err
			}
			recipients := make([]notify.Recipient, 0, len(accounts))
			for _, account := range accounts {
				recipients = append(recipients, notify.Recipient{
					ID:       account.ID,
					Language: string(account.Language),
				})
			}
			return recipients, nil
		},
		Rules:  notify.DefaultRules(),
		Clock:  time.Now,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		TokenManager: tokenManager,
		Users:        usersService,
		Forum:        forumService,
		Journal:      journalService,
		Watering:     wateringService,
		Marketplace:  marketplaceService,
		Assistant:    assistantService,
		Weather:      weatherService,
		Market:       marketService,
		Schemes:      schemesService,
		Finance:      financeService,
		Notify:       notifyService,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(signalCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
