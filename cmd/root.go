package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/ai"
	"github.com/havenly/planmatch/internal/ai/gemini"
	"github.com/havenly/planmatch/internal/catalog"
	"github.com/havenly/planmatch/internal/secrets"
)

const (
	app = "planmatch"
)

type Config struct {
	Data      catalog.Paths `mapstructure:"data"`
	CacheFile string        `mapstructure:"cache-file"`
	Limit     int           `mapstructure:"limit"`
	AI        *AIConfig     `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "planmatch is a cli for matching insurance plans to your needs and asking an AI advisor about them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is planmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; flags and env cover everything it holds.
	// A file that exists but does not parse is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// loadCatalog builds the session's catalog snapshot: cache first, then the
// CSV files, then the synthetic sample as the last resort. Real data loaded
// from CSV refreshes the cache.
func loadCatalog(ctx context.Context, config *Config, logger *zap.Logger) *catalog.Catalog {
	if config.CacheFile == "" {
		cat, _ := catalog.LoadOrSample(config.Data, logger)
		return cat
	}

	cache, err := catalog.OpenCache(config.CacheFile)
	if err != nil {
		logger.Warn("opening catalog cache", zap.Error(err))
		cat, _ := catalog.LoadOrSample(config.Data, logger)
		return cat
	}
	defer cache.Close()

	if cat, err := cache.Load(ctx); err == nil {
		logger.Info("catalog loaded from cache",
			zap.String("path", config.CacheFile),
			zap.Int("plans", len(cat.Plans)),
		)
		return cat
	} else if !errors.Is(err, catalog.ErrEmptyCache) {
		logger.Warn("reading catalog cache", zap.Error(err))
	}

	cat, sampled := catalog.LoadOrSample(config.Data, logger)
	if !sampled {
		if err := cache.Save(ctx, cat); err != nil {
			logger.Warn("writing catalog cache", zap.Error(err))
		}
	}

	return cat
}

// newAdvisor builds the conversational advisor when the ai section is
// configured and enabled.
func newAdvisor(ctx context.Context, config *Config, cat *catalog.Catalog, logger *zap.Logger) (ai.Advisor, error) {
	cfg := config.AI
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai advisor is disabled (set ai.enabled in the configuration file)")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		// Env-only values do not survive viper.Unmarshal.
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load("gemini api key", keyFile, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAdvisor(generator, cat, genLogger, cfg.Gemini.MaxLogLength), nil
}
