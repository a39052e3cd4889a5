// Package cli implements the vibe CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/config"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/preference"
	"github.com/rcliao/vibe-recommender/internal/provider"
	"github.com/rcliao/vibe-recommender/internal/recommend"
	"github.com/rcliao/vibe-recommender/internal/session"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "vibe",
	Short: "Movie recommendations for how you feel",
	Long:  "Turns a mood (text, emoji, happiness and energy sliders, situation) into an emotion profile and recommends movies for it. JSON out.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $VIBE_CONFIG or ./vibe.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or console")
}

// loadConfig reads the layered config, applies flag overrides and sets up
// logging on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	return cfg, nil
}

// app is the wired pipeline for one process: one session store and the
// provider chain on top of it.
type app struct {
	cfg         *config.Config
	store       session.Store
	provider    provider.Provider
	recommender *recommend.Recommender
	aggregator  *preference.Aggregator
}

func newApp(cfg *config.Config, s session.Store, p provider.Provider, rng recommend.Rand) *app {
	r := recommend.New(p, rng, recommend.OptionsFrom(cfg.Recommend))
	return &app{
		cfg:         cfg,
		store:       s,
		provider:    p,
		recommender: r,
		aggregator:  preference.NewAggregator(p, r),
	}
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s, err := session.NewSQLiteStore(cfg.Session.DSN)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	logging.Debug().Str("session_id", s.ID()).Str("dsn", cfg.Session.DSN).Msg("session opened")
	tmdb := provider.NewTMDB(cfg.TMDB)
	if !tmdb.Enabled() {
		logging.Info().Msg("no TMDB api key, recommending from the built-in catalog")
	}
	return newApp(cfg, s, provider.NewMemo(tmdb, s), nil), nil
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode", err)
	}
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	logErr(msg, err)
	os.Exit(1)
}

func logErr(msg string, err error) {
	logging.Error().Err(err).Msg(msg)
}
