package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"genelens/internal/config"
	"genelens/internal/engine"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags, applied over the loaded config when set
	cfgFile      string
	flagData     string
	flagPort     int
	flagLogLevel string

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "genelens",
	Short:             "Serve a gene differential-expression dataset",
	Long:              `genelens loads a differential-expression table once and serves search, detail and export lookups over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./genelens.yaml)")
	pf.StringVar(&flagData, "data", "", "dataset path: .csv, .tsv or .xlsx (overrides config)")
	pf.IntVar(&flagPort, "port", 0, "HTTP port (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "trace|debug|info|warn|error (overrides config)")

	rootCmd.AddCommand(serveCmd, columnsCmd, exportCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	// .env is optional
	_ = godotenv.Load()

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("data") {
		c.DataPath = flagData
	}
	if f.Changed("port") {
		c.Port = flagPort
	}
	if f.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}

	setupLogging(c.LogLevel, c.LogFormat)
	cfg = c
	return nil
}

func setupLogging(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if strings.EqualFold(format, "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func loadDataset() (*engine.Dataset, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.Load(cfg.DataPath, opts)
}
