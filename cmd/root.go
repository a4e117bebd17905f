package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sentinelarr/config"
	"github.com/s0up4200/sentinelarr/filter"
	"github.com/s0up4200/sentinelarr/policy"
	"github.com/s0up4200/sentinelarr/qbittorrent"
	"github.com/s0up4200/sentinelarr/sentinel"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	qbtClient *qbittorrent.Client
	preFilter *filter.Filter

	// Command flags
	dryRun bool
	once   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sentinelarr",
	Short: "Enforce per-tracker seeding limits on qBittorrent torrents",
	Long: `sentinelarr watches your qBittorrent instance and pauses or removes
torrents once they hit per-tracker limits on share ratio, active seeding
time or upload idleness. qBittorrent itself only supports global and
per-category share limits; this tool fills the per-tracker gap.`,
	PersistentPreRunE: initializeApp,
	RunE:              runSentinel,
}

// SetVersion sets the version info shown by --version.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "evaluate and log decisions without acting on them")
	rootCmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Runtime.DryRun = dryRun
	}

	// Compile the optional pre-filter before touching the network
	if cfg.Filter.Expression != "" {
		preFilter, err = filter.Compile(cfg.Filter.Expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	// Create qBittorrent client
	opts := []qbittorrent.Option{}
	if cfg.Qbittorrent.BasicUser != "" {
		opts = append(opts, qbittorrent.WithBasicAuth(cfg.Qbittorrent.BasicUser, cfg.Qbittorrent.BasicPass))
	}
	if cfg.Qbittorrent.TLSSkipVerify {
		opts = append(opts, qbittorrent.WithInsecureSkipVerify())
	}
	if cfg.Qbittorrent.Timeout > 0 {
		opts = append(opts, qbittorrent.WithTimeout(time.Duration(cfg.Qbittorrent.Timeout)*time.Second))
	}

	qbtClient, err = qbittorrent.NewClient(cfg.Qbittorrent.URL, cfg.Qbittorrent.Username, cfg.Qbittorrent.Password, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create qBittorrent client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; no color when piped
	color := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func runSentinel(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := policy.NewTable(cfg.Policy)
	s := sentinel.New(qbtClient, table, sentinel.Options{
		Interval: time.Duration(cfg.Runtime.IntervalSeconds) * time.Second,
		DryRun:   cfg.Runtime.DryRun,
		Filter:   preFilter,
	}, logger)

	if once {
		return s.RunOnce(ctx)
	}

	return s.Run(ctx)
}
