package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"shelf/internal/config"
	"shelf/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	dbPath    string
	verbose   bool
	navMode   string
	pageSize  int
	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Browse a product catalog in the terminal",
	Long: `shelf is a terminal product-catalog browser. Products are read from a
local SQLite database and shown in a table that can be searched, narrowed to a
category and paged through.

Run without arguments to open the browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		// Load .env files first so SHELF_HOME and friends can come from them.
		loadDotEnv(".env")
		loadDotEnv(".env.local")

		var err error
		cfg, err = config.Load(cfgFile, "")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)
		fixes := cfg.Normalize()

		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create home directory %s: %w", cfg.HomeDir, err)
		}

		logger, logCloser, err = logging.New(logging.Options{
			Level:   cfg.Log.Level,
			File:    cfg.Log.File,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		for _, fix := range fixes {
			logger.Warn().Str("config", cfg.FilePath).Msg(fix)
		}
		logger.Debug().
			Str("db", cfg.Data.DBPath).
			Str("mode", cfg.Table.Mode).
			Int("page_size", cfg.Table.PageSize).
			Msg("config loaded")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser(cmd.Context())
	},
}

// applyFlagOverrides copies explicitly set flags over file values.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.Data.DBPath = dbPath
	}
	if flags.Changed("mode") {
		c.Table.Mode = navMode
	}
	if flags.Changed("page-size") {
		c.Table.PageSize = pageSize
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version
	return rootCmd.ExecuteContext(ctx)
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.shelf/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database file (default: ~/.shelf/shelf.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&navMode, "mode", "", `navigation mode: "local" filters in memory, "query" loads one page at a time`)
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "rows per page (default from config, 10)")
}
