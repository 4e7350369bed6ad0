// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ik5/intake/analysis"
	"github.com/ik5/intake/internal/config"
	"github.com/ik5/intake/internal/logging"
	"github.com/ik5/intake/usage"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

// Remote is the model client behind analyze and compress --verify.
type Remote interface {
	analysis.Analyzer
	analysis.Transcriber
}

// CLI holds the command tree and what the commands share once the root
// command has resolved configuration.
type CLI struct {
	root *cobra.Command

	fs      afero.Fs
	manager *config.Manager

	// NewRemote builds the model client from the resolved config.
	NewRemote func(cfg *config.Config, logger zerolog.Logger) Remote
	Now       func() time.Time

	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
}

// New builds the command tree. Input files, reports and the config file go
// through fs.
func New(fs afero.Fs, manager *config.Manager) *CLI {
	c := &CLI{
		fs:        fs,
		manager:   manager,
		NewRemote: newGemini,
		Now:       time.Now,
		logger:    zerolog.Nop(),
		closeLog:  func() error { return nil },
	}

	root := &cobra.Command{
		Use:   "intake",
		Short: "BNI interview intake",
		Long: `intake turns BNI membership interview recordings into filled interview
forms. Recordings are compressed to mono MP3 when large, analysed by a
Gemini model, and written out as a Markdown report.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().String("config", "", "Path to config file")
	root.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	root.PersistentFlags().String("env", ".env", "Path to a .env file")

	root.AddCommand(c.newCompressCommand())
	root.AddCommand(c.newAnalyzeCommand())
	root.AddCommand(c.newUsageCommand())
	root.AddCommand(c.newRenderCommand())
	root.AddCommand(c.newConfigCommand())
	root.AddCommand(newFormatsCommand())

	c.root = root
	return c
}

func newGemini(cfg *config.Config, logger zerolog.Logger) Remote {
	g := analysis.NewGemini(cfg.APIKey, logger)
	g.Model = cfg.Model
	g.Endpoint = cfg.Endpoint
	g.Timeout = cfg.Timeout()
	return g
}

// Run executes args (without the program name) and returns the exit code.
func (c *CLI) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c.root.SetArgs(args)
	c.root.SetOut(stdout)
	c.root.SetErr(stderr)

	err := c.root.ExecuteContext(ctx)
	if cerr := c.closeLog(); cerr != nil {
		fmt.Fprintf(stderr, "Error: closing log file: %v\n", cerr)
	}
	if err != nil {
		c.logger.Debug().Err(err).Msg("command failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setup resolves the configuration and the logger for every subcommand.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env")
	configFile, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	if err := c.manager.LoadDotEnv(envFile); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = c.manager.LoadFromFile(configFile)
	} else {
		cfg, err = c.manager.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := c.manager.ApplyEnv(cfg); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	console := cmd.ErrOrStderr()
	opts := logging.Options{Level: cfg.LogLevel, Console: console, NoColor: !isTerminal(console)}
	if fl := cfg.FileLogging; fl != nil && fl.Enabled {
		opts.FilePath = c.manager.LogFilePath(cfg)
		opts.MaxSizeMB = fl.MaxSizeMB
		opts.MaxBackups = fl.MaxBackups
		opts.MaxAgeDays = fl.MaxAgeDays
		opts.Compress = fl.Compress
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return err
	}

	c.cfg, c.logger, c.closeLog = cfg, logger, closer
	c.logger.Debug().
		Str("command", cmd.Name()).
		Str("model", cfg.Model).
		Int("target_rate", cfg.TargetRate).
		Msg("configuration resolved")
	return nil
}

func (c *CLI) openUsage() (*usage.Store, error) {
	path := c.manager.UsageDBPath(c.cfg)
	store, err := usage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening usage database %s: %w", path, err)
	}
	return store, nil
}

func (c *CLI) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
