package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"earnings-bot/internal/config"
	"earnings-bot/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-01"
)

// App holds the application dependencies shared across commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "earningsbot",
		Short: "Earnings Bot - earnings call summaries posted as tweet threads",
		Long: `Earnings Bot polls a ticker universe for newly disclosed earnings calls,
summarizes each one into a short thread with an LLM, and posts the thread
to Twitter as a reply chain. Processed events are recorded durably so an
event is posted exactly once.

Use 'earningsbot run' to start polling, or 'earningsbot run --once' for a
single pass.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/earnings-bot)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Earnings Bot v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Info("Bot")
			output.Printf("  universe_path:    %s\n", app.Config.Bot.UniversePath)
			output.Printf("  poll_interval:    %s\n", app.Config.Bot.PollInterval)
			output.Printf("  thread_length:    %d\n", app.Config.Bot.ThreadLength)
			output.Printf("  post_char_budget: %d\n", app.Config.Bot.PostCharBudget)
			output.Printf("  post_delay:       %s\n", app.Config.Bot.PostDelay)
			output.Printf("  ticker_delay:     %s\n", app.Config.Bot.TickerDelay)
			output.Info("Store")
			output.Printf("  backend: %s\n", app.Config.Store.Backend)
			output.Printf("  path:    %s\n", app.Config.Store.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}
