package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"earnings-bot/internal/bot"
	"earnings-bot/internal/detect"
	"earnings-bot/internal/logging"
	"earnings-bot/internal/market"
	"earnings-bot/internal/publish"
	"earnings-bot/internal/resilience"
	"earnings-bot/internal/schedule"
	"earnings-bot/internal/store"
	"earnings-bot/internal/summary"
	"earnings-bot/internal/universe"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		once     bool
		interval string
		cronSpec string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start polling the ticker universe",
		Long: `Run polls every ticker in the universe for new earnings events,
summarizes each new event into a thread, and posts it.

By default run polls continuously at the configured interval. Use --once
for a single pass, or --cron to poll on a cron schedule instead of a
fixed interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if once && cronSpec != "" {
				return fmt.Errorf("--once and --cron are mutually exclusive")
			}

			cfg := app.Config
			if interval != "" {
				d, err := time.ParseDuration(interval)
				if err != nil {
					return fmt.Errorf("invalid --interval: %w", err)
				}
				cfg.Bot.PollInterval = d
			}

			if cfg.Credentials.OpenAI.APIKey == "" {
				return fmt.Errorf("openai api key not configured (credentials.toml or OPENAI_API_KEY)")
			}
			if cfg.Credentials.Twitter.BearerToken == "" {
				return fmt.Errorf("twitter bearer token not configured (credentials.toml or TWITTER_BEARER_TOKEN)")
			}

			u, err := universe.Load(cfg.Bot.UniversePath)
			if err != nil {
				return fmt.Errorf("loading universe: %w", err)
			}
			app.Logger.Info().Int("tickers", u.Len()).Str("path", cfg.Bot.UniversePath).Msg("universe loaded")

			s, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			marketClient := resilience.NewResilientMarketClient(market.NewYahooClient(cfg.Credentials.Market.BaseURL))
			detector := detect.New(marketClient, logging.WithComponent(app.Logger, "detect"))
			llm := summary.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Credentials.OpenAI.Model)
			generator := summary.NewGenerator(llm, cfg.Bot.ThreadLength, cfg.Bot.PostCharBudget, logging.WithComponent(app.Logger, "summary"))
			poster := publish.NewTwitterClient(cfg.Credentials.Twitter.BearerToken, "")
			publisher := publish.NewThreadPublisher(poster, cfg.Bot.PostDelay, logging.WithComponent(app.Logger, "publish"))

			runner := bot.NewRunner(u, detector, generator, publisher, s, cfg.Bot.TickerDelay, app.Logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			switch {
			case once:
				return runner.RunPass(ctx)
			case cronSpec != "":
				return runScheduled(ctx, app, runner, cronSpec)
			default:
				app.Logger.Info().Dur("interval", cfg.Bot.PollInterval).Msg("polling continuously")
				return runner.Run(ctx, cfg.Bot.PollInterval)
			}
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")
	cmd.Flags().StringVar(&interval, "interval", "", "override the poll interval (e.g. 30m)")
	cmd.Flags().StringVar(&cronSpec, "cron", "", "poll on a cron schedule instead of a fixed interval")

	return cmd
}

func runScheduled(ctx context.Context, app *App, runner *bot.Runner, spec string) error {
	sched := schedule.NewScheduler(app.Logger)
	if err := sched.Schedule(ctx, spec, runner.RunPass); err != nil {
		return err
	}

	app.Logger.Info().Str("spec", spec).Msg("polling on cron schedule")
	sched.Start()
	defer sched.Stop()

	select {
	case <-ctx.Done():
		app.Logger.Info().Msg("stopping")
		return nil
	case err := <-sched.Fatal():
		// Store persistence failures end the run; continuing would
		// risk duplicate posting on later ticks.
		return err
	}
}
