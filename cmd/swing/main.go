// Command swing runs the daily breakout paper-trading pipeline. Each stage
// is independently invocable; all of them exit 0 when they produce no
// output, because an empty day is a normal outcome.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/swing-trader/internal/config"
	"github.com/rxtech-lab/swing-trader/internal/logger"
	"github.com/rxtech-lab/swing-trader/internal/notify"
	"github.com/rxtech-lab/swing-trader/internal/pipeline"
	"github.com/rxtech-lab/swing-trader/internal/store"
	"github.com/rxtech-lab/swing-trader/pkg/pricesource"
)

func main() {
	cmd := &cli.Command{
		Name:  "swing",
		Usage: "Daily breakout detection and paper-trading pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB data file (overrides DATA_PATH)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "collect",
				Usage:  "Fetch end-of-day prices for the ticker universe",
				Action: stageAction((*pipeline.Pipeline).Collect),
			},
			{
				Name:   "detect",
				Usage:  "Scan stored prices for breakout patterns",
				Action: stageAction((*pipeline.Pipeline).Detect),
			},
			{
				Name:   "alert",
				Usage:  "Turn breakout signals into trade picks",
				Action: stageAction((*pipeline.Pipeline).Alert),
			},
			{
				Name:   "notify",
				Usage:  "Send stored picks to the notification sink",
				Action: stageAction((*pipeline.Pipeline).Notify),
			},
			{
				Name:   "execute",
				Usage:  "Simulate fills for stored picks and open positions",
				Action: stageAction((*pipeline.Pipeline).Execute),
			},
			{
				Name:   "update",
				Usage:  "Resolve open positions against current prices",
				Action: stageAction((*pipeline.Pipeline).Update),
			},
			{
				Name:  "stats",
				Usage: "Write a YAML summary of the simulated book",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the stats report",
						Value:   "data/stats.yaml",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withPipeline(cmd, func(ctx context.Context, p *pipeline.Pipeline) error {
						return p.Stats(cmd.String("output"))
					})
				},
			},
			{
				Name:   "run",
				Usage:  "Run the full daily batch: collect through update",
				Action: stageAction((*pipeline.Pipeline).Run),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// stageAction adapts a pipeline stage method into a CLI action.
func stageAction(stage func(*pipeline.Pipeline, context.Context) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return withPipeline(cmd, func(ctx context.Context, p *pipeline.Pipeline) error {
			return stage(p, ctx)
		})
	}
}

// withPipeline assembles the pipeline from configuration and runs fn,
// closing the store and flushing logs afterwards.
func withPipeline(cmd *cli.Command, fn func(ctx context.Context, p *pipeline.Pipeline) error) error {
	l, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if dataPath := cmd.String("data"); dataPath != "" {
		cfg.DataPath = dataPath
	}

	st, err := store.Open(cfg.DataPath, l)
	if err != nil {
		return err
	}
	defer st.Close()

	chain := buildPriceChain(l, cfg)
	sink := buildSink(l, cfg)

	return fn(context.Background(), pipeline.New(l, cfg, st, chain, sink))
}

// buildPriceChain assembles the provider chain from whatever credentials are
// configured: Polygon first, Alpha Vantage as fallback, Binance last since
// its market data endpoints need no key.
func buildPriceChain(l *logger.Logger, cfg *config.Config) *pricesource.Chain {
	var providers []pricesource.Provider

	if cfg.PolygonAPIKey != "" {
		polygonProvider, err := pricesource.NewPolygonProvider(cfg.PolygonAPIKey)
		if err != nil {
			l.Warn("Skipping polygon provider", zap.Error(err))
		} else {
			providers = append(providers, polygonProvider)
		}
	}

	if cfg.AlphaVantageAPIKey != "" {
		avProvider, err := pricesource.NewAlphaVantageProvider(cfg.AlphaVantageAPIKey)
		if err != nil {
			l.Warn("Skipping alpha vantage provider", zap.Error(err))
		} else {
			providers = append(providers, avProvider)
		}
	}

	providers = append(providers, pricesource.NewBinanceProvider())

	return pricesource.NewChain(l, providers...)
}

// buildSink returns the Telegram sink when credentials are present, falling
// back to logging alerts locally.
func buildSink(l *logger.Logger, cfg *config.Config) notify.Sink {
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		return notify.NewTelegramSink(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	l.Info("Telegram credentials not configured, alerts will be logged locally")

	return notify.NewLogSink(l)
}
