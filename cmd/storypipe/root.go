package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storypipe/storypipe/config"
	"github.com/storypipe/storypipe/logger"
	"github.com/storypipe/storypipe/observability"
	"github.com/storypipe/storypipe/pipeline"
	"github.com/storypipe/storypipe/render"
	"github.com/storypipe/storypipe/stage"
	"github.com/storypipe/storypipe/stages"
	"github.com/storypipe/storypipe/version"
)

const defaultPrompt = "A space adventure about robots"

type runOpts struct {
	configFile string
	workers    int
	stageDelay time.Duration
	seed       int64
	outputFile string
	logLevel   string
	trace      bool
}

func newRootCommand() *cobra.Command {
	var opts runOpts
	rootCmd := &cobra.Command{
		Use:   "storypipe [prompt]",
		Short: "storypipe runs the story creation pipeline",
		Long: `storypipe generates a story from a prompt, analyzes it, produces image,
audio, translation, and formatting components in parallel, and aggregates
everything into a final package.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "path to config.yml")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "parallel batch worker bound (0 = one per member)")
	flags.DurationVar(&opts.stageDelay, "stage-delay", 0, "artificial per-stage work delay")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible runs (0 = from clock)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "final package JSON path (empty = skip)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.trace, "trace", false, "enable OTLP trace export")

	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func run(ctx context.Context, opts *runOpts, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.WithComponent("storypipe")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := stage.NewRegistry()
	stages.Register(registry, stages.Options{
		Delay: cfg.Pipeline.StageDelay,
		Seed:  cfg.Pipeline.Seed,
	})

	var invoker stage.Invoker = stage.NewLocal(registry)
	invoker = stage.WithLogging(invoker, logger.WithComponent("stage"))

	if cfg.Tracing.Enabled {
		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = version.Get().Version
		tc.Environment = cfg.Environment
		tc.Endpoint = cfg.Tracing.Endpoint
		tc.SampleRate = cfg.Tracing.SampleRate
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("trace provider shutdown failed", logger.Fields(logger.FieldError, err.Error()))
			}
		}()
		invoker = stage.WithTracing(invoker, cfg.Name)
	}

	orch := pipeline.NewOrchestrator(invoker,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithLogger(logger.WithComponent("pipeline")),
	)

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		prompt = defaultPrompt
		log.Info("no prompt given, using default", logger.Fields("prompt", prompt))
	}

	msg, err := orch.Execute(ctx, prompt)
	if err != nil {
		if msg != nil {
			// Partial timestamps still tell where the run died.
			fmt.Println(render.Timeline(msg))
		}
		return fmt.Errorf("pipeline execution failed: %w", err)
	}

	fmt.Println(render.Timeline(msg))
	fmt.Println(render.ResultsSummary(msg))

	if cfg.Pipeline.OutputFile != "" {
		if err := render.WriteJSON(msg, cfg.Pipeline.OutputFile); err != nil {
			return err
		}
		fmt.Printf("Full output saved to: %s\n", cfg.Pipeline.OutputFile)
	}
	return nil
}

// loadConfig layers file and environment config, then applies flag
// overrides before validating.
func loadConfig(opts *runOpts) (*config.Config, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	cfg, err := config.Load(loaderOpts...)
	if err != nil {
		return nil, err
	}

	if opts.workers != 0 {
		cfg.Pipeline.Workers = opts.workers
	}
	if opts.stageDelay != 0 {
		cfg.Pipeline.StageDelay = opts.stageDelay
	}
	if opts.seed != 0 {
		cfg.Pipeline.Seed = opts.seed
	}
	if opts.outputFile != "" {
		cfg.Pipeline.OutputFile = opts.outputFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.trace {
		cfg.Tracing.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
