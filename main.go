// qasentinel generates and scores QA test plans from user stories.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qasentinel/internal/cli"
	"qasentinel/internal/config"
	"qasentinel/internal/export"
	"qasentinel/internal/genai"
	"qasentinel/internal/memory"
	"qasentinel/internal/output"
	"qasentinel/internal/pipeline"
	"qasentinel/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	client, err := genai.NewOpenAIClient(genai.ProviderOptions{
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.Model,
		BaseURL: cfg.Provider.BaseURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create model client: %v\n", err)
		fmt.Fprintln(os.Stderr, "hint: set QASENTINEL_PROVIDER_API_KEY or provider.api_key in the config file")
		return 1
	}

	store := session.NewStore()
	mem := memory.New()
	if cfg.Memory.SeedPath != "" {
		n, err := mem.SeedFromFile(cfg.Memory.SeedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed memory: %v\n", err)
			return 1
		}
		logger.Info("seeded style memory", zap.Int("examples", n), zap.String("path", cfg.Memory.SeedPath))
	}

	app := &cli.App{
		Config:   cfg,
		Store:    store,
		Memory:   mem,
		Runner:   pipeline.NewOrchestrator(client, store, mem, cfg.Memory.TopK, logger),
		Exporter: export.NewExporter(cfg.Export.Dir),
		Printer:  output.NewPrinter(),
		Logger:   logger,
	}

	return cli.Execute(app)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
