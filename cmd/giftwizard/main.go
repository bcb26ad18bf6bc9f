package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"gifty/internal/config"
	"gifty/internal/giftprompt"
	"gifty/internal/presets"
	"gifty/internal/tui"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/region"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	regionFlag := flag.String("region", cfg.App.DefaultRegion, "shopping region (IN or US)")
	flowFlag := flag.String("flow", presets.FlowPerfect, "wizard flow (perfect or quick)")
	logFlag := flag.String("log", "", "write logs to this file")
	flag.Parse()

	r, err := region.Parse(*regionFlag)
	if err != nil {
		return fmt.Errorf("%w: %s", err, *regionFlag)
	}

	log := logger.Nop()
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logger.New(logger.Options{
			ServiceName: "giftwizard",
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			Format:      "json",
			Output:      f,
		})
	}

	catalog, err := presets.Load(cfg.Presets.Path)
	if err != nil {
		return err
	}
	engine, err := catalog.Engine(*flowFlag)
	if err != nil {
		return err
	}

	generator, err := llm.New(context.Background(), llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if errors.Is(err, llm.ErrNoCredentials) {
		log.Zerolog(context.Background()).Warn().Str("provider", cfg.LLM.Provider).Msg("no API key configured, serving sample suggestions")
		generator, err = giftprompt.SampleGenerator(), nil
	}
	if err != nil {
		return err
	}
	if closer, ok := generator.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	app, err := tui.NewApp(tui.Options{
		Engine:    engine,
		Region:    r,
		Generator: generator,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Log:       log,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
