package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/opengeos/geoagent/pkg/agent"
	"github.com/opengeos/geoagent/pkg/geoagent"
	"github.com/opengeos/geoagent/pkg/logging"
	"github.com/opengeos/geoagent/pkg/metrics"
	"github.com/opengeos/geoagent/pkg/redact"
	"github.com/opengeos/geoagent/pkg/runner"
	"github.com/opengeos/geoagent/pkg/tools/geo"
	"github.com/opengeos/geoagent/pkg/transports/httpapi"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := geoagent.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geo-agent: %v\n", err)
		os.Exit(1)
	}

	log := logging.Init(cfg.LogLevel, cfg.LogFormat)
	redact.SetEnabled(cfg.Privacy.RedactPII)

	obs, flush, err := buildObserver(cfg)
	if err != nil {
		log.Error("observer setup failed", "error", err)
		os.Exit(1)
	}
	defer flush()

	adapter, err := geoagent.DefaultProviders().BuildLLM(cfg.Vendors.LLM.Provider, cfg)
	if err != nil {
		log.Error("llm provider setup failed", "error", err)
		os.Exit(1)
	}

	prompt := geo.SystemPrompt
	if cfg.Agent.SystemPrompt != "" {
		prompt = cfg.Agent.SystemPrompt
	}

	dispatcher := agent.New(adapter, geo.NewCatalog(), agent.Options{
		SystemPrompt: prompt,
		ChatAction:   geo.ChatAction,
	}, logging.NewComponentLogger(log, "dispatcher"), obs)

	serverCfg := cfg.Server
	if serverCfg.Title == "" {
		serverCfg.Title = "GeoAI Agent"
	}
	server := httpapi.New(serverCfg, dispatcher, logging.NewComponentLogger(log, "httpapi"), obs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	life := runner.NewLifecycleRunner("GEOAGENT", server, runner.Hooks{
		OnStart: func() {
			go func() {
				if err := server.Start(ctx); err != nil {
					log.Error("http transport failed", "error", err)
					stop()
				}
			}()
		},
		OnStop: func() {
			if err := server.Stop(); err != nil {
				log.Warn("shutdown incomplete", "error", err)
			}
		},
	}, 10*time.Second)

	log.Info("starting geo agent",
		"environment", cfg.Environment,
		"provider", cfg.Vendors.LLM.Provider,
		"addr", serverCfg.ServerAddr)

	if err := life.Run(ctx); err != nil {
		log.Error("runner exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("geo agent stopped")
}

// buildObserver wires metric recording to a JSONL file under the configured
// artifacts directory, or to a no-op when none is set.
func buildObserver(cfg geoagent.Config) (metrics.Observer, func(), error) {
	dir := cfg.Observability.ArtifactsDir
	if dir == "" {
		return metrics.NoopObserver{}, func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create artifacts dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "metrics.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open metrics file: %w", err)
	}
	async := metrics.NewAsyncObserver(metrics.NewJSONLObserver(f), 1024)
	return async, func() {
		async.Close()
		_ = f.Close()
	}, nil
}
