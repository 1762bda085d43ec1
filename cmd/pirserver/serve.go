package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blocklane/pir/config"
	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/lane"
	"github.com/blocklane/pir/logging"
	"github.com/blocklane/pir/rcu"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/server"
)

func serveCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "load every configured lane and serve queries until signalled to stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, envFile)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "pirserver.yaml", "path to the YAML configuration file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file with PIR_ environment overrides")
	return cmd
}

// buildSnapshot loads every lane named in cfg fresh off disk. It is used
// both for the initial load and as server.Reloader's BuildFunc, so a
// reload always reflects a full re-read of every lane's current shard
// files and CRS sidecar, never a partial patch.
func buildSnapshot(cfg *config.Config, rlweParams rlwe.Parameters) (*db.ServerSnapshot, error) {
	mode, err := cfg.LoadModeValue()
	if err != nil {
		return nil, err
	}

	lanes := make(map[string]*db.LaneSnapshot, len(cfg.Lanes))
	for _, lc := range cfg.Lanes {
		crs, err := db.LoadCrsMetadata(lc.CrsPath)
		if err != nil {
			for _, s := range lanes {
				_ = s.Close()
			}
			return nil, fmt.Errorf("pirserver: lane %s: %w", lc.Name, err)
		}

		pirParams, err := cfg.PirParamsFor(rlweParams, crs)
		if err != nil {
			for _, s := range lanes {
				_ = s.Close()
			}
			return nil, fmt.Errorf("pirserver: lane %s: %w", lc.Name, err)
		}

		snap, err := db.Build(lc.ShardDir, pirParams, crs, mode)
		if err != nil {
			for _, s := range lanes {
				_ = s.Close()
			}
			return nil, fmt.Errorf("pirserver: lane %s: %w", lc.Name, err)
		}
		lanes[lc.Name] = snap
	}
	return db.NewServerSnapshot(lanes), nil
}

func runServe(configPath, envFile string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	rlweParams, err := cfg.RlweParameters()
	if err != nil {
		return err
	}

	initial, err := buildSnapshot(cfg, rlweParams)
	if err != nil {
		return err
	}

	cell := rcu.NewCell(initial, func(s *db.ServerSnapshot) {
		if s != nil {
			_ = s.Close()
		}
	})
	defer cell.Close()

	router := lane.NewRouter(cell)
	// lifecycle is what a transport layer calls per request; wiring it
	// here keeps router/log alive for that layer to pick up.
	lifecycle := &server.Lifecycle{Router: router, Log: log}
	_ = lifecycle

	debounce, err := cfg.ReloadDebounceDuration()
	if err != nil {
		return err
	}
	reloader := &server.Reloader{
		Cell:     cell,
		Debounce: debounce,
		Log:      log,
		Build: func() (*db.ServerSnapshot, error) {
			return buildSnapshot(cfg, rlweParams)
		},
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	log.WithField("lanes", len(cfg.Lanes)).Info("pirserver ready")

	for s := range sig {
		switch s {
		case syscall.SIGHUP:
			log.Info("reload triggered")
			reloader.Trigger()
		default:
			log.Info("shutting down")
			return nil
		}
	}
	return nil
}
