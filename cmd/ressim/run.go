package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/config"
	"github.com/san-kum/ressim/internal/engine"
	"github.com/san-kum/ressim/internal/metrics"
	"github.com/san-kum/ressim/internal/storage"
)

// loadCase resolves the case from --preset, a path argument or --config, in
// that order, and returns it with the directory its relative paths use.
func loadCase(args []string) (*config.Config, string, error) {
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, "", nil
	}

	path := configFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, filepath.Dir(path), nil
}

func runCase(cmd *cobra.Command, args []string) error {
	cfg, baseDir, err := loadCase(args)
	if err != nil {
		return err
	}

	// CLI flags override the case file.
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("dt") {
		cfg.Schedule.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Schedule.Duration = duration
	}
	if flags.Changed("tol") {
		cfg.Schedule.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.Schedule.MaxIter = maxIter
	}

	c, err := cfg.Build(baseDir)
	if err != nil {
		return err
	}
	backend, err := compute.New(c.Backend, compute.WithWorkers(c.Workers))
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithWells(c.Wells...)}
	for _, m := range metrics.Defaults(c.Model.Fluid) {
		opts = append(opts, engine.WithMetric(m))
	}
	eng, err := engine.New(c.Model, backend, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !jsonOut {
		fmt.Printf("running %s (%d cells) on %s backend...\n", cfg.Name, c.Model.NCells(), backend.Name())
	}
	start := time.Now()
	result, runErr := eng.Run(ctx, c.Initial, c.Schedule)
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(cfg, c, result, runErr)
		if err != nil {
			return errors.Join(runErr, err)
		}
		logrus.Infof("stored run %s", runID)
	}

	if jsonOut {
		if err := storage.ExportJSON(os.Stdout, c, result); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	}

	printSummary(cfg, c, result, runID, elapsed)
	return runErr
}

func validateCase(cmd *cobra.Command, args []string) error {
	cfg, baseDir, err := loadCase(args)
	if err != nil {
		return err
	}
	c, err := cfg.Build(baseDir)
	if err != nil {
		return err
	}
	backend, err := compute.New(c.Backend)
	if err != nil {
		return err
	}
	if _, err := engine.New(c.Model, backend, engine.WithWells(c.Wells...)); err != nil {
		return err
	}

	g := c.Model.Grid
	lo, hi := c.Model.Fluid.Range()
	pf := c.Units.PressureFactor()
	fmt.Printf("%s %s\n", statusOK.Render("ok"), cfg.Name)
	fmt.Printf("  grid:  %dx%dx%d, %d of %d cells active\n", g.NX, g.NY, g.NZ, g.ActiveCount(), g.NT)
	fmt.Printf("  pvt:   %d rows, %.4g to %.4g (%s)\n", c.Model.Fluid.Len(), lo/pf, hi/pf, cfg.Units)
	fmt.Printf("  steps: %d\n", stepCount(c.Schedule))
	if len(c.Wells) > 0 {
		fmt.Printf("  wells: %d (not coupled)\n", len(c.Wells))
	}
	return nil
}

func stepCount(s engine.Config) int {
	return int(math.Ceil(s.Duration/s.Dt - 1e-9))
}
