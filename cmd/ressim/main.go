package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	logLevel    string
	configFile  string
	preset      string
	backendName string
	workers     int
	dt          float64
	duration    float64
	tolerance   float64
	maxIter     int
	jsonOut     bool
	noSave      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ressim",
		Short:        "single-phase reservoir pressure simulator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				logrus.Fatalf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ressim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [case.yaml]",
		Short: "run a case",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCase,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "case file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a built-in case")
	runCmd.Flags().StringVar(&backendName, "backend", "serial", "array backend")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker count for the cpu backend (0 = all cores)")
	runCmd.Flags().Float64Var(&dt, "dt", 1, "timestep in case time units")
	runCmd.Flags().Float64Var(&duration, "time", 30, "duration in case time units")
	runCmd.Flags().Float64Var(&tolerance, "tol", 1e-5, "relative CG tolerance")
	runCmd.Flags().IntVar(&maxIter, "max-iter", 0, "CG iteration limit (0 = 10 x cells)")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the result as JSON to stdout")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	validateCmd := &cobra.Command{
		Use:   "validate [case.yaml]",
		Short: "check a case without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateCase,
	}
	validateCmd.Flags().StringVar(&configFile, "config", "", "case file path (yaml)")
	validateCmd.Flags().StringVar(&preset, "preset", "", "use a built-in case")

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list array backends",
		RunE:  listBackends,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in cases",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the pressure history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, validateCmd, backendsCmd, presetsCmd, listCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
