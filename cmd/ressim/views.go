package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ressim/internal/compute"
	"github.com/san-kum/ressim/internal/config"
	"github.com/san-kum/ressim/internal/engine"
	"github.com/san-kum/ressim/internal/storage"
)

var (
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	statusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusBad = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))
)

func pressureUnit(u string) string {
	if u == "si" {
		return "Pa"
	}
	return "kgf/cm²"
}

func timeUnit(u string) string {
	if u == "si" {
		return "s"
	}
	return "d"
}

func row(name, v string) string {
	return label.Render(fmt.Sprintf("%-14s", name)) + value.Render(v)
}

func printSummary(cfg *config.Config, c *config.Case, result *engine.Result, runID string, elapsed time.Duration) {
	u := string(c.Units)
	pf := c.Units.PressureFactor()
	tf := c.Units.TimeFactor()

	status := statusOK.Render(result.Status.String())
	if result.Status != engine.Completed {
		status = statusBad.Render(result.Status.String())
	}

	mean := result.MeanPressure[len(result.MeanPressure)-1] / pf
	lines := []string{
		title.Render(cfg.Name) + "  " + status,
		"",
		row("backend", result.Backend),
		row("steps", fmt.Sprintf("%d", result.Steps)),
		row("time", fmt.Sprintf("%.4g %s", result.Time/tf, timeUnit(u))),
		row("mean p", fmt.Sprintf("%.6g %s", mean, pressureUnit(u))),
		row("wall", elapsed.Round(time.Millisecond).String()),
	}
	if runID != "" {
		lines = append(lines, row("run id", runID))
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		lines = append(lines, "")
	}
	for _, name := range names {
		lines = append(lines, row(name, fmt.Sprintf("%.6g", result.Metrics[name])))
	}
	fmt.Println(panel.Render(strings.Join(lines, "\n")))

	if len(result.MeanPressure) > 2 {
		series := make([]float64, len(result.MeanPressure))
		for i, p := range result.MeanPressure {
			series[i] = p / pf
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("mean pressure (%s)", pressureUnit(u))),
		))
	}
}

func listBackends(cmd *cobra.Command, args []string) error {
	for _, name := range compute.Names() {
		b, err := compute.New(name)
		if err != nil {
			return err
		}
		if cpu, ok := b.(*compute.CPUBackend); ok {
			fmt.Printf("  %-8s %d workers\n", name, cpu.Workers())
			continue
		}
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tUNITS\tBACKEND\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%dx%d\t%s\t%s\t%g %s\n",
			name,
			cfg.Grid.NX, cfg.Grid.NY, cfg.Grid.NZ,
			cfg.Units,
			cfg.Backend,
			cfg.Schedule.Duration, timeUnit(string(cfg.Units)),
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCASE\tTIME\tSTATUS\tSTEPS\tCELLS\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Status,
			run.Steps,
			run.Cells,
			run.Backend,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(h.Times) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s (%s)\n", meta.Case, meta.Status)
	fmt.Printf("samples: %d\n\n", len(h.Times))

	fmt.Println(asciigraph.Plot(h.MeanPressure,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean pressure (%s) over %.4g %s",
			pressureUnit(meta.Units), h.Times[len(h.Times)-1], timeUnit(meta.Units))),
	))
	fmt.Println()

	iters := make([]float64, len(h.Iterations)-1)
	for i, n := range h.Iterations[1:] {
		iters[i] = float64(n)
	}
	if len(iters) > 1 {
		fmt.Println(asciigraph.Plot(iters,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("cg iterations per step"),
		))
	}
	return nil
}
