package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ressim/internal/config"
	"github.com/san-kum/ressim/internal/engine"
)

const (
	metadataFile = "metadata.json"
	caseFile     = "case.yaml"
	historyFile  = "pressure.csv"
	fieldFile    = "field.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is written next to every run. Times and pressures are in the
// case's unit system.
type RunMetadata struct {
	ID        string             `json:"id"`
	Case      string             `json:"case"`
	Units     string             `json:"units"`
	Timestamp time.Time          `json:"timestamp"`
	Backend   string             `json:"backend"`
	Status    string             `json:"status"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Time      float64            `json:"time"`
	Steps     int                `json:"steps"`
	Cells     int                `json:"cells"`
	Active    int                `json:"active"`
	Metrics   map[string]float64 `json:"metrics"`
	Error     string             `json:"error,omitempty"`
}

// Save writes the case file, metadata, pressure history and final field of
// a run and returns the run id. runErr is recorded when the run stopped early.
func (s *Store) Save(cfg *config.Config, c *config.Case, result *engine.Result, runErr error) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	pf := c.Units.PressureFactor()
	tf := c.Units.TimeFactor()
	g := c.Model.Grid

	meta := RunMetadata{
		ID:        runID,
		Case:      cfg.Name,
		Units:     string(c.Units),
		Timestamp: now,
		Backend:   result.Backend,
		Status:    result.Status.String(),
		Dt:        cfg.Schedule.Dt,
		Duration:  cfg.Schedule.Duration,
		Time:      result.Time / tf,
		Steps:     result.Steps,
		Cells:     g.NT,
		Active:    g.ActiveCount(),
		Metrics:   result.Metrics,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, caseFile), cfg); err != nil {
		return "", err
	}

	// Row 0 is the initial state, solved by no iterations.
	history := [][]string{{"time", "mean_pressure", "cg_iterations"}}
	for i := range result.Times {
		iters := 0
		if i > 0 {
			iters = result.Iterations[i-1]
		}
		history = append(history, []string{
			formatFloat(result.Times[i] / tf),
			formatFloat(result.MeanPressure[i] / pf),
			strconv.Itoa(iters),
		})
	}
	if err := writeCSV(filepath.Join(runDir, historyFile), history); err != nil {
		return "", err
	}

	field := [][]string{{"cell", "i", "j", "k", "active", "pressure"}}
	for n, p := range result.Pressure {
		i, j, k := g.Coords(n)
		field = append(field, []string{
			strconv.Itoa(n), strconv.Itoa(i), strconv.Itoa(j), strconv.Itoa(k),
			strconv.FormatBool(g.Active(n)),
			formatFloat(p / pf),
		})
	}
	if err := writeCSV(filepath.Join(runDir, fieldFile), field); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadCase(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, caseFile))
}

// History is the per-step record of a run in case units.
type History struct {
	Times        []float64
	MeanPressure []float64
	Iterations   []int
}

func (s *Store) LoadHistory(runID string) (*History, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}

	h := &History{}
	for n, record := range records {
		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: want 3 fields, got %d", historyFile, n+2, len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", historyFile, n+2, err)
		}
		p, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", historyFile, n+2, err)
		}
		it, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", historyFile, n+2, err)
		}
		h.Times = append(h.Times, t)
		h.MeanPressure = append(h.MeanPressure, p)
		h.Iterations = append(h.Iterations, it)
	}
	return h, nil
}

// LoadField returns the final pressure of every cell in case units.
func (s *Store) LoadField(runID string) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, err
	}

	field := make([]float64, len(records))
	for n, record := range records {
		if len(record) < 6 {
			return nil, fmt.Errorf("%s line %d: want 6 fields, got %d", fieldFile, n+2, len(record))
		}
		p, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", fieldFile, n+2, err)
		}
		field[n] = p
	}
	return field, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

// readCSV returns the data rows, header dropped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
