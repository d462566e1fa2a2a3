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

	"github.com/okuno/cellsim/internal/cell"
)

// Store persists solve runs under a base directory, one subdirectory
// per run holding metadata.json and solution.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Chemistry   string             `json:"chemistry"`
	Solver      string             `json:"solver"`
	CRate       float64            `json:"c_rate"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	TEnd        float64            `json:"t_end"`
	Termination string             `json:"termination"`
	Event       string             `json:"event,omitempty"`
	Summary     map[string]float64 `json:"summary"`
	Outputs     []string           `json:"outputs"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(meta RunMetadata, sol *cell.Solution) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	outputs := make([]string, 0, len(sol.Outputs))
	for name := range sol.Outputs {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Termination = sol.Termination
	meta.Event = sol.Event
	meta.Summary = sol.Summary
	meta.Outputs = outputs

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "solution.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(sol.Times) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	header = append(header, outputs...)
	for i := range sol.States[0] {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range sol.Times {
		row := []string{strconv.FormatFloat(sol.Times[i], 'g', 10, 64)}
		for _, name := range outputs {
			row = append(row, strconv.FormatFloat(sol.Outputs[name][i], 'g', 10, 64))
		}
		for _, val := range sol.States[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Export copies a run's solution CSV to a destination path.
func (s *Store) Export(runID, dest string) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "solution.csv"))
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

// LoadSeries reads a named column and the times from a saved run.
func (s *Store) LoadSeries(runID, name string) ([]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "solution.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	col := -1
	for i, h := range records[0] {
		if h == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, nil, fmt.Errorf("%w: %q in run %s", cell.ErrUnknownVariable, name, runID)
	}

	times := make([]float64, 0, len(records)-1)
	values := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) <= col {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		values = append(values, v)
	}
	return times, values, nil
}
