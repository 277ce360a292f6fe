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

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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

type RunMetadata struct {
	ID             string    `json:"id"`
	Scenario       string    `json:"scenario"`
	Timestamp      time.Time `json:"timestamp"`
	Integrator     string    `json:"integrator"`
	Dt             float64   `json:"dt"`
	Steps          int       `json:"steps"`
	BodyIDs        []string  `json:"body_ids"`
	FaultTolerance float64   `json:"fault_tolerance"`
	Recomputes     int       `json:"curve_recomputes"`
	EnergyDrift    float64   `json:"energy_drift"`
}

// Save writes metadata and the sampled trajectory under a new run directory
// and returns the run id.
func (s *Store) Save(meta RunMetadata, trace *sim.Trace) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	if trace == nil || len(trace.Times) == 0 {
		w.Flush()
		return meta.ID, w.Error()
	}

	numBodies := len(trace.Positions[0])
	header := []string{"time", "energy"}
	for i := 0; i < numBodies; i++ {
		header = append(header, fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range trace.Times {
		row := []string{
			strconv.FormatFloat(trace.Times[i], 'f', 6, 64),
			strconv.FormatFloat(trace.Energies[i], 'g', 12, 64),
		}
		for _, p := range trace.Positions[i] {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return meta.ID, w.Error()
}

// List returns all readable runs, oldest first.
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

// LoadTrace reads the trajectory back. Rows that fail to parse are skipped.
// Step and recompute counts come from the run metadata when it is readable.
func (s *Store) LoadTrace(runID string) (*sim.Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &sim.Trace{}
	if meta, err := s.Load(runID); err == nil {
		trace.Steps = meta.Steps
		trace.Recomputes = meta.Recomputes
	}
	if len(records) < 2 {
		return trace, nil
	}

	for _, record := range records[1:] {
		if len(record) < 2 || len(record)%2 != 0 {
			continue
		}

		vals := make([]float64, len(record))
		ok := true
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		pos := make([]r2.Vec, 0, (len(vals)-2)/2)
		for j := 2; j+1 < len(vals); j += 2 {
			pos = append(pos, r2.Vec{X: vals[j], Y: vals[j+1]})
		}

		trace.Times = append(trace.Times, vals[0])
		trace.Energies = append(trace.Energies, vals[1])
		trace.Positions = append(trace.Positions, pos)
	}

	return trace, nil
}
