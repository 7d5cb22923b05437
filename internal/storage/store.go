// Package storage persists benchmark runs: one directory per run with
// metadata JSON and a per-tick CSV series.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/voxelphys/internal/phys"
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
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Bodies    int                `json:"bodies"`
	Duration  float64            `json:"duration"`
	Ticks     int                `json:"ticks"`
	Workers   int                `json:"workers"`
	Metrics   map[string]float64 `json:"metrics"`
}

// TickSample is one row of the per-tick series.
type TickSample struct {
	Tick     int
	Entities int
	Stats    phys.TickStats
}

var seriesHeader = []string{
	"tick", "entities", "pairs", "manifolds", "contacts", "dropped",
	"broad_us", "narrow_us", "resolve_us", "integrate_us",
}

func (s *Store) Save(meta RunMetadata, samples []TickSample) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Ticks = len(samples)

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "ticks.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return "", err
	}

	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Tick),
			strconv.Itoa(sm.Entities),
			strconv.Itoa(sm.Stats.CandidatePairs),
			strconv.Itoa(sm.Stats.Manifolds),
			strconv.Itoa(sm.Stats.Contacts),
			strconv.Itoa(sm.Stats.DroppedContacts),
			strconv.FormatInt(sm.Stats.BroadPhaseMicros, 10),
			strconv.FormatInt(sm.Stats.NarrowPhaseMicros, 10),
			strconv.FormatInt(sm.Stats.ResolveMicros, 10),
			strconv.FormatInt(sm.Stats.IntegrateMicros, 10),
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
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
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSeries(runID string) ([]TickSample, error) {
	csvPath := filepath.Join(s.baseDir, runID, "ticks.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(seriesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []TickSample{}, nil
	}

	samples := make([]TickSample, 0, len(records)-1)
	for _, record := range records[1:] {
		ints := make([]int64, len(record))
		bad := false
		for i, field := range record {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				bad = true
				break
			}
			ints[i] = v
		}
		if bad {
			continue
		}

		samples = append(samples, TickSample{
			Tick:     int(ints[0]),
			Entities: int(ints[1]),
			Stats: phys.TickStats{
				CandidatePairs:    int(ints[2]),
				Manifolds:         int(ints[3]),
				Contacts:          int(ints[4]),
				DroppedContacts:   int(ints[5]),
				BroadPhaseMicros:  ints[6],
				NarrowPhaseMicros: ints[7],
				ResolveMicros:     ints[8],
				IntegrateMicros:   ints[9],
			},
		})
	}

	return samples, nil
}
