package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	seriesFile   = "series.csv"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Variant     string             `json:"variant"`
	Timestamp   time.Time          `json:"timestamp"`
	RNG         string             `json:"rng"`
	Seed        int64              `json:"seed"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Count       int                `json:"count"`
	Increment   float64            `json:"increment"`
	Mode        string             `json:"mode"`
	Stepper     string             `json:"stepper"`
	Threshold   int                `json:"threshold"`
	Frames      int                `json:"frames"`
	Stride      int                `json:"stride"`
	Resets      int                `json:"resets"`
	ResetFrames []int              `json:"reset_frames,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh directory and returns its ID. Frame and
// reset counts are taken from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runID, runDir, err := s.allocate(meta.Variant, meta.Timestamp)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Frames = result.Frames
	meta.Resets = result.Resets
	meta.Metrics = result.Metrics
	meta.ResetFrames = append([]int(nil), result.ResetFrames...)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Snapshots); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result.Series); err != nil {
		return "", err
	}

	return runID, nil
}

// allocate creates the run directory, suffixing the ID when a run with the
// same variant was saved in the same second.
func (s *Store) allocate(variant string, ts time.Time) (string, string, error) {
	if variant == "" {
		variant = "run"
	}
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", variant, ts.Unix())
	for n := 1; ; n++ {
		id := base
		if n > 1 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFrames(path string, snaps []orbit.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "index", "x", "y", "vx", "vy"}); err != nil {
		return err
	}
	for _, snap := range snaps {
		frame := strconv.Itoa(snap.Frame)
		for i, o := range snap.Orbiters {
			row := []string{
				frame,
				strconv.Itoa(i),
				formatFloat(o.Pos.X),
				formatFloat(o.Pos.Y),
				formatFloat(o.Vel.X),
				formatFloat(o.Vel.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, series map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := seriesNames(series)
	rows := 0
	for _, name := range names {
		rows = max(rows, len(series[name]))
	}

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			vals := series[name]
			if i < len(vals) {
				row = append(row, formatFloat(vals[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadFrames rebuilds the recorded snapshots of a run. A snapshot is flagged
// as reset when any reset in the run metadata falls after the previous
// recorded frame and at or before its own.
func (s *Store) LoadFrames(runID string) ([]orbit.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	snaps := make([]orbit.Snapshot, 0)
	for line, record := range records {
		if line == 0 || len(record) < 6 {
			continue
		}
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+1, err)
		}
		vals := make([]float64, 4)
		for k := range vals {
			vals[k], err = strconv.ParseFloat(record[2+k], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, line+1, err)
			}
		}

		if len(snaps) == 0 || snaps[len(snaps)-1].Frame != frame {
			prev := -1
			if len(snaps) > 0 {
				prev = snaps[len(snaps)-1].Frame
			}
			snaps = append(snaps, orbit.Snapshot{Frame: frame, Reset: resetIn(meta.ResetFrames, prev, frame)})
		}
		last := &snaps[len(snaps)-1]
		last.Orbiters = append(last.Orbiters, orbit.Orbiter{
			Pos: orbit.Vec2{X: vals[0], Y: vals[1]},
			Vel: orbit.Vec2{X: vals[2], Y: vals[3]},
		})
	}

	return snaps, nil
}

// resetIn reports whether any of the sorted frames lies in (after, upTo].
func resetIn(frames []int, after, upTo int) bool {
	i := sort.SearchInts(frames, after+1)
	return i < len(frames) && frames[i] <= upTo
}

// LoadSeries returns the per-frame metric series of a run keyed by name.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	series := make(map[string][]float64)
	if len(records) == 0 {
		return series, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		series[name] = make([]float64, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for col := 1; col < len(record) && col < len(header); col++ {
			if record[col] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				continue
			}
			series[header[col]] = append(series[header[col]], v)
		}
	}

	return series, nil
}

type runExport struct {
	Metadata  *RunMetadata         `json:"metadata"`
	Snapshots []orbit.Snapshot     `json:"snapshots"`
	Series    map[string][]float64 `json:"series"`
}

// ExportJSON writes a run's metadata, snapshots and series as one document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{Metadata: meta, Snapshots: snaps, Series: series})
}
