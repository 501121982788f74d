// Package storage persists recorded runs as a metadata record plus four
// body×frame tables, one directory per run.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/phil-mansfield/table"
	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/series"
	"gopkg.in/gcfg.v1"
)

const (
	metaFile   = "meta.ini"
	configFile = "config.yaml"
)

// tableFiles lists the per-run tables in X, Y, Z, Acc order.
var tableFiles = [4]string{"x.txt", "y.txt", "z.txt", "acc.txt"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(name string) string {
	return filepath.Join(s.baseDir, name)
}

// Meta is the run record stored in meta.ini.
type Meta struct {
	Name    string
	Bodies  int
	Frames  int
	Unit    string
	Seed    uint64
	Dt      float64
	Created time.Time
	Metrics map[string]float64
}

// RunInfo carries what Save records next to the series.
type RunInfo struct {
	Seed    uint64
	Dt      float64
	Config  *config.Config
	Metrics map[string]float64
}

type iniRecord struct {
	Run struct {
		Bodies  int
		Frames  int
		Unit    string
		Seed    uint64
		Dt      float64
		Created string
	}
	Metrics struct {
		Momentum   float64
		Energy     float64
		Exclusions float64
		Peak       float64
	}
}

var iniMetricKeys = [][2]string{
	{"momentum", "momentum_drift"},
	{"energy", "energy_drift"},
	{"exclusions", "exclusions"},
	{"peak", "peak_acceleration"},
}

// Save writes the series under name. An empty name picks run_<unix time>.
func (s *Store) Save(name string, ser *series.Series, info RunInfo) (string, error) {
	now := time.Now()
	if name == "" {
		name = fmt.Sprintf("run_%d", now.Unix())
	}
	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	tables := ser.Export()
	if err := writeMeta(filepath.Join(dir, metaFile), tables.Meta, info, now); err != nil {
		return "", err
	}

	for i, tab := range [4][][]float64{tables.X, tables.Y, tables.Z, tables.Acc} {
		if err := writeTable(filepath.Join(dir, tableFiles[i]), tab); err != nil {
			return "", fmt.Errorf("write %s: %w", tableFiles[i], err)
		}
	}

	if info.Config != nil {
		if err := config.Save(filepath.Join(dir, configFile), info.Config); err != nil {
			return "", err
		}
	}

	return name, nil
}

// LoadMeta reads only the metadata record of a run.
func (s *Store) LoadMeta(name string) (*Meta, error) {
	var rec iniRecord
	path := filepath.Join(s.Dir(name), metaFile)
	if err := gcfg.ReadFileInto(&rec, path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrMetadata, path, err)
	}

	meta := &Meta{
		Name:   name,
		Bodies: rec.Run.Bodies,
		Frames: rec.Run.Frames,
		Unit:   rec.Run.Unit,
		Seed:   rec.Run.Seed,
		Dt:     rec.Run.Dt,
		Metrics: map[string]float64{
			"momentum_drift":    rec.Metrics.Momentum,
			"energy_drift":      rec.Metrics.Energy,
			"exclusions":        rec.Metrics.Exclusions,
			"peak_acceleration": rec.Metrics.Peak,
		},
	}
	if t, err := time.Parse(time.RFC3339, rec.Run.Created); err == nil {
		meta.Created = t
	}
	if meta.Bodies <= 0 || meta.Frames <= 0 {
		return nil, fmt.Errorf("%w: %s: bodies=%d frames=%d", dynamo.ErrMetadata, path, meta.Bodies, meta.Frames)
	}
	return meta, nil
}

// Load reads a run back into a series. The metadata is read first and
// sizes the table reads.
func (s *Store) Load(name string) (*series.Series, *Meta, error) {
	meta, err := s.LoadMeta(name)
	if err != nil {
		return nil, nil, err
	}

	colIdxs := make([]int, meta.Frames)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	var grids [4][][]float64
	for i, file := range tableFiles {
		cols, err := table.ReadTable(filepath.Join(s.Dir(name), file), colIdxs, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", file, err)
		}
		grids[i], err = transpose(cols, meta.Bodies)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", file, err)
		}
	}

	ser, err := series.Import(series.Tables{
		Meta: series.Meta{Bodies: meta.Bodies, Frames: meta.Frames, Unit: meta.Unit},
		X:    grids[0],
		Y:    grids[1],
		Z:    grids[2],
		Acc:  grids[3],
	})
	if err != nil {
		return nil, nil, err
	}
	return ser, meta, nil
}

// LoadConfig returns the configuration snapshot saved with a run.
func (s *Store) LoadConfig(name string) (*config.Config, error) {
	return config.Load(filepath.Join(s.Dir(name), configFile), nil)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	runs := make([]Meta, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.LoadMeta(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Created.Equal(runs[j].Created) {
			return runs[i].Name < runs[j].Name
		}
		return runs[i].Created.Before(runs[j].Created)
	})
	return runs, nil
}

func writeMeta(path string, m series.Meta, info RunInfo, created time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "[run]")
	fmt.Fprintf(w, "bodies = %d\n", m.Bodies)
	fmt.Fprintf(w, "frames = %d\n", m.Frames)
	fmt.Fprintf(w, "unit = %s\n", strconv.Quote(m.Unit))
	fmt.Fprintf(w, "seed = %d\n", info.Seed)
	fmt.Fprintf(w, "dt = %s\n", strconv.FormatFloat(info.Dt, 'g', -1, 64))
	fmt.Fprintf(w, "created = %s\n", strconv.Quote(created.Format(time.RFC3339)))

	if len(info.Metrics) > 0 {
		fmt.Fprintln(w, "\n[metrics]")
		for _, k := range iniMetricKeys {
			if v, ok := info.Metrics[k[1]]; ok {
				fmt.Fprintf(w, "%s = %s\n", k[0], strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writeTable(path string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, 0, 32)
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				w.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			w.Write(buf)
		}
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// transpose turns column-major table output into [body][frame] rows.
func transpose(cols [][]float64, bodies int) ([][]float64, error) {
	rows := make([][]float64, bodies)
	for b := range rows {
		rows[b] = make([]float64, len(cols))
	}
	for f, col := range cols {
		if len(col) != bodies {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", dynamo.ErrShapeMismatch, f, len(col), bodies)
		}
		for b, v := range col {
			rows[b][f] = v
		}
	}
	return rows, nil
}
