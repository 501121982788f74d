package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testSeries(t *testing.T, bodies, frames int) *series.Series {
	t.Helper()
	s := series.New(bodies, frames, "kpc")
	pos := make([]r3.Vec, bodies)
	acc := make([]float64, bodies)
	for f := 0; f < frames; f++ {
		for b := 0; b < bodies; b++ {
			pos[b] = r3.Vec{
				X: float64(b) / 7,
				Y: -1e-9 * float64(f+1),
				Z: 123456.789 + float64(f)/3,
			}
			acc[b] = float64(b+1) * 0.1 * float64(f)
		}
		require.NoError(t, s.Append(pos, acc))
	}
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	src := testSeries(t, 4, 3)
	cfg := config.DefaultConfig()
	name, err := st.Save("collision", src, RunInfo{
		Seed:    42,
		Dt:      1e-4,
		Config:  cfg,
		Metrics: map[string]float64{"energy_drift": 0.125, "exclusions": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "collision", name)

	for _, f := range append(tableFiles[:], metaFile, configFile) {
		_, err := os.Stat(filepath.Join(st.Dir(name), f))
		assert.NoError(t, err, f)
	}

	got, meta, err := st.Load(name)
	require.NoError(t, err)

	assert.Equal(t, 4, meta.Bodies)
	assert.Equal(t, 3, meta.Frames)
	assert.Equal(t, "kpc", meta.Unit)
	assert.Equal(t, uint64(42), meta.Seed)
	assert.Equal(t, 1e-4, meta.Dt)
	assert.Equal(t, 0.125, meta.Metrics["energy_drift"])
	assert.Equal(t, 3.0, meta.Metrics["exclusions"])
	assert.False(t, meta.Created.IsZero())

	assert.Equal(t, src.Meta(), got.Meta())
	for f := 0; f < 3; f++ {
		p1, a1, _ := src.Frame(f)
		p2, a2, err := got.Frame(f)
		require.NoError(t, err)
		require.Len(t, p2, len(p1))
		for b := range p1 {
			assert.InEpsilon(t, p1[b].X+1, p2[b].X+1, 1e-12, "frame %d body %d x", f, b)
			assert.InDelta(t, p1[b].Y, p2[b].Y, 1e-21, "frame %d body %d y", f, b)
			assert.InEpsilon(t, p1[b].Z, p2[b].Z, 1e-12, "frame %d body %d z", f, b)
			assert.InDelta(t, a1[b], a2[b], 1e-12, "frame %d body %d acc", f, b)
		}
	}

	loadedCfg, err := st.LoadConfig(name)
	require.NoError(t, err)
	assert.Equal(t, cfg.NumBodies, loadedCfg.NumBodies)
}

func TestStoreGeneratedName(t *testing.T) {
	st := New(t.TempDir())
	name, err := st.Save("", testSeries(t, 2, 1), RunInfo{})
	require.NoError(t, err)
	assert.Contains(t, name, "run_")
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := New(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save("b", testSeries(t, 2, 2), RunInfo{})
	require.NoError(t, err)
	_, err = st.Save("a", testSeries(t, 2, 1), RunInfo{})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	names := []string{runs[0].Name, runs[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestLoadMissingMetadata(t *testing.T) {
	st := New(t.TempDir())
	_, _, err := st.Load("nothing")
	assert.True(t, errors.Is(err, dynamo.ErrMetadata))
}

func TestLoadBadMetadata(t *testing.T) {
	st := New(t.TempDir())
	name, err := st.Save("bad", testSeries(t, 2, 2), RunInfo{})
	require.NoError(t, err)

	ini := "[run]\nbodies = 0\nframes = 2\nunit = \"kpc\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(name), metaFile), []byte(ini), 0644))

	_, _, err = st.Load(name)
	assert.True(t, errors.Is(err, dynamo.ErrMetadata))
}

func TestLoadShortTable(t *testing.T) {
	st := New(t.TempDir())
	name, err := st.Save("short", testSeries(t, 3, 2), RunInfo{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(name), "y.txt"), []byte("1 2\n3 4\n"), 0644))

	_, _, err = st.Load(name)
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	src := testSeries(t, 3, 2)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, src, map[string]float64{"exclusions": 1}))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))

	assert.Equal(t, 3, data.Bodies)
	assert.Equal(t, 2, data.Frames)
	assert.Equal(t, "kpc", data.Unit)
	require.Len(t, data.Data, 2)
	assert.Len(t, data.Data[1].Positions, 3)

	pos, acc, _ := src.Frame(1)
	assert.Equal(t, pos[2].Z, data.Data[1].Positions[2][2])
	assert.Equal(t, acc, data.Data[1].AccMag)
}
