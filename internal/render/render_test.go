package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corona/internal/snapshot"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		Status: snapshot.StatusCompleted,
		Field:  []float64{1, 1.2, 1.5, 1.2, 1},
		Particles: []snapshot.ParticleState{
			{Position: 0.5, Velocity: -0.3},
			{Position: 2.5, Velocity: 0.1},
			{Position: 4.0, Velocity: 0.7},
		},
		Samples: []snapshot.Sample{
			{Time: 0.1, Average: 1.18},
			{Time: 0.2, Average: 1.15},
		},
	}
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	written, err := All(testSnapshot(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, FieldFile),
		filepath.Join(dir, SamplesFile),
		filepath.Join(dir, VelocityFile),
	}, written)
	for _, path := range written {
		requirePNG(t, path)
	}
}

func TestAll_SkipsEmptyCharts(t *testing.T) {
	snap := testSnapshot()
	snap.Samples = nil

	written, err := All(snap, t.TempDir())
	require.NoError(t, err)
	assert.Len(t, written, 2)
}

func TestTimeSeries_SinglePoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")

	err := TimeSeries([]snapshot.Sample{{Time: 10, Average: 1}}, path)
	require.NoError(t, err)
	requirePNG(t, path)
}

func TestCharts_NoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")

	assert.ErrorIs(t, TimeSeries(nil, path), ErrNoData)
	assert.ErrorIs(t, FieldProfile(snapshot.Snapshot{}, path), ErrNoData)
	assert.ErrorIs(t, VelocityHistogram(snapshot.Snapshot{}, path), ErrNoData)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestVelocityHistogram_NoSpread(t *testing.T) {
	snap := testSnapshot()
	snap.Particles = []snapshot.ParticleState{{Velocity: 1}, {Velocity: 1}}

	assert.ErrorIs(t, VelocityHistogram(snap, filepath.Join(t.TempDir(), "v.png")), ErrNoData)
}
