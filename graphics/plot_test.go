package graphics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gocst/cst"
	"github.com/notargets/gocst/section"
)

func TestFoilPlot(t *testing.T) {
	s := section.Spec{
		Chord: 1,
		Upper: cst.Coefficients{0.18, 0.15, 0.20, 0.18},
		Lower: cst.Coefficients{-0.15, -0.10, -0.12, -0.05},
	}
	f, err := section.Generate(s, 41, cst.ClusterCos)
	require.NoError(t, err)
	p, err := FoilPlot("foils", []*section.Foil{f, f}, []string{"root"})
	require.NoError(t, err)
	assert.Equal(t, "foils", p.Title.Text)
	assert.InDelta(t, 0., p.X.Min, 1.e-12)
	assert.InDelta(t, 1., p.X.Max, 1.e-12)
	assert.Less(t, p.Y.Min, 0.)
	assert.Greater(t, p.Y.Max, 0.)
	fileName := filepath.Join(t.TempDir(), "foils.png")
	require.NoError(t, Save(p, fileName))
	fi, err := os.Stat(fileName)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
	assert.Error(t, Save(p, filepath.Join(t.TempDir(), "foils")))
}

func TestLeadingEdgePlot(t *testing.T) {
	le := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0.5, Z: 5}, {X: 2, Y: 1.5, Z: 10}}
	{
		p, err := LeadingEdgePlot("sweep", le, PlaneZX)
		require.NoError(t, err)
		assert.Equal(t, "X", p.Y.Label.Text)
		assert.InDelta(t, 10., p.X.Max, 1.e-12)
		assert.InDelta(t, 2., p.Y.Max, 1.e-12)
	}
	{
		p, err := LeadingEdgePlot("dihedral", le, PlaneZY)
		require.NoError(t, err)
		assert.Equal(t, "Y", p.Y.Label.Text)
		assert.InDelta(t, 1.5, p.Y.Max, 1.e-12)
	}
}
