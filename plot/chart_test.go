package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drunplot/drunplot/trace"
)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}

// transformedFixture writes a trace CSV and runs it through the transformer.
func transformedFixture(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	artifact, err := trace.AddCumulativeColumns(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(artifact) })
	return artifact
}

func TestChartRender_ProducesPNGPerMetric(t *testing.T) {
	// GIVEN two transformed artifacts
	a := transformedFixture(t,
		"a,b,i,p,d,w",
		"x,y,10,1,0,5",
		"x,y,20,2,1,6",
		"x,y,15,3,2,7",
	)
	b := transformedFixture(t,
		"a,b,i,p,d,w",
		"x,y,5,2,1,4",
		"x,y,25,4,2,5",
		"x,y,10,6,3,6",
	)
	series := []Series{{Path: a, Title: "Simple scheduling"}, {Path: b, Title: "Smart scheduling"}}
	c := NewChart()

	// WHEN every catalog metric is rendered
	for _, m := range trace.Catalog() {
		png, err := c.Render(series, m)

		// THEN the output is a PNG
		require.NoError(t, err, m.Name)
		require.True(t, len(png) > len(pngMagic), m.Name)
		assert.Equal(t, pngMagic, png[:len(pngMagic)], m.Name)
	}
}

func TestChartRender_SingleRowTrace(t *testing.T) {
	// GIVEN a trace with exactly one data row, which the gnuplot backend accepts
	artifact := transformedFixture(t,
		"a,b,i,p,d,w",
		"x,y,10,1,0,5",
	)
	series := []Series{{Path: artifact, Title: "Simple scheduling"}}
	c := NewChart()

	// WHEN every catalog metric is rendered
	for _, m := range trace.Catalog() {
		png, err := c.Render(series, m)

		// THEN the chart backend accepts it too
		require.NoError(t, err, m.Name)
		require.True(t, len(png) > len(pngMagic), m.Name)
		assert.Equal(t, pngMagic, png[:len(pngMagic)], m.Name)
	}
}

func TestChartRender_MissingArtifact(t *testing.T) {
	c := NewChart()
	series := []Series{{Path: filepath.Join(t.TempDir(), "gone.csv"), Title: "Simple scheduling"}}

	_, err := c.Render(series, trace.Metric{Name: "instructions", Column: 3})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Simple scheduling")
}
