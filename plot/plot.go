// Package plot renders per-metric comparison plots from transformed trace
// artifacts, either through a gnuplot subprocess or natively with go-chart.
package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/drunplot/drunplot/trace"
)

// Series pairs a transformed trace artifact with the legend title its data
// is plotted under.
type Series struct {
	Path  string // transformed CSV artifact
	Title string // legend title / display name
}

// Renderer draws one plot for a single catalog metric from the given series
// and returns the PNG bytes.
type Renderer interface {
	Render(series []Series, metric trace.Metric) ([]byte, error)
}

// WritePlots renders every metric in catalog order and writes <name>.png
// into outDir, overwriting existing files. Series order is preserved in each
// plot, so legend and color assignment is deterministic run-to-run.
func WritePlots(r Renderer, series []Series, metrics []trace.Metric, outDir string) error {
	for _, m := range metrics {
		logrus.Infof("rendering %s", m.Name)

		png, err := r.Render(series, m)
		if err != nil {
			return fmt.Errorf("render %s: %w", m.Name, err)
		}

		out := filepath.Join(outDir, m.FileName())
		if err := os.WriteFile(out, png, 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	}
	return nil
}
