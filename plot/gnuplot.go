package plot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/drunplot/drunplot/trace"
)

// DefaultXRangeMax is the upper bound of the x-axis (call index).
const DefaultXRangeMax = 1000

// gnuplotTemplate is the fixed rendering configuration. $PLOTS, $COLUMN_IDX,
// $YLABEL and $XRANGE are substituted per metric; everything else (terminal,
// palette, grid, borders) is constant.
const gnuplotTemplate = `
set terminal png notransparent rounded giant font "JetBrains Mono" 24 \
  size 1200,960

set xtics nomirror
set ytics nomirror

set style line 80 lt 0 lc rgb "#808080"

set border 3 back ls 80

set style line 81 lt 0 lc rgb "#808080" lw 0.5

set grid xtics
set grid ytics
set grid mxtics
set grid mytics

set grid back ls 81

set style line 1 lt 1 lc rgb "#A00000" lw 2 pt 7 ps 1.5
set style line 2 lt 1 lc rgb "#00A000" lw 2 pt 11 ps 1.5
set style line 3 lt 1 lc rgb "#5060D0" lw 2 pt 9 ps 1.5
set style line 4 lt 1 lc rgb "#0000A0" lw 2 pt 8 ps 1.5
set style line 5 lt 1 lc rgb "#D0D000" lw 2 pt 13 ps 1.5
set style line 6 lt 1 lc rgb "#00D0D0" lw 2 pt 12 ps 1.5
set style line 7 lt 1 lc rgb "#B200B2" lw 2 pt 5 ps 1.5

set datafile separator ','

set xlabel "call"
set ylabel "$YLABEL"

set xrange [0:$XRANGE]

plot $PLOTS
`

// Gnuplot renders plots by piping a filled-in script into a gnuplot
// subprocess and capturing its stdout as PNG bytes.
type Gnuplot struct {
	bin       string
	xRangeMax int
}

// NewGnuplot returns a Gnuplot renderer with the given x-axis upper bound.
// A non-positive bound falls back to DefaultXRangeMax.
func NewGnuplot(xRangeMax int) *Gnuplot {
	if xRangeMax <= 0 {
		xRangeMax = DefaultXRangeMax
	}
	return &Gnuplot{bin: "gnuplot", xRangeMax: xRangeMax}
}

// plotDefs builds one series clause per artifact, in artifact order. The
// clauses keep the $COLUMN_IDX placeholder so the per-metric index is
// substituted afterwards.
func plotDefs(series []Series) string {
	clauses := make([]string, 0, len(series))
	for _, s := range series {
		clauses = append(clauses,
			fmt.Sprintf(`"%s" using ($0+1):$COLUMN_IDX with linespoints title "%s", `, s.Path, s.Title))
	}
	return strings.Join(clauses, " ")
}

// Script fills the template for one metric. plotDefs output uses $COLUMN_IDX
// so $PLOTS must be substituted before $COLUMN_IDX.
func (g *Gnuplot) Script(series []Series, metric trace.Metric) string {
	script := strings.ReplaceAll(gnuplotTemplate, "$PLOTS", plotDefs(series))
	script = strings.ReplaceAll(script, "$COLUMN_IDX", strconv.Itoa(metric.Column))
	script = strings.ReplaceAll(script, "$YLABEL", metric.AxisLabel())
	script = strings.ReplaceAll(script, "$XRANGE", strconv.Itoa(g.xRangeMax))
	return script
}

// Render spawns gnuplot, feeds it the script on stdin and returns whatever
// it wrote to stdout. gnuplot's stderr goes straight to the operator's
// terminal and its exit status is not inspected; only a failure to launch
// the process is an error.
func (g *Gnuplot) Render(series []Series, metric trace.Metric) ([]byte, error) {
	var out bytes.Buffer

	cmd := exec.Command(g.bin, "-p")
	cmd.Stdin = strings.NewReader(g.Script(series, metric))
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("spawn gnuplot: %w", err)
		}
		// Diagnostics already went to the terminal via stderr.
	}
	return out.Bytes(), nil
}
