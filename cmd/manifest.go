package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/drunplot/drunplot/plot"
)

// Renderer backends.
const (
	RendererGnuplot = "gnuplot"
	RendererChart   = "chart"
)

// Input names one drun trace CSV and the legend title its series are
// plotted under.
type Input struct {
	File  string `koanf:"file" yaml:"file"`
	Title string `koanf:"title" yaml:"title"`
}

// Manifest is the run configuration: which traces to plot, where the PNGs
// go, and which renderer draws them.
type Manifest struct {
	Inputs    []Input `koanf:"inputs" yaml:"inputs"`
	OutputDir string  `koanf:"output_dir" yaml:"output_dir"`
	Renderer  string  `koanf:"renderer" yaml:"renderer"`
	XRangeMax int     `koanf:"x_range_max" yaml:"x_range_max"`
}

// LoadManifest merges the YAML manifest (if present) with env vars
// (prefix `DRUNPLOT__`, delimiter `__`). A missing manifest file is fine,
// the defaults apply; a manifest that exists but does not parse is an error.
func LoadManifest(path string) (Manifest, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("load manifest %s: %w", path, err)
		}
	}

	// The callback strips the prefix and lowercases, so DRUNPLOT__RENDERER
	// lands on the `renderer` key; with a nil callback the prefix stays in
	// the key and the override never maps onto the struct.
	_ = k.Load(env.Provider("DRUNPLOT__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DRUNPLOT__"))
	}), nil)

	var m Manifest
	if err := k.Unmarshal("", &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	applyDefaults(&m)

	for i, in := range m.Inputs {
		if in.File == "" {
			return m, fmt.Errorf("manifest input %d has no file", i+1)
		}
		if in.Title == "" {
			return m, fmt.Errorf("manifest input %d (%s) has no title", i+1, in.File)
		}
	}
	if err := validateRenderer(m.Renderer); err != nil {
		return m, err
	}
	return m, nil
}

// applyDefaults fills unset fields; the default input pair matches the
// trace files drun's scheduling benchmarks emit.
func applyDefaults(m *Manifest) {
	if len(m.Inputs) == 0 {
		m.Inputs = []Input{
			{File: "master_copying_gc.csv", Title: "Simple scheduling"},
			{File: "scheduling.csv", Title: "Smart scheduling"},
		}
	}
	if m.OutputDir == "" {
		m.OutputDir = "."
	}
	if m.Renderer == "" {
		m.Renderer = RendererGnuplot
	}
	if m.XRangeMax == 0 {
		m.XRangeMax = plot.DefaultXRangeMax
	}
}

func validateRenderer(name string) error {
	if name != RendererGnuplot && name != RendererChart {
		return fmt.Errorf("unknown renderer %q (want %q or %q)", name, RendererGnuplot, RendererChart)
	}
	return nil
}

// WriteDefaultManifest writes a starter manifest with the default inputs to
// path. It refuses to overwrite an existing file.
func WriteDefaultManifest(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("manifest %s already exists", path)
	}

	var m Manifest
	applyDefaults(&m)
	data, err := yamlv3.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}
