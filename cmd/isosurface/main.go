package main

import (
	"reflect"
	"runtime"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
)

// Keeps config field names intact under obfuscation so cli generates readable options.
var _ = reflect.TypeOf(config{})

type config struct {
	Mode       string  `cli:"" env:"ISOSURFACE_MODE"       help:"Extraction mode (surface|isoline|length)."`
	Shape      string  `cli:"" env:"ISOSURFACE_SHAPE"      help:"Shape to sample (surface: sphere|torus|box|dumbbell, isoline: circle|annulus|box)."`
	Resolution int     `cli:"" env:"ISOSURFACE_RESOLUTION" help:"Number of grid nodes along each axis."`
	Radius     float64 `cli:"" env:"ISOSURFACE_RADIUS"     help:"Characteristic size of the sampled shape."`
	Level      float64 `cli:"" env:"ISOSURFACE_LEVEL"      help:"Level of the extracted isosurface or isoline."`
	Output     string  `cli:"" env:"ISOSURFACE_OUTPUT"     help:"Output file, STL in surface mode and PNG in isoline mode."`
	Preview    string  `cli:"" env:"ISOSURFACE_PREVIEW"    help:"PNG file where a shaded preview of the STL is rendered."`
	Workers    int     `cli:"" env:"ISOSURFACE_WORKERS"    help:"Number of goroutines marching the grid. 0 streams the SDF through the grid renderer."`
	LogLevel   string  `cli:"" env:"ISOSURFACE_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	LogIndent  bool    `cli:"" env:"ISOSURFACE_LOG_INDENT" help:"Indent logs."`
	Help       bool    `cli:"" env:"-"                     help:"Show help."`
}

func main() {
	conf := config{
		Mode:       "surface",
		Resolution: 64,
		Radius:     1,
		Workers:    runtime.NumCPU(),
		LogLevel:   logs.InfoLevel.String(),
	}

	cli.Register().
		Help("Extracts isosurfaces and isolines from sampled signed distance fields.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := validateConfig(&conf); err != nil {
		logs.Fatal(err)
	}
	logs.WithTag("mode", conf.Mode).
		WithTag("shape", conf.Shape).
		WithTag("resolution", conf.Resolution).
		WithTag("level", conf.Level).
		Debug("configuration loaded")

	var err error
	switch conf.Mode {
	case "surface":
		err = runSurface(conf)
	case "isoline":
		err = runIsoline(conf)
	case "length":
		err = runLength(conf)
	}
	if err != nil {
		logs.Fatal(err)
	}
}

// validateConfig checks conf and fills in mode dependent defaults.
func validateConfig(conf *config) error {
	if conf.Resolution < 2 {
		return errors.New("resolution must be at least 2").WithTag("resolution", conf.Resolution)
	}
	if conf.Radius <= 0 {
		return errors.New("radius must be positive").WithTag("radius", conf.Radius)
	}
	if conf.Workers < 0 {
		return errors.New("workers must not be negative").WithTag("workers", conf.Workers)
	}
	switch conf.Mode {
	case "surface":
		conf.Shape = orDefault(conf.Shape, "sphere")
		conf.Output = orDefault(conf.Output, "isosurface.stl")
	case "isoline":
		if conf.Preview != "" {
			return errors.New("preview is only available in surface mode")
		}
		conf.Shape = orDefault(conf.Shape, "circle")
		conf.Output = orDefault(conf.Output, "isoline.png")
	case "length":
		if conf.Level == 0 {
			conf.Level = 0.3
		}
	default:
		return errors.Newf("unknown mode %q", conf.Mode)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
