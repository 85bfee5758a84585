// dicetool is a headless CLI for inspecting, exporting and rolling dice.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/dicetray/internal/config"
	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/collision"
	"github.com/Faultbox/dicetray/internal/engine/debug"
	"github.com/Faultbox/dicetray/internal/engine/model"
	"github.com/Faultbox/dicetray/internal/engine/outcome"
	"github.com/Faultbox/dicetray/internal/engine/texture"
	"github.com/Faultbox/dicetray/internal/export"
	"github.com/Faultbox/dicetray/internal/logger"
	"github.com/Faultbox/dicetray/internal/table"
	"github.com/Faultbox/dicetray/internal/tray"
	dmath "github.com/Faultbox/dicetray/pkg/math"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "roll":
		err = cmdRoll(os.Stdout, args)
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "export":
		err = cmdExport(os.Stdout, args)
	case "faces":
		err = cmdFaces(os.Stdout, args)
	case "presets":
		err = cmdPresets(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stdout)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `dicetool - polyhedral dice utility

Usage:
  dicetool <command> [options]

Commands:
  roll [-seed N] [-preset name] [pool]   Throw dice on a simulated tray
  info [type...]                         Show model and hull statistics
  export [-o dir] [-scale s] <type|all>  Write binary glTF models
  faces [-o dir] [-size px] <type>       Write face textures and show values
  presets [-config file]                 List dice presets

Examples:
  dicetool roll 2d6+d20
  dicetool roll -preset Yahtzee
  dicetool info d10 d12
  dicetool export -o models all
  dicetool faces -o faces d4`)
}

func usage(fs *flag.FlagSet, line string) error {
	fmt.Fprintln(fs.Output(), "Usage: dicetool "+line)
	fs.PrintDefaults()
	return errUsage
}

func cmdRoll(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("roll", flag.ContinueOnError)
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	preset := fs.String("preset", "", "Roll a named preset")
	limit := fs.Duration("timeout", 30*time.Second, "Simulated time limit")
	cfgPath := fs.String("config", "", "Path to config file")
	verbose := fs.Bool("v", false, "Log simulation events to stderr")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			return err
		}
		defer logger.Sync()
	}

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		return err
	}

	switch {
	case *preset != "":
		p, ok, err := cfg.FindPreset(*preset)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown preset %q", *preset)
		}
		cfg.Tray.Dice = dice.DescribePool(p.Dice)
	case fs.NArg() > 0:
		cfg.Tray.Dice = strings.Join(fs.Args(), "+")
	default:
		return usage(fs, "roll [options] <pool>")
	}

	opts := table.Options{}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}
	tb, err := table.New(cfg, opts)
	if err != nil {
		return err
	}
	results, err := tb.Roll(*limit)
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(w, "  %-4s %d\n", r.Type, r.Value)
	}
	fmt.Fprintf(w, "Total: %d\n", tray.Total(results))
	return nil
}

func cmdInfo(w io.Writer, args []string) error {
	types := dice.Types
	if len(args) > 0 {
		types = nil
		for _, a := range args {
			t, err := dice.Parse(a)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
	}

	fmt.Fprintf(w, "%-5s %6s %10s %9s %8s %8s  %s\n",
		"type", "faces", "triangles", "hull", "radius", "volume", "values")
	for _, t := range types {
		m, err := model.Get(t)
		if err != nil {
			return err
		}
		shape, err := collision.For(t)
		if err != nil {
			return err
		}
		values := make([]string, len(m.Faces))
		for i, f := range m.Faces {
			values[i] = fmt.Sprint(f.Value)
		}
		fmt.Fprintf(w, "%-5s %6d %10d %9s %8.3f %8.3f  %s\n",
			t, len(m.Faces), len(m.Triangles),
			fmt.Sprintf("%s/%d", shape.Kind, len(shape.Vertices)),
			m.BoundingRadius(), shape.Volume(), strings.Join(values, " "))
	}
	return nil
}

func cmdExport(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	outDir := fs.String("o", ".", "Output directory")
	scale := fs.Float64("scale", 1, "Uniform scale applied to positions")
	size := fs.Int("size", texture.DefaultSize, "Face texture size in pixels")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		return usage(fs, "export [options] <type|all>")
	}

	types, err := parseTypes(fs.Args())
	if err != nil {
		return err
	}

	for _, t := range types {
		m, err := model.Get(t)
		if err != nil {
			return err
		}
		d := dice.MustLookup(t)
		path := filepath.Join(*outDir, t.String()+".glb")
		opts := export.Options{
			Style: texture.Style{Size: *size, Background: d.Color, Foreground: d.TextColor},
			Scale: *scale,
		}
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		if err := export.Save(path, m, opts); err != nil {
			return fmt.Errorf("exporting %v: %w", t, err)
		}
		fmt.Fprintf(w, "Exported: %s\n", path)
	}
	return nil
}

func cmdFaces(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("faces", flag.ContinueOnError)
	outDir := fs.String("o", "", "Write face textures to this directory")
	size := fs.Int("size", texture.DefaultSize, "Face texture size in pixels")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return usage(fs, "faces [options] <type>")
	}
	t, err := dice.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	m, err := model.Get(t)
	if err != nil {
		return err
	}
	d := dice.MustLookup(t)
	style := texture.Style{Size: *size, Background: d.Color, Foreground: d.TextColor}

	// Each face is turned toward the reading direction and read back.
	normals := m.FaceNormals()
	up := mgl64.Vec3{0, 1, 0}
	if d.InvertResult {
		up = mgl64.Vec3{0, -1, 0}
	}
	fmt.Fprintf(w, "%-5s %6s %26s  %s\n", "face", "value", "normal", "reads")
	for i, f := range m.Faces {
		q := dmath.RotationTo(normals[i], up)
		read := outcome.ReadModel(m, q)
		n := normals[i]
		fmt.Fprintf(w, "%-5d %6d  (%7.4f, %7.4f, %7.4f)  %d\n", i, f.Value, n[0], n[1], n[2], read)

		if *outDir == "" {
			continue
		}
		img, err := texture.FaceStyled(t, i, style)
		if err != nil {
			return err
		}
		path := filepath.Join(*outDir, fmt.Sprintf("%s_face%02d.png", t, i))
		if err := debug.WritePNG(path, img); err != nil {
			return err
		}
	}
	if *outDir != "" {
		fmt.Fprintf(w, "Wrote %d textures to %s\n", len(m.Faces), *outDir)
	}
	return nil
}

func cmdPresets(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		return err
	}
	all, err := cfg.AllPresets()
	if err != nil {
		return err
	}
	for i, p := range all {
		fmt.Fprintf(w, "%2d  %-20s %s\n", i+1, p.Name, dice.DescribePool(p.Dice))
	}
	return nil
}

func parseTypes(args []string) ([]dice.Type, error) {
	if len(args) == 1 && args[0] == "all" {
		return dice.Types, nil
	}
	var out []dice.Type
	for _, a := range args {
		t, err := dice.Parse(a)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
