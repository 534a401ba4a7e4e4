package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/config"
	"github.com/gorustyt/udmfnav/pipeline"
)

const usage = `usage: udmfnav [-config config.yaml] [-log level] <command> [map]

commands:
  list           list the maps in wadspath
  preview <map>  write the preview scene and map config as JSON
  build <map>    build the navmesh of a map into meshpath
  watch <map>    rebuild a map whenever its WAD or config changes
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "udmfnav:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("udmfnav", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	cfgPath := fs.String("config", "config.yaml", "master config")
	logLevel := fs.String("log", "", "log level, overrides the config")
	out := fs.String("o", "", "preview output file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	master, err := config.LoadMaster(*cfgPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		master.Log.Level = *logLevel
	}
	log, err := common.NewLogger(master.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "list" {
		maps, err := master.Maps()
		if err != nil {
			return err
		}
		for _, m := range maps {
			fmt.Fprintln(stdout, m)
		}
		return nil
	}
	if len(rest) != 1 {
		fs.Usage()
		return fmt.Errorf("%s needs one map name", cmd)
	}
	name := config.LevelName(rest[0])

	var vox pipeline.Voxelizer
	if cmd == "build" || cmd == "watch" {
		if vox, err = pipeline.NewVoxelizer(master.Voxelizer, log); err != nil {
			return err
		}
	}
	p := pipeline.New(master, vox, log)

	switch cmd {
	case "preview":
		w := stdout
		if *out != "" {
			f, cerr := os.Create(*out)
			if cerr != nil {
				return cerr
			}
			defer multierr.AppendInvoke(&err, multierr.Close(f))
			w = f
		}
		err = p.Preview(name, w)
	case "build":
		var cfg *config.Map
		if cfg, err = p.MapConfig(name); err == nil {
			_, err = p.BuildNavMesh(ctx, name, cfg)
		}
	case "watch":
		if _, err = os.Stat(master.WadPath(name)); errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", pipeline.ErrUnknownLevel, name)
			break
		}
		err = p.Watch(ctx, name, nil)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	if errors.Is(err, pipeline.ErrUnknownLevel) {
		if s := suggest(master, name); len(s) > 0 {
			err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
		}
	}
	if err != nil {
		log.Error("command failed", zap.String("command", cmd), zap.String("map", name), zap.Error(err))
	}
	return err
}

// suggest returns up to three map names close to name.
func suggest(master *config.Master, name string) []string {
	maps, err := master.Maps()
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range fuzzy.Find(name, maps) {
		out = append(out, m.Str)
		if len(out) == 3 {
			break
		}
	}
	return out
}
