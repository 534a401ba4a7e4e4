package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/config"
	"github.com/gorustyt/udmfnav/navmesh"
)

var ErrNoSoup = errors.New("pipeline: no polygon soup")

// Voxelizer turns the voxelizer OBJ of a level into polygon soup.
type Voxelizer interface {
	Voxelize(ctx context.Context, level string, obj []byte, cfg *config.Map) (navmesh.Soup, error)
}

// SoupFile serves soup computed ahead of time: <Dir>/<LEVEL>.soup.json, or
// <Dir>/<LEVEL>.obj with one polygon per face.
type SoupFile struct {
	Dir string
}

func (s SoupFile) Voxelize(_ context.Context, level string, _ []byte, _ *config.Map) (navmesh.Soup, error) {
	base := filepath.Join(s.Dir, config.LevelName(level))
	if f, err := os.Open(base + ".soup.json"); err == nil {
		defer f.Close()
		return navmesh.ReadSoupJSON(f)
	}
	f, err := os.Open(base + ".obj")
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s.soup.json or .obj in %s", ErrNoSoup, config.LevelName(level), s.Dir)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return navmesh.ReadSoupOBJ(f)
}

// Command runs an external voxelizer as
//
//	Path Args... <mesh.obj> <settings.json>
//
// and reads soup JSON from its stdout. The settings file holds the map config.
type Command struct {
	Path string
	Args []string

	log *zap.Logger
}

func NewCommand(path string, args []string, log *zap.Logger) *Command {
	return &Command{Path: path, Args: args, log: common.OrNop(log)}
}

func (c *Command) Voxelize(ctx context.Context, level string, obj []byte, cfg *config.Map) (soup navmesh.Soup, err error) {
	dir, err := os.MkdirTemp("", "udmfnav-"+config.LevelName(level))
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(func() error { return os.RemoveAll(dir) }))

	objPath := filepath.Join(dir, "mesh.obj")
	if err := os.WriteFile(objPath, obj, 0o644); err != nil {
		return nil, err
	}
	settings, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	settingsPath := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(settingsPath, settings, 0o644); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, append(append([]string{}, c.Args...), objPath, settingsPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	c.log.Info("running voxelizer", zap.String("cmd", cmd.String()))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("voxelizer %s: %w: %s", c.Path, err, bytes.TrimSpace(stderr.Bytes()))
	}
	if stderr.Len() > 0 {
		c.log.Warn("voxelizer stderr", zap.ByteString("output", bytes.TrimSpace(stderr.Bytes())))
	}
	return navmesh.ReadSoupJSON(&stdout)
}

// NewVoxelizer picks the voxelizer configured in the master config.
func NewVoxelizer(v config.Voxelizer, log *zap.Logger) (Voxelizer, error) {
	switch {
	case v.Command != "":
		return NewCommand(v.Command, v.Args, log), nil
	case v.SoupDir != "":
		return SoupFile{Dir: v.SoupDir}, nil
	}
	return nil, fmt.Errorf("%w: voxelizer needs a command or a soupdir", config.ErrInvalid)
}
