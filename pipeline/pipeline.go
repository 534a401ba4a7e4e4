// Package pipeline runs the stages in order: WAD, UDMF, level, floor planes,
// scenes, voxelizer, navmesh and export.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/config"
	"github.com/gorustyt/udmfnav/floorplane"
	"github.com/gorustyt/udmfnav/level"
	"github.com/gorustyt/udmfnav/navmesh"
	"github.com/gorustyt/udmfnav/scene"
	"github.com/gorustyt/udmfnav/udmf"
	"github.com/gorustyt/udmfnav/wad"
	"github.com/gorustyt/udmfnav/zone"
)

var ErrUnknownLevel = errors.New("pipeline: unknown level")

// Output file names inside meshpath.
const (
	ZoneJSONExt   = ".json"
	ZoneBinaryExt = ".navbin"
	PreviewOBJ    = "navprev.obj"
)

type Pipeline struct {
	Master    *config.Master
	Voxelizer Voxelizer

	log *zap.Logger
}

func New(master *config.Master, vox Voxelizer, log *zap.Logger) *Pipeline {
	return &Pipeline{Master: master, Voxelizer: vox, log: common.OrNop(log)}
}

// LoadLevel reads the level's WAD and builds the level model from its TEXTMAP.
func (p *Pipeline) LoadLevel(name string) (*level.Level, error) {
	path := p.Master.WadPath(name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, config.LevelName(name))
	}
	w, err := wad.Open(path)
	if err != nil {
		return nil, err
	}
	text, err := w.TextMap()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc, err := udmf.NewParser(p.log).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return level.New(doc, p.log)
}

// GetLevel builds the voxelizer and preview scenes of a level.
func (p *Pipeline) GetLevel(name string) (*scene.Scenes, error) {
	lvl, err := p.LoadLevel(name)
	if err != nil {
		return nil, err
	}
	g, err := floorplane.NewGroup(lvl, p.log)
	if err != nil {
		return nil, err
	}
	return scene.Build(g, p.log), nil
}

// MapConfig loads the level config, creating the default one if needed.
func (p *Pipeline) MapConfig(name string) (*config.Map, error) {
	return config.LoadMap(p.Master.MapConfigPath(name), p.log)
}

type previewDoc struct {
	Scene  *scene.Scene `json:"scene"`
	Config *config.Map  `json:"config"`
}

// Preview writes the preview scene together with the level config as JSON.
func (p *Pipeline) Preview(name string, w io.Writer) error {
	scenes, err := p.GetLevel(name)
	if err != nil {
		return err
	}
	cfg, err := p.MapConfig(name)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(previewDoc{Scene: scenes.Preview, Config: cfg})
}

// Result is what a navmesh build produced.
type Result struct {
	Mesh    *navmesh.Mesh
	Zone    *zone.Zone
	Preview *scene.Scene
}

// BuildNavMesh runs every stage for a level with cfg and writes
// <LEVEL>.json, <LEVEL>.navbin and navprev.obj to meshpath. cfg is saved as
// the level config afterwards.
func (p *Pipeline) BuildNavMesh(ctx context.Context, name string, cfg *config.Map) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := p.log.With(zap.String("level", config.LevelName(name)))
	scenes, err := p.GetLevel(name)
	if err != nil {
		return nil, err
	}
	if cfg.MergeDistance > 0 {
		scenes.Nav.Root.Walk(func(o *scene.Object, _ scene.Transform) {
			if o.Mesh != nil {
				o.Mesh.MergeVertices(cfg.MergeDistance)
			}
		})
	}

	var obj bytes.Buffer
	if err := scene.WriteOBJ(&obj, scenes.Nav); err != nil {
		return nil, err
	}
	soup, err := p.Voxelizer.Voxelize(ctx, name, obj.Bytes(), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("polygon soup ready", zap.Int("polygons", len(soup)))

	mesh, err := navmesh.NewBuilder(log).Build(soup, navmesh.Markers(scenes.Nav))
	if err != nil {
		return nil, err
	}
	res := &Result{
		Mesh:    mesh,
		Zone:    zone.Build(mesh, log),
		Preview: mesh.Preview(cfg.Strategy()),
	}

	if err := writeFile(p.Master.MeshFile(name, ZoneJSONExt), func(w io.Writer) error {
		return zone.WriteJSON(w, res.Zone)
	}); err != nil {
		return nil, err
	}
	if err := os.WriteFile(p.Master.MeshFile(name, ZoneBinaryExt), zone.Encode(res.Zone), 0o644); err != nil {
		return nil, err
	}
	if err := writeFile(p.previewPath(), func(w io.Writer) error {
		return navmesh.WritePreviewOBJ(w, res.Preview)
	}); err != nil {
		return nil, err
	}
	if err := cfg.Save(p.Master.MapConfigPath(name)); err != nil {
		return nil, err
	}
	log.Info("navmesh written", zap.String("dir", p.Master.MeshPath))
	return res, nil
}

func (p *Pipeline) previewPath() string {
	return filepath.Join(p.Master.MeshPath, PreviewOBJ)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return write(f)
}
