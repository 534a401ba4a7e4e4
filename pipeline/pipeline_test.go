package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/common"
	"github.com/gorustyt/udmfnav/config"
	"github.com/gorustyt/udmfnav/level/leveltest"
	"github.com/gorustyt/udmfnav/navmesh"
	"github.com/gorustyt/udmfnav/scene"
	"github.com/gorustyt/udmfnav/wad"
	"github.com/gorustyt/udmfnav/zone"
)

func testSoup() navmesh.Soup {
	sq := func(ref int, x, z float64) navmesh.Polygon {
		return navmesh.Polygon{Ref: ref, Vertices: []common.Vec3{
			{x, 0, z}, {x + 2, 0, z}, {x + 2, 0, z + 2}, {x, 0, z + 2},
		}}
	}
	return navmesh.Soup{sq(0, 0, -2), sq(1, 2, -2)}
}

type fixture struct {
	master  *config.Master
	soupDir string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		master: &config.Master{
			WadsPath:    filepath.Join(root, "wads"),
			ConfigsPath: filepath.Join(root, "configs"),
			MeshPath:    filepath.Join(root, "meshes"),
		},
		soupDir: filepath.Join(root, "soup"),
	}
	for _, d := range []string{f.master.WadsPath, f.master.ConfigsPath, f.master.MeshPath, f.soupDir} {
		require.NoError(t, os.Mkdir(d, 0o755))
	}
	f.writeWad(t)

	sf, err := os.Create(filepath.Join(f.soupDir, "MAP01.soup.json"))
	require.NoError(t, err)
	require.NoError(t, navmesh.WriteSoupJSON(sf, testSoup()))
	require.NoError(t, sf.Close())
	return f
}

func (f *fixture) writeWad(t *testing.T) {
	data := wad.Encode("PWAD",
		wad.Entry{Name: "MAP01"},
		wad.Entry{Name: "TEXTMAP", Data: []byte(leveltest.Adjacent().String())},
		wad.Entry{Name: "ENDMAP"},
	)
	require.NoError(t, os.WriteFile(f.master.WadPath("MAP01"), data, 0o644))
}

func (f *fixture) pipeline(v Voxelizer) *Pipeline {
	if v == nil {
		v = SoupFile{Dir: f.soupDir}
	}
	return New(f.master, v, nil)
}

func TestGetLevel(t *testing.T) {
	f := setup(t)
	scenes, err := f.pipeline(nil).GetLevel("map01")
	require.NoError(t, err)
	floors := scenes.Nav.Find(scene.NameFloors)
	require.NotNil(t, floors)
	assert.Equal(t, 6, floors.Mesh.TriangleCount())
	assert.NotNil(t, scenes.Preview.Find(scene.NameWallsSolid))
}

func TestUnknownLevel(t *testing.T) {
	f := setup(t)
	_, err := f.pipeline(nil).GetLevel("MAP02")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNoTextMap(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.WriteFile(f.master.WadPath("MAP03"), wad.Encode("PWAD", wad.Entry{Name: "MAP03"}), 0o644))
	_, err := f.pipeline(nil).GetLevel("MAP03")
	assert.ErrorIs(t, err, wad.ErrNoTextMap)
}

func TestPreview(t *testing.T) {
	f := setup(t)
	var buf bytes.Buffer
	require.NoError(t, f.pipeline(nil).Preview("map01", &buf))

	var doc struct {
		Scene  json.RawMessage `json:"scene"`
		Config config.Map      `json:"config"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, *config.Default(), doc.Config)
	assert.Contains(t, string(doc.Scene), `"walls.preview"`)
	assert.FileExists(t, f.master.MapConfigPath("MAP01"))
}

type recordingVoxelizer struct {
	obj  []byte
	soup navmesh.Soup
}

func (r *recordingVoxelizer) Voxelize(_ context.Context, _ string, obj []byte, _ *config.Map) (navmesh.Soup, error) {
	r.obj = obj
	return r.soup, nil
}

func TestBuildNavMesh(t *testing.T) {
	f := setup(t)
	rec := &recordingVoxelizer{soup: testSoup()}
	p := f.pipeline(rec)
	cfg := config.Default()
	cfg.Triangulation = "earcut"

	res, err := p.BuildNavMesh(context.Background(), "map01", cfg)
	require.NoError(t, err)
	assert.Contains(t, string(rec.obj), "o floors\n")
	assert.Len(t, res.Zone.Nodes, 2)
	assert.Equal(t, 1, res.Zone.Groups)

	jf, err := os.Open(f.master.MeshFile("MAP01", ZoneJSONExt))
	require.NoError(t, err)
	defer jf.Close()
	fromJSON, err := zone.ReadJSON(jf)
	require.NoError(t, err)
	assert.Equal(t, res.Zone, fromJSON)

	bin, err := os.ReadFile(f.master.MeshFile("MAP01", ZoneBinaryExt))
	require.NoError(t, err)
	fromBin, err := zone.Decode(bin)
	require.NoError(t, err)
	assert.Equal(t, res.Zone, fromBin)

	obj, err := os.ReadFile(filepath.Join(f.master.MeshPath, PreviewOBJ))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(obj), "o navmesh\n"))

	saved, err := config.LoadMap(f.master.MapConfigPath("MAP01"), nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
}

func TestBuildNavMeshRejectsConfig(t *testing.T) {
	f := setup(t)
	cfg := config.Default()
	cfg.Options.CellSize = -1
	_, err := f.pipeline(nil).BuildNavMesh(context.Background(), "map01", cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSoupFile(t *testing.T) {
	f := setup(t)
	soup, err := SoupFile{Dir: f.soupDir}.Voxelize(context.Background(), "map01", nil, nil)
	require.NoError(t, err)
	assert.Len(t, soup, 2)

	obj := "v 0 0 0\nv 1 0 0\nv 1 0 1\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.soupDir, "MAP02.obj"), []byte(obj), 0o644))
	soup, err = SoupFile{Dir: f.soupDir}.Voxelize(context.Background(), "map02", nil, nil)
	require.NoError(t, err)
	assert.Len(t, soup, 1)

	_, err = SoupFile{Dir: f.soupDir}.Voxelize(context.Background(), "map09", nil, nil)
	assert.ErrorIs(t, err, ErrNoSoup)
}

func TestCommand(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh")
	}
	f := setup(t)
	soupPath := filepath.Join(f.soupDir, "MAP01.soup.json")
	// $0 is the mesh, $1 the settings.
	script := `test -s "$0" && grep -q cellSize "$1" && cat "` + soupPath + `"`
	p := f.pipeline(NewCommand(sh, []string{"-c", script}, nil))
	res, err := p.BuildNavMesh(context.Background(), "map01", config.Default())
	require.NoError(t, err)
	assert.Len(t, res.Mesh.Nodes, 2)

	failing := NewCommand(sh, []string{"-c", "echo broken >&2; exit 3"}, nil)
	_, err = failing.Voxelize(context.Background(), "map01", []byte("o x\n"), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestNewVoxelizer(t *testing.T) {
	v, err := NewVoxelizer(config.Voxelizer{Command: "recast-cli", SoupDir: "x"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Command{}, v)

	v, err = NewVoxelizer(config.Voxelizer{SoupDir: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, SoupFile{Dir: "x"}, v)

	_, err = NewVoxelizer(config.Voxelizer{}, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestWatchRebuilds(t *testing.T) {
	f := setup(t)
	old := WatchDelay
	WatchDelay = 20 * time.Millisecond
	defer func() { WatchDelay = old }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan error, 4)
	stopped := make(chan error, 1)
	go func() {
		stopped <- f.pipeline(nil).Watch(ctx, "MAP01", func(_ *Result, err error) { results <- err })
	}()

	// Give the watcher time to register before touching the WAD.
	time.Sleep(100 * time.Millisecond)
	f.writeWad(t)

	select {
	case err := <-results:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("no rebuild after the WAD changed")
	}
	assert.FileExists(t, f.master.MeshFile("MAP01", ZoneJSONExt))

	cancel()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
