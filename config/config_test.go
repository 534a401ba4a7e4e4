package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterIn(t *testing.T) *Master {
	root := t.TempDir()
	m := &Master{
		WadsPath:    filepath.Join(root, "wads"),
		ConfigsPath: filepath.Join(root, "configs"),
		MeshPath:    filepath.Join(root, "meshes"),
	}
	for _, d := range []string{m.WadsPath, m.ConfigsPath, m.MeshPath} {
		require.NoError(t, os.Mkdir(d, 0o755))
	}
	return m
}

func TestMasterRoundTrip(t *testing.T) {
	m := masterIn(t)
	m.Voxelizer.Command = "recast-cli"
	m.Log.Level = "debug"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, m.Save(path))

	got, err := LoadMaster(path)
	require.NoError(t, err)
	assert.Equal(t, m.Voxelizer.Command, got.Voxelizer.Command)
	assert.Equal(t, m.WadsPath, got.WadsPath)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestMasterValidateReportsEveryPath(t *testing.T) {
	m := masterIn(t)
	m.WadsPath = ""
	m.MeshPath = filepath.Join(m.MeshPath, "missing")
	err := m.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "wadspath is not set")
	assert.Contains(t, err.Error(), "meshpath")
	assert.NotContains(t, err.Error(), "configspath")
}

func TestPaths(t *testing.T) {
	m := &Master{WadsPath: "w", ConfigsPath: "c", MeshPath: "o"}
	assert.Equal(t, "MAP01", LevelName(" map01 "))
	assert.Equal(t, filepath.Join("w", "MAP01.wad"), m.WadPath("map01"))
	assert.Equal(t, filepath.Join("c", "MAP01.yaml"), m.MapConfigPath("Map01"))
	assert.Equal(t, filepath.Join("o", "MAP01.json"), m.MeshFile("map01", ".json"))
}

func TestMaps(t *testing.T) {
	m := masterIn(t)
	for _, name := range []string{"map01.wad", "E1M1.WAD", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(m.WadsPath, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(m.WadsPath, "old.wad"), 0o755))
	maps, err := m.Maps()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"MAP01", "E1M1"}, maps)
}

func TestLoadMapWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MAP01.yaml")
	c, err := LoadMap(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, string(data))

	c.Triangulation = "earcut"
	c.Solo = false
	require.NoError(t, c.Save(path))
	again, err := LoadMap(path, nil)
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestStrategyAlias(t *testing.T) {
	c := Default()
	c.Triangulation = "libtess"
	assert.NoError(t, c.Validate())
	assert.Equal(t, "tess", c.Strategy())
}

func TestMapValidate(t *testing.T) {
	c := Default()
	c.Triangulation = "voronoi"
	c.Options.CellSize = 0
	c.Options.AgentMaxSlope = 90
	c.MergeDistance = -1
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{"voronoi", "cellSize", "agentMaxSlope", "merge_distance"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadMapRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MAP01.yaml")
	require.NoError(t, os.WriteFile(path, []byte("options: [1, 2"), 0o644))
	_, err := LoadMap(path, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}
