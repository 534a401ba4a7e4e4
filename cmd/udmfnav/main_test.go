package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/udmfnav/config"
	"github.com/gorustyt/udmfnav/level/leveltest"
	"github.com/gorustyt/udmfnav/pipeline"
	"github.com/gorustyt/udmfnav/wad"
)

func writeMaster(t *testing.T) (string, *config.Master) {
	root := t.TempDir()
	m := &config.Master{
		WadsPath:    filepath.Join(root, "wads"),
		ConfigsPath: filepath.Join(root, "configs"),
		MeshPath:    filepath.Join(root, "meshes"),
	}
	m.Log.Level = "error"
	for _, d := range []string{m.WadsPath, m.ConfigsPath, m.MeshPath} {
		require.NoError(t, os.Mkdir(d, 0o755))
	}
	data := wad.Encode("PWAD",
		wad.Entry{Name: "MAP01"},
		wad.Entry{Name: "TEXTMAP", Data: []byte(leveltest.Square().String())},
	)
	require.NoError(t, os.WriteFile(m.WadPath("MAP01"), data, 0o644))
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, m.Save(path))
	return path, m
}

func TestList(t *testing.T) {
	path, _ := writeMaster(t)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", path, "list"}, &out))
	assert.Equal(t, "MAP01\n", out.String())
}

func TestPreviewToFile(t *testing.T) {
	path, m := writeMaster(t)
	dest := filepath.Join(m.MeshPath, "preview.json")
	require.NoError(t, run(context.Background(), []string{"-config", path, "-o", dest, "preview", "map01"}, nil))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"config"`)
}

func TestUnknownMapSuggests(t *testing.T) {
	path, _ := writeMaster(t)
	err := run(context.Background(), []string{"-config", path, "preview", "map1"}, &bytes.Buffer{})
	require.ErrorIs(t, err, pipeline.ErrUnknownLevel)
	assert.Contains(t, err.Error(), "did you mean MAP01")
}

func TestBuildNeedsVoxelizer(t *testing.T) {
	path, _ := writeMaster(t)
	err := run(context.Background(), []string{"-config", path, "build", "map01"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestUsageErrors(t *testing.T) {
	path, _ := writeMaster(t)
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"-config", path}, &out))
	assert.Error(t, run(context.Background(), []string{"-config", path, "preview"}, &out))
	assert.Error(t, run(context.Background(), []string{"-config", path, "explode", "map01"}, &out))
}
