package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Brackenhold/internal/config"
	"Brackenhold/internal/game"
	"Brackenhold/internal/store"
	"Brackenhold/internal/worldfile"
)

const cleanWorld = `<world>
  <welcome-message>Hello.</welcome-message>
  <goodbye-message>Bye.</goodbye-message>
  <room><name>Limbo</name><description>Grey.</description></room>
  <room>
    <name>Hall</name><description>A hall.</description>
    <door><name>arch</name><description>An arch.</description><target>Limbo</target></door>
  </room>
</world>`

const brokenWorld = `<world>
  <room><name>Limbo</name><description>Grey.</description></room>
  <room>
    <name>Hall</name><description>A hall.</description>
    <hook>func OnEnter(</hook>
    <door><name>arch</name><description>An arch.</description><target>Nowhere</target></door>
  </room>
</world>`

func writeWorld(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckAcceptsCleanWorld(t *testing.T) {
	out, err := execute(t, "check", writeWorld(t, cleanWorld))
	require.NoError(t, err)
	assert.Contains(t, out, "2 rooms, 0 problems")
}

func TestCheckReportsProblems(t *testing.T) {
	out, err := execute(t, "check", writeWorld(t, brokenWorld))
	require.Error(t, err)
	assert.Contains(t, out, "target=Nowhere")
	assert.Contains(t, out, "hook on room Hall")
	assert.Contains(t, out, "2 problems")
}

func TestLoadWorldPrefersLatestSave(t *testing.T) {
	dir := worldfile.NewDir(t.TempDir())
	cfg := config.Default()
	cfg.WorldFile = writeWorld(t, cleanWorld)

	w, err := loadWorld(cfg, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Hello.", w.Welcome())

	w.CreateRoom("Cellar", "Dark.")
	require.NoError(t, dir.Save(w.Export()))
	w, err = loadWorld(cfg, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, w.RoomCount())
}

func TestLoadWorldDefaultsToBareWorld(t *testing.T) {
	w, err := loadWorld(config.Default(), worldfile.NewDir(t.TempDir()), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, w.RoomCount())
	assert.Equal(t, "Welcome to Brackenhold.", w.Welcome())
}

func TestOpenArchiveKinds(t *testing.T) {
	a, closer, err := openArchive(config.Storage{Kind: config.StorageBolt, Path: filepath.Join(t.TempDir(), "world.db")})
	require.NoError(t, err)
	assert.IsType(t, &store.BoltArchive{}, a)
	require.NoError(t, closer.Close())

	a, _, err = openArchive(config.Storage{Kind: config.StorageXML, Path: t.TempDir()})
	require.NoError(t, err)
	var _ game.Archive = a
	assert.IsType(t, &worldfile.Dir{}, a)

	_, _, err = openArchive(config.Storage{Kind: "tape"})
	assert.Error(t, err)
}
