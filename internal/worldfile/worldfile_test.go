package worldfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Brackenhold/internal/game"
)

const sampleWorld = `<?xml version="1.0"?>
<world>
  <welcome-message>Welcome to Brackenhold.</welcome-message>
  <goodbye-message>Farewell.</goodbye-message>
  <room>
    <name>Limbo</name>
    <description>A grey nothing.</description>
  </room>
  <room>
    <name>Hall</name>
    <description>A long hall.</description>
    <door>
      <name>arch</name>
      <description>A mossy arch.</description>
      <target>Garden</target>
    </door>
    <item>
      <name>key</name>
      <description>A small iron key.</description>
      <synonym>iron</synonym>
      <command verb="unlock">message The lock clicks open.</command>
    </item>
    <game-character>
      <name>Ada</name>
      <description>A traveller.</description>
      <hp>7</hp>
      <xp>3</xp>
      <location>2</location>
    </game-character>
  </room>
  <room>
    <name>Garden</name>
    <description>Roses climb the walls.</description>
  </room>
</world>
`

func TestDecodeReadsDocument(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleWorld))
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Brackenhold.", doc.Welcome)
	require.Len(t, doc.Rooms, 3)
	hall := doc.Rooms[1]
	require.Len(t, hall.Doors, 1)
	assert.Equal(t, "Garden", hall.Doors[0].Target)
	require.Len(t, hall.Items, 1)
	assert.Equal(t, []string{"iron"}, hall.Items[0].Synonyms)
	assert.Equal(t, game.CommandRecord{Verb: "unlock", Script: "message The lock clicks open."}, hall.Items[0].Commands[0])
	require.Len(t, hall.Characters, 1)
	assert.Equal(t, 2, hall.Characters[0].Location)
	require.NotNil(t, hall.Characters[0].HitPoints)
	assert.Equal(t, 7, *hall.Characters[0].HitPoints)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader("<world><room>"))
	assert.ErrorContains(t, err, "worldfile: decode")
}

func TestEncodeBuildsSameWorld(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleWorld))
	require.NoError(t, err)
	w, warnings := game.Build(doc, nil)
	assert.Empty(t, warnings)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, w.Export()))
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))

	again, err := Decode(&buf)
	require.NoError(t, err)
	rebuilt, warnings := game.Build(again, nil)
	assert.Empty(t, warnings)
	assert.Equal(t, w.Export(), rebuilt.Export())
}

func TestDirSavesTimestampedFiles(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "saves"))
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

	dir.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, dir.Save(&game.Document{Welcome: "newer"}))
	dir.now = func() time.Time { return base }
	require.NoError(t, dir.Save(&game.Document{Welcome: "older"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir.Path(), "notes.txt"), []byte("x"), 0o644))

	names, err := dir.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"world-20240301-120000.xml", "world-20240301-120100.xml"}, names)

	doc, err := dir.Latest()
	require.NoError(t, err)
	assert.Equal(t, "newer", doc.Welcome)

	leftovers, err := filepath.Glob(filepath.Join(dir.Path(), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLatestWithoutSaves(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "missing"))

	_, err := dir.Latest()
	require.ErrorIs(t, err, ErrNoSaves)
	assert.True(t, errors.Is(err, game.ErrEmptyArchive))
}

func TestWorldSaveAndRestoreThroughDir(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleWorld))
	require.NoError(t, err)
	w, _ := game.Build(doc, nil)
	w.AttachArchive(NewDir(t.TempDir()))

	require.NoError(t, w.Save())
	w.CreateRoom("Cellar", "Dark.")
	require.NoError(t, w.Restore())
	assert.Equal(t, 3, w.RoomCount())
	assert.Equal(t, "Welcome to Brackenhold.", w.Welcome())
}
