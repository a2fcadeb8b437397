// Package worldfile reads and writes XML world documents. A Dir keeps one
// timestamped document per save and restores from the newest.
package worldfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"Brackenhold/internal/game"
)

const stampLayout = "20060102-150405"

var saveName = regexp.MustCompile(`^world-\d{8}-\d{6}\.xml$`)

// ErrNoSaves is returned by Latest when the directory holds no saves.
var ErrNoSaves = fmt.Errorf("worldfile: no save files: %w", game.ErrEmptyArchive)

// Decode reads one XML world document from r.
func Decode(r io.Reader) (*game.Document, error) {
	doc := new(game.Document)
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("worldfile: decode: %w", err)
	}
	return doc, nil
}

// Encode writes doc to w as indented XML with a declaration.
func Encode(w io.Writer, doc *game.Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("worldfile: encode: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("worldfile: encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("worldfile: encode: %w", err)
	}
	return nil
}

// ReadFile decodes the document at path.
func ReadFile(path string) (*game.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("worldfile: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile replaces the document at path through a temporary file, so a
// failed write never leaves a truncated world behind.
func WriteFile(path string, doc *game.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("worldfile: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "world-*.tmp")
	if err != nil {
		return fmt.Errorf("worldfile: create temp file: %w", err)
	}
	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("worldfile: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("worldfile: replace %s: %w", path, err)
	}
	return nil
}

// Dir is a game.Archive holding world-YYYYMMDD-HHMMSS.xml files. Two saves
// within the same second share a name and the later one wins.
type Dir struct {
	path string
	now  func() time.Time
}

// NewDir returns an archive rooted at path. The directory is created on the
// first save.
func NewDir(path string) *Dir {
	return &Dir{path: path, now: time.Now}
}

// Path returns the archive directory.
func (d *Dir) Path() string { return d.path }

// Save writes doc as a new timestamped document.
func (d *Dir) Save(doc *game.Document) error {
	name := "world-" + d.now().Format(stampLayout) + ".xml"
	return WriteFile(filepath.Join(d.path, name), doc)
}

// Latest decodes the newest document in the directory.
func (d *Dir) Latest() (*game.Document, error) {
	names, err := d.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoSaves
	}
	return ReadFile(filepath.Join(d.path, names[len(names)-1]))
}

// List returns the save file names, oldest first. A missing directory holds
// no saves.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("worldfile: read %s: %w", d.path, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && saveName.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
