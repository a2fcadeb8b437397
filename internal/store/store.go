// Package store keeps world snapshots in a bbolt database. Every snapshot is
// a BLAKE2b-256 digest followed by the JSON document it covers.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	bbolt "go.etcd.io/bbolt"

	"Brackenhold/internal/game"
)

var bucketSnapshots = []byte("snapshots")

var (
	// ErrEmpty is returned by Latest when no snapshot has been saved.
	ErrEmpty = fmt.Errorf("store: no snapshots: %w", game.ErrEmptyArchive)
	// ErrChecksum is returned when a snapshot does not match its digest.
	ErrChecksum = errors.New("store: snapshot checksum mismatch")
)

// BoltArchive is a game.Archive backed by a bbolt file. Keys are big-endian
// unix-nano save times, so the last key is the newest snapshot.
type BoltArchive struct {
	bolt *bbolt.DB
	now  func() time.Time
}

// Snapshot describes one stored world.
type Snapshot struct {
	Saved  time.Time
	Size   int
	Digest string
}

// Open opens or creates the database at path.
func Open(path string) (*BoltArchive, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &BoltArchive{bolt: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (a *BoltArchive) Close() error {
	if a.bolt != nil {
		return a.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the database.
func (a *BoltArchive) Path() string {
	return a.bolt.Path()
}

// Save stores doc as a new snapshot.
func (a *BoltArchive) Save(doc *game.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	sum := blake2b.Sum256(payload)
	value := make([]byte, 0, len(sum)+len(payload))
	value = append(value, sum[:]...)
	value = append(value, payload...)

	return a.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		stamp := a.now().UnixNano()
		// Saves within the same nanosecond still get distinct, ordered keys.
		for b.Get(timeToKey(stamp)) != nil {
			stamp++
		}
		if err := b.Put(timeToKey(stamp), value); err != nil {
			return fmt.Errorf("store: put snapshot: %w", err)
		}
		return nil
	})
}

// Latest returns the newest snapshot.
func (a *BoltArchive) Latest() (*game.Document, error) {
	var doc *game.Document
	err := a.bolt.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket(bucketSnapshots).Cursor().Last()
		if k == nil {
			return ErrEmpty
		}
		payload, err := verify(v)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", keyToTime(k).Format(time.RFC3339), err)
		}
		doc = new(game.Document)
		if err := json.Unmarshal(payload, doc); err != nil {
			return fmt.Errorf("store: decode snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns every snapshot, oldest first.
func (a *BoltArchive) List() ([]Snapshot, error) {
	var out []Snapshot
	err := a.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).ForEach(func(k, v []byte) error {
			snap := Snapshot{Saved: keyToTime(k)}
			if len(v) >= blake2b.Size256 {
				snap.Size = len(v) - blake2b.Size256
				snap.Digest = hex.EncodeToString(v[:blake2b.Size256])
			}
			out = append(out, snap)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	return out, nil
}

// verify splits a stored value and checks its digest. The returned payload
// is copied out of the bbolt page.
func verify(value []byte) ([]byte, error) {
	if len(value) < blake2b.Size256 {
		return nil, ErrChecksum
	}
	digest, payload := value[:blake2b.Size256], value[blake2b.Size256:]
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(digest, sum[:]) {
		return nil, ErrChecksum
	}
	return append([]byte(nil), payload...), nil
}

// timeToKey converts a unix-nano timestamp to an 8-byte big-endian key.
func timeToKey(nanos int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(nanos))
	return buf
}

func keyToTime(b []byte) time.Time {
	return time.Unix(0, int64(binary.BigEndian.Uint64(b)))
}
