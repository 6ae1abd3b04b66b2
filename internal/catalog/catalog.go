// Package catalog keeps summaries of decoded Marshal files in a bbolt
// database. Entries are msgpack-encoded and keyed by file path.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"rxmarshal/internal/interp"
	"rxmarshal/internal/marshal"
	"rxmarshal/internal/resolve"
)

var bucketFiles = []byte("files")

var ErrNotFound = errors.New("catalog: no such entry")

// MaxSymbols caps Entry.Symbols.
const MaxSymbols = 32

// Entry summarizes one decoded file.
type Entry struct {
	Path     string    `msgpack:"path" json:"path"`
	SHA256   string    `msgpack:"sha256" json:"sha256"`
	Size     int       `msgpack:"size" json:"size"`
	Added    time.Time `msgpack:"added" json:"added"`
	Version  string    `msgpack:"version" json:"version"`
	Mode     string    `msgpack:"mode" json:"mode"`
	Consumed int       `msgpack:"consumed" json:"consumed"`
	Trailing int       `msgpack:"trailing" json:"trailing"`
	RootTag  string    `msgpack:"root_tag" json:"root_tag"`

	Records  int `msgpack:"records" json:"records"`
	MaxDepth int `msgpack:"max_depth" json:"max_depth"`
	Objects  int `msgpack:"objects" json:"objects"`
	Links    int `msgpack:"links" json:"links"`

	Tags        []marshal.TagCount `msgpack:"tags" json:"tags"`
	Symbols     []string           `msgpack:"symbols" json:"symbols"`
	SymbolCount int                `msgpack:"symbol_count" json:"symbol_count"`
	Diagnostics int                `msgpack:"diagnostics" json:"diagnostics"`
}

// Summarize builds the catalog entry for a decoded file. data is the raw
// file content; tbl may be nil, in which case it is built from doc.
func Summarize(path string, data []byte, doc *marshal.Document, tbl *resolve.Table) Entry {
	if tbl == nil {
		tbl = resolve.Build(doc.Root)
	}
	sum := sha256.Sum256(data)
	st := marshal.CountTags(doc.Root)

	syms := interp.Symbols(tbl)
	if len(syms) > MaxSymbols {
		syms = syms[:MaxSymbols]
	}

	return Entry{
		Path:        path,
		SHA256:      hex.EncodeToString(sum[:]),
		Size:        len(data),
		Added:       time.Now().UTC().Truncate(time.Second),
		Version:     fmt.Sprintf("%d.%d", doc.Version[0], doc.Version[1]),
		Mode:        doc.Mode.String(),
		Consumed:    doc.Consumed,
		Trailing:    doc.Trailing,
		RootTag:     doc.Root.Tag.String(),
		Records:     st.Records,
		MaxDepth:    st.MaxDepth,
		Objects:     len(tbl.Objects),
		Links:       st.Links,
		Tags:        st.Sorted(),
		Symbols:     syms,
		SymbolCount: len(tbl.Symbols),
		Diagnostics: len(doc.Diags),
	}
}

// Store is an open catalog database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the catalog at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores e under e.Path, replacing any previous entry.
func (s *Store) Put(e Entry) error {
	if e.Path == "" {
		return fmt.Errorf("catalog: entry has no path")
	}
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("catalog: encode %s: %w", e.Path, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(e.Path), data)
	})
}

// Get returns the entry stored for path.
func (s *Store) Get(path string) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return msgpack.Unmarshal(data, &e)
	})
	return e, err
}

// List returns every entry in path order.
func (s *Store) List() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, v []byte) error {
			var e Entry
			if err := msgpack.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("catalog: decode %s: %w", k, err)
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}
