package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"toru/internal/source"
)

var downloadsBucket = []byte("downloads")

// Entry records one successfully dispatched item.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	Client     string    `json:"client"`
	Size       string    `json:"size"`
	MagnetLink string    `json:"magnet_link"`
	PostLink   string    `json:"post_link"`
	Time       time.Time `json:"time"`
}

// Store keeps the download history in a local bolt database. A nil
// *Store is valid and drops every call, so a disabled history needs no
// branching at the call sites.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(downloadsBucket)
		return createErr
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores one entry per item; re-downloading an item overwrites
// its previous entry.
func (s *Store) Record(items []source.Item, sourceName, clientName string) error {
	if s == nil {
		return nil
	}
	now := time.Now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(downloadsBucket)
		for _, item := range items {
			entry := Entry{
				ID:         item.ID,
				Title:      item.Title,
				Source:     sourceName,
				Client:     clientName,
				Size:       item.Size,
				MagnetLink: item.MagnetLink,
				PostLink:   item.PostLink,
				Time:       now,
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent returns up to limit entries, newest first. limit <= 0 returns
// everything.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if s == nil {
		return nil, nil
	}
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(downloadsBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Time.After(entries[j].Time)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}

// Seen reports whether an item id was ever downloaded.
func (s *Store) Seen(id string) (bool, error) {
	if s == nil {
		return false, nil
	}
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(downloadsBucket).Get([]byte(id)) != nil
		return nil
	})
	return found, err
}
