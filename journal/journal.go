// Package journal persists an audit trail of reconcile runs in a local
// bbolt database. Every pass is recorded whether it changed anything or
// not, so idempotent no-op runs stay visible.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/aurorec/aurorec/plan"
	"github.com/aurorec/aurorec/types"
)

var runsBucket = []byte("runs")

// RunRecord is one reconcile pass over one entity.
type RunRecord struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Entity     types.EntityKind `json:"entity"`
	EntityID   string           `json:"entity_id"`
	Changed    bool             `json:"changed"`
	State      plan.EntityState `json:"state"`
	Operations []string         `json:"operations,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Store is a bbolt-backed journal.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the journal at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create runs bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends a run. A missing RunID is assigned; keys order records by
// finish time so listing newest-first is a reverse scan.
func (s *Store) Record(record RunRecord) (string, error) {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).Put(key(record), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}
	return record.RunID, nil
}

// List returns the most recent runs, newest first. A zero limit means all,
// entityID narrows to one entity when non-empty.
func (s *Store) List(entityID string, limit int) ([]RunRecord, error) {
	var records []RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(runsBucket).Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			var record RunRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("corrupt run record: %w", err)
			}
			if entityID != "" && record.EntityID != entityID {
				continue
			}
			records = append(records, record)
			if limit > 0 && len(records) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// key is finish-time nanos followed by the run id, unique and time-ordered.
func key(record RunRecord) []byte {
	k := make([]byte, 8, 8+len(record.RunID))
	binary.BigEndian.PutUint64(k, uint64(record.FinishedAt.UnixNano()))
	return append(k, record.RunID...)
}
