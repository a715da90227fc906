package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketPasses   = []byte("passes")
	bucketVersions = []byte("versions")

	keyPlanVersion    = []byte("plan")
	keyCurrentVersion = []byte("current")
)

// BoltJournal implements Journal using bbolt
type BoltJournal struct {
	db *bolt.DB
}

// NewBoltJournal creates a new bbolt-backed journal
func NewBoltJournal(dataDir string) (*BoltJournal, error) {
	dbPath := filepath.Join(dataDir, "maintd.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPasses, bucketVersions} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltJournal{db: db}, nil
}

// Close closes the database
func (j *BoltJournal) Close() error {
	return j.db.Close()
}

// RecordPass appends one pass record and updates the consulted versions
func (j *BoltJournal) RecordPass(rec *PassRecord) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		passes := tx.Bucket(bucketPasses)
		seq, err := passes.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := passes.Put(sequenceKey(seq), data); err != nil {
			return err
		}

		versions := tx.Bucket(bucketVersions)
		if err := versions.Put(keyPlanVersion, versionValue(rec.PlanVersion)); err != nil {
			return err
		}
		return versions.Put(keyCurrentVersion, versionValue(rec.CurrentVersion))
	})
}

// LastPass returns the most recent pass record
func (j *BoltJournal) LastPass() (*PassRecord, error) {
	var rec *PassRecord
	err := j.db.View(func(tx *bolt.Tx) error {
		_, data := tx.Bucket(bucketPasses).Cursor().Last()
		if data == nil {
			return nil
		}
		rec = &PassRecord{}
		return json.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Versions returns the Plan and Current versions of the most recent pass
func (j *BoltJournal) Versions() (int64, int64, error) {
	var plan, current int64
	err := j.db.View(func(tx *bolt.Tx) error {
		versions := tx.Bucket(bucketVersions)
		if v := versions.Get(keyPlanVersion); v != nil {
			plan = int64(binary.BigEndian.Uint64(v))
		}
		if v := versions.Get(keyCurrentVersion); v != nil {
			current = int64(binary.BigEndian.Uint64(v))
		}
		return nil
	})
	return plan, current, err
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func versionValue(v int64) []byte {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(v))
	return val
}
