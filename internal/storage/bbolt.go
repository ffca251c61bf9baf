package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const storefrontBucket = "storefront"

// BoltKV provides a BoltDB-backed key-value store
type BoltKV struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path
func Open(path string) (*BoltKV, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	kv := &BoltKV{db: db}
	if err := kv.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return kv, nil
}

// Close closes the underlying BoltDB database
func (s *BoltKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltKV) Get(key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(storefrontBucket))
		if bucket == nil {
			return fmt.Errorf("storefront bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return ErrNotFound
		}
		value = append([]byte(nil), payload...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *BoltKV) Set(key string, value []byte) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(storefrontBucket))
		if bucket == nil {
			return fmt.Errorf("storefront bucket is missing")
		}
		return bucket.Put([]byte(key), value)
	})
}

func (s *BoltKV) Delete(key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(storefrontBucket))
		if bucket == nil {
			return fmt.Errorf("storefront bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

func (s *BoltKV) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(storefrontBucket))
		if err != nil {
			return fmt.Errorf("create storefront bucket: %w", err)
		}
		return nil
	})
}
