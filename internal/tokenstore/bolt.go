package tokenstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("storefront")
	tokenKey   = []byte("token")
)

// Bolt keeps the token in a bbolt file, bucket "storefront", key "token".
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens (creating if needed) the bbolt file at path.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open token store %s: %w", path, err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Token(ctx context.Context) (string, error) {
	var token string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		// Get returns memory owned by the tx; string() copies it.
		token = string(bucket.Get(tokenKey))
		return nil
	})
	return token, err
}

func (b *Bolt) SetToken(ctx context.Context, token string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(tokenKey, []byte(token))
	})
}

func (b *Bolt) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(tokenKey)
	})
}

func (b *Bolt) Close() error { return b.db.Close() }
