package credentials

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucket    = "session"
	expiryValueBytes = 8
)

// boltStore keeps the bearer token in a BoltDB file. Values are an 8-byte
// big-endian unix expiry followed by the token bytes.
type boltStore struct {
	db   *bolt.DB
	key  []byte
	opts Options
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path, key string, opts Options) (Store, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("token key must not be empty")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create token store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db, key: []byte(key), opts: opts}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Token returns the stored token, or "" when absent or expired. Reads never
// write; expired entries stay until the next Set or Clear.
func (b *boltStore) Token(context.Context) (string, error) {
	if b == nil || b.db == nil {
		return "", nil
	}

	var token string
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}

		value := bucket.Get(b.key)
		if value == nil {
			return nil
		}

		expiry, raw, ok := decodeEntry(value)
		if !ok || !expiry.After(b.opts.Now()) {
			return nil
		}

		token = raw
		return nil
	})
	return token, err
}

// Set stores token with its expiry.
func (b *boltStore) Set(token string) error {
	if b == nil || b.db == nil {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return b.Clear()
	}

	now := b.opts.Now()
	expiry := expiryFor(token, now, b.opts.TTL)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		return bucket.Put(b.key, encodeEntry(expiry, token))
	})
}

// Clear removes the stored token.
func (b *boltStore) Clear() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		return bucket.Delete(b.key)
	})
}

func encodeEntry(expiry time.Time, token string) []byte {
	buf := make([]byte, expiryValueBytes+len(token))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryValueBytes:], token)
	return buf
}

// decodeEntry splits a stored value into expiry and token.
func decodeEntry(value []byte) (time.Time, string, bool) {
	if len(value) <= expiryValueBytes {
		return time.Time{}, "", false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, "", false
	}
	return time.Unix(unix, 0), string(value[expiryValueBytes:]), true
}
