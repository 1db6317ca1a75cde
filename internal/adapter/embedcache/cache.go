// Package embedcache stores embedding vectors on disk, keyed by model and text.
package embedcache

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	key        TEXT PRIMARY KEY,
	model      TEXT NOT NULL,
	dims       INTEGER NOT NULL,
	vector     BLOB NOT NULL,
	created_at TEXT NOT NULL
);
`

// Cache is a SQLite-backed embedding cache.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache file at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open embed cache: %w", err)
	}
	// One writer at a time; WAL lets readers proceed.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate embed cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for text under model.
func (c *Cache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE key = ?`, Key(model, text),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get embedding: %w", err)
	}

	vec, err := decodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Put stores vec, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, model, text string, vec []float32) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (key, model, dims, vector, created_at) VALUES (?, ?, ?, ?, ?)`,
		Key(model, text), model, len(vec), encodeVector(vec), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put embedding: %w", err)
	}
	return nil
}

// Len returns the number of cached vectors.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM embeddings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// Key is the hex blake3 digest of model and text separated by a NUL byte.
func Key(model, text string) string {
	h := blake3.New()
	_, _ = h.Write([]byte(model))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
