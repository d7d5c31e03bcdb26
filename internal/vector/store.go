// Package vector stores document chunk embeddings in SQLite using the
// sqlite-vec extension and serves nearest-neighbour lookups for
// retrieval-augmented answers.
package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
	"go.uber.org/zap"
)

func init() {
	// Register the sqlite-vec extension with go-sqlite3 before any
	// connection opens.
	vec.Auto()
}

// ErrDimensionMismatch is returned when an embedding's dimension differs
// from the one the store was initialised with.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Chunk is one embedded slice of an uploaded document.
type Chunk struct {
	Namespace string
	Seq       int
	Text      string
}

// Match is a chunk returned from a similarity search, closest first.
type Match struct {
	Chunk
	Score float64
}

// Store wraps the SQLite database holding chunks and their vectors.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens (or creates) the vector database at path and initialises
// the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("vector.Open: %w", err)
	}
	s := &Store{db: sqldb, path: path, logger: logger}
	if err := s.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("vector.Open createSchema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid     INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace TEXT NOT NULL,
			seq       INTEGER NOT NULL,
			text      TEXT NOT NULL,
			UNIQUE(namespace, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS chunks_namespace ON chunks(namespace)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("createSchema exec: %w", err)
		}
	}

	// Recreate the vec table if a dimension was persisted earlier.
	if dim, ok, err := s.embeddingDim(); err == nil && ok {
		if err := s.createVecTable(dim); err != nil {
			return fmt.Errorf("createSchema createVecTable: %w", err)
		}
	}
	return nil
}

func (s *Store) createVecTable(dim int) error {
	_, err := s.db.Exec(fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunks_vec USING vec0(
			rowid INTEGER PRIMARY KEY,
			embedding float[%d]
		)`, dim,
	))
	return err
}

func (s *Store) hasVecTable() (bool, error) {
	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='chunks_vec'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) embeddingDim() (int, bool, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'embedding_dim'`).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	dim, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return dim, true, nil
}

// ensureVecTable creates the vector table on first use, recording the
// embedding dimension. Later calls with a different dimension fail with
// ErrDimensionMismatch.
func (s *Store) ensureVecTable(dim int) error {
	stored, ok, err := s.embeddingDim()
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.db.Exec(
			`INSERT OR REPLACE INTO meta (key, value) VALUES ('embedding_dim', ?)`,
			strconv.Itoa(dim),
		); err != nil {
			return err
		}
		return s.createVecTable(dim)
	}
	if stored != dim {
		return fmt.Errorf("%w: database has %d, provider returned %d",
			ErrDimensionMismatch, stored, dim)
	}
	return nil
}

// Upsert stores a chunk and its embedding. Chunks are keyed by
// (namespace, seq), so re-ingesting a document overwrites in place.
func (s *Store) Upsert(ctx context.Context, chunk Chunk, embedding []float32) error {
	if len(embedding) == 0 {
		return errors.New("vector.Upsert: empty embedding")
	}
	if err := s.ensureVecTable(len(embedding)); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vector.Upsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO chunks (namespace, seq, text) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, seq) DO UPDATE SET text = excluded.text`,
		chunk.Namespace, chunk.Seq, chunk.Text,
	)
	if err != nil {
		return fmt.Errorf("vector.Upsert: chunk: %w", err)
	}

	var rowid int64
	if rowid, err = res.LastInsertId(); err != nil || rowid == 0 {
		// Conflict path does not report an insert id; look it up.
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM chunks WHERE namespace = ? AND seq = ?`,
			chunk.Namespace, chunk.Seq,
		).Scan(&rowid)
		if err != nil {
			return fmt.Errorf("vector.Upsert: rowid: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO chunks_vec (rowid, embedding) VALUES (?, ?)`,
		rowid, float32sToBytes(embedding),
	); err != nil {
		return fmt.Errorf("vector.Upsert: vector: %w", err)
	}

	return tx.Commit()
}

// DeleteNamespace removes all chunks and vectors for a namespace.
// Returns the number of chunks removed.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid FROM chunks WHERE namespace = ?`, namespace)
	if err != nil {
		return 0, fmt.Errorf("vector.DeleteNamespace: query: %w", err)
	}
	var rowids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("vector.DeleteNamespace: scan: %w", err)
		}
		rowids = append(rowids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range rowids {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks_vec WHERE rowid = ?`, id); err != nil {
			s.logger.Debug("vector_cleanup_skipped", zap.Error(err))
		}
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE namespace = ?`, namespace); err != nil {
		return 0, fmt.Errorf("vector.DeleteNamespace: chunks: %w", err)
	}
	return len(rowids), nil
}

// HasNamespace reports whether any chunks exist for the namespace.
func (s *Store) HasNamespace(ctx context.Context, namespace string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chunks WHERE namespace = ?`, namespace).Scan(&n)
	return n > 0, err
}

// Search returns the limit nearest chunks to the query embedding within
// the namespace, closest first. An empty result is not an error.
func (s *Store) Search(ctx context.Context, namespace string, queryEmbedding []float32, limit int) ([]Match, error) {
	ok, err := s.hasVecTable()
	if err != nil || !ok {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	// sqlite-vec KNN cannot carry extra predicates, so over-fetch and
	// filter by namespace afterwards.
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.namespace, c.seq, c.text, v.distance
		FROM chunks_vec v
		JOIN chunks c ON c.rowid = v.rowid
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance`,
		float32sToBytes(queryEmbedding), limit*8,
	)
	if err != nil {
		return nil, fmt.Errorf("vector.Search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var distance float64
		if err := rows.Scan(&m.Namespace, &m.Seq, &m.Text, &distance); err != nil {
			return nil, fmt.Errorf("vector.Search: scan: %w", err)
		}
		if m.Namespace != namespace {
			continue
		}
		m.Score = 1.0 - distance
		matches = append(matches, m)
		if len(matches) == limit {
			break
		}
	}
	return matches, rows.Err()
}

// float32sToBytes encodes a []float32 as little-endian bytes, the wire
// format sqlite-vec expects.
func float32sToBytes(floats []float32) []byte {
	b := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
