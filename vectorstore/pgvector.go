package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgvectorIndex stores records in a Postgres table with a pgvector
// embedding column. The table name acts as the index namespace and is
// fixed at construction (deployment-level configuration).
type PgvectorIndex struct {
	db        *pgxpool.Pool
	table     string
	dimension int
	logger    *slog.Logger
}

func NewPgvectorIndex(db *pgxpool.Pool, table string, dimension int, logger *slog.Logger) *PgvectorIndex {
	return &PgvectorIndex{
		db:        db,
		table:     table,
		dimension: dimension,
		logger:    logger,
	}
}

// Init creates the backing table if it does not exist yet.
func (idx *PgvectorIndex) Init(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            id        text PRIMARY KEY,
            embedding vector(%d),
            text      text NOT NULL
        )
    `, idx.table, idx.dimension)

	if _, err := idx.db.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", idx.table, err)
	}
	return nil
}

func (idx *PgvectorIndex) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	upsertSQL := fmt.Sprintf(`
        INSERT INTO %s (id, embedding, text) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, text = EXCLUDED.text
    `, idx.table)

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(upsertSQL, r.ID, pgvector.NewVector(r.Values), r.Metadata.Text)
	}

	results := idx.db.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert records into %s: %w", idx.table, err)
		}
	}

	idx.logger.Debug("Upserted vector records",
		slog.String("table", idx.table),
		slog.Int("count", len(records)))

	return nil
}

func (idx *PgvectorIndex) Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}

	textColumn := "''::text"
	if includeMetadata {
		textColumn = "text"
	}

	// Cosine distance; score is reported as 1 - distance so higher
	// means more similar.
	searchSQL := fmt.Sprintf(`
        SELECT id, 1 - (embedding <=> $1) AS score, %s
        FROM %s
        ORDER BY embedding <=> $1
        LIMIT $2
    `, textColumn, idx.table)

	rows, err := idx.db.Query(ctx, searchSQL, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	matches := make([]Match, 0, topK)
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Score, &m.Metadata.Text); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}

	return matches, nil
}

// EnsureANNIndex creates or rebuilds the ivfflat index sized to the
// current record count. Brute-force scans are fine for small tables;
// this only matters once a deployment accumulates many documents.
func (idx *PgvectorIndex) EnsureANNIndex(ctx context.Context) error {
	var count int
	err := idx.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", idx.table)).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	// ivfflat guidance: lists ~ sqrt(row count), floor of 100
	lists := int(math.Sqrt(float64(count)))
	if lists < 100 {
		lists = 100
	}

	indexName := fmt.Sprintf("idx_%s_embedding", idx.table)

	_, err = idx.db.Exec(ctx, fmt.Sprintf("DROP INDEX IF EXISTS %s", indexName))
	if err != nil {
		return fmt.Errorf("failed to drop existing index: %w", err)
	}

	createIndexSQL := fmt.Sprintf(`
        CREATE INDEX %s
        ON %s
        USING ivfflat (embedding vector_cosine_ops)
        WITH (lists = %d)
    `, indexName, idx.table, lists)

	if _, err := idx.db.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	idx.logger.Info("Vector index created/updated successfully",
		slog.String("table", idx.table),
		slog.Int("record_count", count),
		slog.Int("list_count", lists))

	return nil
}
