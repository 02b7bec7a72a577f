// Package vectorstore selects and constructs vector store backends by name.
// Two backends are supported: "snapshot", which keeps one JSON snapshot per
// collection on local disk, and "pgvector", which stores collections as rows
// in a Postgres table with a vector column.
package vectorstore

import (
	"database/sql"
	"errors"
	"fmt"

	"newsdigest/internal/infra/embedder"
	"newsdigest/internal/infra/vectorstore/pgvector"
	"newsdigest/internal/infra/vectorstore/snapshot"
	"newsdigest/internal/repository"
)

// ErrUnsupportedBackend indicates an unrecognized backend name. This is a
// configuration error and is surfaced before any write happens.
var ErrUnsupportedBackend = errors.New("unsupported vector store backend")

// Options carries backend construction parameters. DataDir feeds the
// snapshot backend; DB feeds the pgvector backend.
type Options struct {
	DataDir string
	DB      *sql.DB
}

// New constructs the backend selected by name.
func New(name string, emb embedder.Embedder, opts Options) (repository.VectorStore, error) {
	switch name {
	case "snapshot":
		return snapshot.New(opts.DataDir, emb), nil
	case "pgvector":
		if opts.DB == nil {
			return nil, fmt.Errorf("pgvector backend requires a database connection")
		}
		return pgvector.New(opts.DB, emb), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}
