// Package corpus reads reference documents from YAML and indexes them.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// File is the on-disk corpus layout.
type File struct {
	Documents []Entry `yaml:"documents"`
}

// Entry is one document in a corpus file.
type Entry struct {
	ID       string `yaml:"doc_id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Body     string `yaml:"body"`
}

// Parse decodes a corpus file. Unknown keys and repeated ids are rejected.
func Parse(r io.Reader) ([]domain.Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Documents))
	docs := make([]domain.Document, 0, len(f.Documents))
	for i, e := range f.Documents {
		id := strings.TrimSpace(e.ID)
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("document %d: duplicate doc_id %q", i, id)
		}
		seen[id] = struct{}{}
		docs = append(docs, domain.Document{
			ID:       id,
			Title:    strings.TrimSpace(e.Title),
			Category: strings.TrimSpace(e.Category),
			Body:     strings.TrimSpace(e.Body),
		})
	}
	return docs, nil
}

// Filter keeps documents of category. An empty category keeps all.
func Filter(docs []domain.Document, category string) []domain.Document {
	if category == "" {
		return docs
	}
	out := docs[:0:0]
	for _, d := range docs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

type indexer interface {
	Index(ctx context.Context, doc domain.Document, fault domain.FaultPolicy) error
}

// Result counts the outcome of a Load.
type Result struct {
	Indexed int
	Skipped int
}

// Load indexes docs in order. Documents already stored are skipped; any
// other failure stops the load and is returned with the counts so far.
func Load(ctx context.Context, log *slog.Logger, idx indexer, docs []domain.Document) (Result, error) {
	var res Result
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := idx.Index(ctx, d, domain.FaultPolicy{})
		switch {
		case err == nil:
			res.Indexed++
		case errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
			log.InfoContext(ctx, "document already stored", slog.String("doc_id", d.ID))
		default:
			return res, fmt.Errorf("index %s: %w", d.ID, err)
		}
	}
	return res, nil
}
