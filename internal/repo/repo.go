// Package repo is the document access layer shared by the account and catalog
// stores. A Collection executes one filter or one match-then-set update per
// call; the backend guarantees atomicity per document and nothing more.
package repo

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Filter matches documents whose Field equals Value. The zero Filter matches
// every document.
type Filter struct {
	Field string
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

func (f Filter) All() bool {
	return f.Field == ""
}

// Fields is a set of document fields to overwrite, keyed by document field name.
type Fields map[string]any

// Policy decides what Update does when the filter matches nothing.
type Policy int

const (
	// ReplaceOnly leaves the collection untouched when nothing matches.
	ReplaceOnly Policy = iota
	// Upsert inserts a document made of the filter field plus the set fields.
	Upsert
)

func (p Policy) String() string {
	if p == Upsert {
		return "upsert"
	}
	return "replace_only"
}

type UpdateResult struct {
	Matched    int64  `json:"matchedCount"`
	Modified   int64  `json:"modifiedCount"`
	UpsertedID string `json:"upsertedId,omitempty"`
}

type Collection[T any] interface {
	// Find returns every match in backend order; never nil.
	Find(ctx context.Context, f Filter) ([]T, error)
	// FindOne returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, f Filter) (*T, error)
	// Insert stores doc verbatim and returns the storage-assigned identifier.
	Insert(ctx context.Context, doc *T) (string, error)
	// Update sets the given fields on the first document matching f.
	Update(ctx context.Context, f Filter, set Fields, policy Policy) (UpdateResult, error)
}
