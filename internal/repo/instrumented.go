package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/technocare/internal/metrics"
)

// Instrumented records the duration and outcome of every call to Next.
type Instrumented[T any] struct {
	Next Collection[T]
	Name string
}

func Instrument[T any](next Collection[T], name string) *Instrumented[T] {
	return &Instrumented[T]{Next: next, Name: name}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (c *Instrumented[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	start := time.Now()
	items, err := c.Next.Find(ctx, f)
	metrics.ObserveStorage(c.Name, "find", outcome(err), start)
	return items, err
}

func (c *Instrumented[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	start := time.Now()
	doc, err := c.Next.FindOne(ctx, f)
	metrics.ObserveStorage(c.Name, "find_one", outcome(err), start)
	return doc, err
}

func (c *Instrumented[T]) Insert(ctx context.Context, doc *T) (string, error) {
	start := time.Now()
	id, err := c.Next.Insert(ctx, doc)
	metrics.ObserveStorage(c.Name, "insert", outcome(err), start)
	return id, err
}

func (c *Instrumented[T]) Update(ctx context.Context, f Filter, set Fields, policy Policy) (UpdateResult, error) {
	start := time.Now()
	res, err := c.Next.Update(ctx, f, set, policy)
	metrics.ObserveStorage(c.Name, "update_"+policy.String(), outcome(err), start)
	return res, err
}
