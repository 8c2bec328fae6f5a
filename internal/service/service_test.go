package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Skotchmaster/technocare/internal/storage/storagetest"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

var errBroker = errors.New("broker down")

func newAccountService(t *testing.T) (*AccountService, *recorder) {
	t.Helper()
	pub := &recorder{}
	return &AccountService{Repo: storagetest.NewBackend(t).Accounts, Publisher: pub}, pub
}

func newCatalogService(t *testing.T) (*CatalogService, *recorder) {
	t.Helper()
	pub := &recorder{}
	return &CatalogService{Repo: storagetest.NewBackend(t).Products, Publisher: pub}, pub
}
