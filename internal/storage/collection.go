package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// Collection is the single writer for one named document. Every
// load-modify-save goes through Update so concurrent callers never lose
// each other's writes.
type Collection[T any] struct {
	name       string
	store      DocumentStore
	newDefault func() T
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewCollection[T any](store DocumentStore, name string, newDefault func() T, logger *slog.Logger) *Collection[T] {
	return &Collection[T]{
		name:       name,
		store:      store,
		newDefault: newDefault,
		logger:     logger,
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns the stored value, or the default when the document is absent,
// unreadable or corrupt. Each call decodes a fresh copy.
func (c *Collection[T]) Load(ctx context.Context) T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(ctx)
}

// View runs fn on a freshly loaded value while holding the read lock.
func (c *Collection[T]) View(ctx context.Context, fn func(T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.load(ctx))
}

// Save replaces the document. Write failures are logged and swallowed.
func (c *Collection[T]) Save(ctx context.Context, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.save(ctx, v)
}

// Update loads, applies fn and persists the result when fn reports a change.
func (c *Collection[T]) Update(ctx context.Context, fn func(T) (T, bool)) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, changed := fn(c.load(ctx))
	if changed {
		c.save(ctx, next)
	}
	return next
}

func (c *Collection[T]) load(ctx context.Context) T {
	data, err := c.store.Read(ctx, c.name)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			c.logger.Error("failed to read collection, using default",
				"collection", c.name,
				"error", err)
		}
		return c.newDefault()
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return c.newDefault()
	}

	v := c.newDefault()
	if err := json.Unmarshal(trimmed, &v); err != nil {
		c.logger.Error("corrupt collection document, using default",
			"collection", c.name,
			"error", err)
		return c.newDefault()
	}
	return v
}

func (c *Collection[T]) save(ctx context.Context, v T) {
	data, err := Encode(v)
	if err != nil {
		c.logger.Error("failed to encode collection", "collection", c.name, "error", err)
		return
	}
	if err := c.store.Write(ctx, c.name, data); err != nil {
		c.logger.Error("failed to write collection", "collection", c.name, "error", err)
	}
}

// Encode renders v the way the documents are kept on disk: two-space indent,
// non-ASCII and HTML characters left as they are.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
