package storage

import (
	"context"
	"errors"
)

// Collection names, also the document names on every driver.
const (
	Reports      = "reports"
	Users        = "users"
	Projects     = "projects"
	UserProjects = "user_projects"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists whole JSON documents by name. Implementations must
// return ErrDocumentNotFound for a name that was never written.
type DocumentStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}
