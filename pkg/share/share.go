// Package share provides link sharing and saved-map storage.
//
// A share token is a self-contained, URL-safe encoding of a whole mind
// map: the structured JSON payload is gzip-compressed and base64url
// encoded, so a map can travel inside a link with no server round trip.
//
// For persistent sharing the package defines a Store interface with
// several backends:
//   - memory: in-process storage for development/testing
//   - file: JSON files in a config directory for CLI use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable persistence
//
// # Usage
//
// Encode a map into a link token:
//
//	token, err := share.EncodeToken(doc)
//	doc, err := share.DecodeToken(token)
//
// Save a map under a stable ID:
//
//	store, err := share.NewFileStore("") // ~/.config/treeline/maps/
//	m, err := share.NewMap("roadmap", doc)
//	err = store.Set(ctx, m)
package share

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/treeline-io/treeline/pkg/codec"
	"github.com/treeline-io/treeline/pkg/document"
)

// Map is a saved mind map with identity and timestamps.
type Map struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Payload   codec.Payload `json:"payload" bson:"payload"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// NewMap creates a saved map from a document with a fresh UUID.
func NewMap(name string, d *document.Document) *Map {
	now := time.Now().UTC()
	return &Map{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   codec.FromDocument(d),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Document rebuilds the stored document from the payload.
func (m *Map) Document() (*document.Document, error) {
	return codec.ToDocument(m.Payload)
}

// Store is the interface for saved-map storage backends.
type Store interface {
	// Get retrieves a saved map by ID.
	// Returns nil, nil if the map doesn't exist.
	Get(ctx context.Context, id string) (*Map, error)

	// Set stores a saved map, updating UpdatedAt.
	Set(ctx context.Context, m *Map) error

	// Delete removes a saved map.
	Delete(ctx context.Context, id string) error

	// List returns all saved maps, newest first.
	List(ctx context.Context) ([]*Map, error)

	// Close releases backend resources.
	Close() error
}

func sortByUpdated(maps []*Map) {
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].UpdatedAt.After(maps[j].UpdatedAt)
	})
}
