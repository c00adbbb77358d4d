package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Collection names used by the app.
const (
	CollectionUsers         = "users"
	CollectionProfiles      = "profiles"
	CollectionSubscriptions = "subscriptions"
	CollectionEntries       = "entries"
	CollectionGoals         = "goals"
	CollectionSMARTGoals    = "smart_goals"
	CollectionThemes        = "themes"
)

// SystemUser owns cross-user records such as the account index.
const SystemUser = "_system"

// ErrNotFound marks an absent document. Services treat it as a valid
// empty result, not a failure.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. Data holds the entity JSON; the
// timestamps are assigned by the store on write, never by callers.
type Document struct {
	UserID     string          `json:"user_id"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// Provider is the document-store boundary: collection-style reads and
// writes keyed by (userID, collection, docID) with equality-filtered
// queries. Implementations are not safe for concurrent use by multiple
// processes sharing the same backing path.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Documents
	Put(ctx context.Context, userID, collection, id string, data any) (Document, error)
	Get(ctx context.Context, userID, collection, id string) (Document, error)
	List(ctx context.Context, userID, collection string) ([]Document, error)
	Query(ctx context.Context, userID, collection, field, value string) ([]Document, error)
	Delete(ctx context.Context, userID, collection, id string) error

	// Utils
	GetConfigPath() string
}
