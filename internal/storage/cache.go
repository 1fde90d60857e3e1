package storage

import (
	"context"
	"time"

	"leadboard/internal/models"
)

// Snapshot is the last lead list fetched successfully.
type Snapshot struct {
	Records  []models.RawRecord `json:"records"`
	StoredAt time.Time          `json:"storedAt"`
}

// LeadCache persists the latest snapshot so it can be served when NocoDB is
// unreachable. Load reports false when nothing valid is stored.
type LeadCache interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Store(ctx context.Context, records []models.RawRecord) error
}
