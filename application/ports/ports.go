// Package ports declares the narrow interfaces the lifecycle engine needs
// from its collaborators. The application layer depends on these, never on
// the infrastructure packages that implement them.
package ports

import (
	"context"

	"github.com/Rekrutin/rekrutinai-sub000/domain/application"
	"github.com/Rekrutin/rekrutinai-sub000/domain/quota"
)

// RecordStore is the canonical, owner-keyed collection of application
// records. Mutations are synchronous: when a call returns, the in-memory
// collection has been updated and the durable local surface has been given
// the full collection (a persist failure is logged inside the store and does
// not fail the mutation).
type RecordStore interface {
	// Load restores the owner's collection from the durable surface into
	// memory and returns it. Missing or malformed stored data yields an
	// empty collection, never an error the caller has to branch on.
	Load(ctx context.Context, ownerID string) ([]*application.Record, error)

	// ReplaceAll overwrites the owner's whole collection. Used on login,
	// logout, and owner switch.
	ReplaceAll(ctx context.Context, ownerID string, records []*application.Record) error

	// Upsert inserts or replaces one record in its owner's collection.
	Upsert(ctx context.Context, record *application.Record) error

	// Update applies mutate to the stored record atomically: the read, the
	// mutation, and the write-back all happen under the store's lock, so a
	// concurrent delete or competing mutation can never interleave. An
	// unknown id reports false without calling mutate; a mutate error aborts
	// the write and leaves the stored record untouched.
	Update(ctx context.Context, ownerID, id string, mutate func(*application.Record) error) (bool, error)

	// Remove deletes a record by id. Removing an unknown id is a no-op and
	// reports false.
	Remove(ctx context.Context, ownerID, id string) (bool, error)

	// Get returns a deep copy of one record.
	Get(ctx context.Context, ownerID, id string) (*application.Record, bool)

	// List returns deep copies of the owner's records in insertion order.
	List(ctx context.Context, ownerID string) []*application.Record

	// Count reports how many records the owner currently tracks.
	Count(ctx context.Context, ownerID string) int
}

// UsageStore holds the monotonic per-owner AI-scan counter. The tracked
// record count is derived from RecordStore.Count, not stored here.
type UsageStore interface {
	AIScansUsed(ctx context.Context, ownerID string) (int, error)
	IncrementAIScans(ctx context.Context, ownerID string) error
}

// RemoteMirror replicates accepted local mutations to the remote persistent
// store. Implementations are best-effort: they log failures and never
// surface them. Handlers invoke these in detached goroutines, so a slow or
// dead remote never blocks a local mutation.
type RemoteMirror interface {
	MirrorCreate(ctx context.Context, record *application.Record)
	MirrorUpdate(ctx context.Context, record *application.Record)
	MirrorDelete(ctx context.Context, ownerID, id string)
}

// ResumeAnalyzer is the opaque external analysis collaborator. It may take
// seconds; the engine imposes no timeout of its own.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText, jobContext string) (*application.Analysis, error)
}

// PlanSource resolves the owner's subscription tier at the moment a gated
// operation is attempted.
type PlanSource interface {
	Tier(ctx context.Context, ownerID string) (quota.Tier, error)
}
