package session

import "context"

// Store keeps one Record per user. Last write wins; per-user sequential
// delivery is guaranteed by the transport, so no finer coordination is
// required here.
type Store interface {
	// GetOrCreate returns the record for id, creating one with default
	// values on first contact.
	GetOrCreate(ctx context.Context, id int64, profile Profile) (*Record, error)
	// Save persists the record after a transition.
	Save(ctx context.Context, rec *Record) error
	// Has reports whether id has a live conversation (a record in a
	// non-terminated state).
	Has(ctx context.Context, id int64) bool
}

// Directory exposes the full learner roster for administrative commands.
type Directory interface {
	List(ctx context.Context) ([]*Record, error)
	Put(ctx context.Context, rec *Record) error
}
