package models

import "context"

// InstitutionRepository persists linked bank connections.
type InstitutionRepository interface {
	Put(ctx context.Context, institution *Institution) error
	ListByUser(ctx context.Context, userID string) ([]*Institution, error)

	// ScanUserIDs returns the deduplicated set of user IDs that have at
	// least one institution. It is best-effort: it is only consumed by
	// batch jobs, so failures degrade to an empty result instead of an
	// error.
	ScanUserIDs(ctx context.Context) []string
}

// AccountRepository persists the accounts discovered under an institution.
type AccountRepository interface {
	Put(ctx context.Context, account *Account) error
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
}

// ReminderRepository persists per-subscription reminder preferences.
type ReminderRepository interface {
	Put(ctx context.Context, preference *ReminderPreference) error
	ListByUser(ctx context.Context, userID string) ([]*ReminderPreference, error)

	// UpdateFields applies a partial update: the given fields replace their
	// stored counterparts and everything else is untouched. Keys are stored
	// attribute names.
	UpdateFields(ctx context.Context, userID, streamID string, fields map[string]any) error

	// ScanUserIDs is best-effort, see InstitutionRepository.ScanUserIDs.
	ScanUserIDs(ctx context.Context) []string
}
