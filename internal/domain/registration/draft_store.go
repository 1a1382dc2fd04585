package registration

import "context"

// DraftStore persists in-progress wizard state between requests so a
// session can resume mid-wizard. Implementations are session-scoped
// key/value stores; state lives until Clear or the session expires.
type DraftStore interface {
	// Save writes both the current step and the accumulated draft data
	Save(ctx context.Context, sessionID string, step int, data *DraftData) error

	// Load returns the stored step and data, or (0, nil, nil) when the
	// session has nothing persisted
	Load(ctx context.Context, sessionID string) (int, *DraftData, error)

	// Clear removes both entries; called only on wizard completion
	Clear(ctx context.Context, sessionID string) error
}
