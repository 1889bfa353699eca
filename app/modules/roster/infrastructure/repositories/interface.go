package rosterdb

import (
	"context"
	"errors"
	"fmt"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

// ErrCorruptRoster is returned when persisted roster data cannot be decoded or holds an
// invalid record.
var ErrCorruptRoster = errors.New("persisted roster is corrupt")

// Repository defines the contract for roster persistence. Every call moves the whole
// roster; there are no partial reads or writes.
type Repository interface {
	// Load returns the persisted roster, or an empty roster when nothing was saved yet.
	Load(ctx context.Context) (rosterdomain.Roster, error)

	// Save replaces the persisted roster.
	Save(ctx context.Context, roster rosterdomain.Roster) error
}

// validateRoster rejects loaded rosters holding records outside the field ranges.
func validateRoster(roster rosterdomain.Roster) error {
	for i, p := range roster {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: record %d (%q): %w", ErrCorruptRoster, i, p.Name, err)
		}
	}
	return nil
}
