package rosterdb

import (
	"bytes"
	"encoding/json"
	"fmt"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
)

const jsonIndent = "    "

// EncodeRoster renders the roster as an indented JSON array with one object per player.
// The output is deterministic: equal rosters always encode to equal bytes.
func EncodeRoster(roster rosterdomain.Roster) ([]byte, error) {
	data, err := json.MarshalIndent(roster.Clone(), "", jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode roster: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeRoster parses data produced by EncodeRoster and validates every record. Blank input
// is an empty roster.
func DecodeRoster(data []byte) (rosterdomain.Roster, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return rosterdomain.Roster{}, nil
	}

	var roster rosterdomain.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRoster, err)
	}
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	return roster.Clone(), nil
}
