package game

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidInput wraps every input rejection so callers can map them together
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidDropColumn = fmt.Errorf("%w: drop column must be between %d and %d", ErrInvalidInput, MinDropColumn, MaxDropColumn)
	ErrInvalidServerSeed = fmt.Errorf("%w: server seed must be 64 hex characters", ErrInvalidInput)
	ErrEmptyClientSeed   = fmt.Errorf("%w: client seed is required", ErrInvalidInput)
	ErrEmptyNonce        = fmt.Errorf("%w: nonce is required", ErrInvalidInput)
	ErrInvalidPegMap     = fmt.Errorf("%w: peg map must have %d triangular rows", ErrInvalidInput, Rows)
	ErrInvalidBet        = fmt.Errorf("%w: bet must be positive", ErrInvalidInput)

	ErrRoundAlreadyStarted = errors.New("round already started")
	ErrRoundNotStarted     = errors.New("round has not started yet")
)

var serverSeedPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidateDropColumn rejects columns outside [MinDropColumn, MaxDropColumn]
func ValidateDropColumn(dropColumn int) error {
	if dropColumn < MinDropColumn || dropColumn > MaxDropColumn {
		return ErrInvalidDropColumn
	}
	return nil
}

func validatePegMap(pegMap PegMap) error {
	if len(pegMap) != Rows {
		return ErrInvalidPegMap
	}
	for r, row := range pegMap {
		if len(row) != r+1 {
			return ErrInvalidPegMap
		}
	}
	return nil
}
