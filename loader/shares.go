package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/types"
)

// LoadShares reads the decryption shares from source, see DecodeShares, and
// checks their shape: there must be one share set per proposal (expected)
// and, when minShares is positive, every set must hold at least minShares
// shares. An empty source reads standard input.
func LoadShares(source string, expected, minShares int) ([][]types.DecryptShare, error) {
	var shares [][]types.DecryptShare
	if err := withSource(source, func(r io.Reader) error {
		var err error
		shares, err = DecodeShares(r)
		return err
	}); err != nil {
		return nil, fmt.Errorf("load decryption shares from %s: %w", sourceName(source), err)
	}
	if err := CheckShares(shares, expected, minShares); err != nil {
		return nil, err
	}
	log.Debugw("decryption shares loaded", "source", sourceName(source), "proposals", len(shares))
	return shares, nil
}

// DecodeShares decodes a JSON array holding, per proposal, an array of hex
// encoded decryption shares. Nothing but whitespace may follow the array.
func DecodeShares(r io.Reader) ([][]types.DecryptShare, error) {
	var shares [][]types.DecryptShare
	dec := json.NewDecoder(r)
	if err := dec.Decode(&shares); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after the share sets", ErrMalformedInput)
	}
	for i, set := range shares {
		for j, share := range set {
			if len(share) == 0 {
				return nil, fmt.Errorf("%w: empty share %d of proposal %d", ErrMalformedInput, j, i)
			}
		}
	}
	return shares, nil
}

// CheckShares validates the shape of a share collection against the vote
// plan it decrypts.
func CheckShares(shares [][]types.DecryptShare, expected, minShares int) error {
	if len(shares) != expected {
		return fmt.Errorf("%w: got %d share sets for %d proposals", ErrShareCountMismatch, len(shares), expected)
	}
	if minShares <= 0 {
		return nil
	}
	for i, set := range shares {
		if len(set) < minShares {
			return fmt.Errorf("%w: proposal %d has %d shares, need %d", ErrNotEnoughShares, i, len(set), minShares)
		}
	}
	return nil
}
