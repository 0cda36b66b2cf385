// Package loader reads the inputs of a private tally: the recorded status of
// the vote plans and the decryption shares contributed by the committee.
// Both are JSON documents read from a file, or from standard input when no
// file is given.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vocdoni/davinci-tally/types"
)

var (
	// ErrVotePlanNotFound is returned when no vote plan matches the request.
	ErrVotePlanNotFound = errors.New("vote plan not found")
	// ErrAmbiguousVotePlan is returned when several vote plans match and
	// nothing tells them apart.
	ErrAmbiguousVotePlan = errors.New("ambiguous vote plan")
	// ErrShareCountMismatch is returned when the number of share sets differs
	// from the number of proposals.
	ErrShareCountMismatch = errors.New("share count mismatch")
	// ErrNotEnoughShares is returned when a proposal has fewer shares than
	// the required minimum.
	ErrNotEnoughShares = errors.New("not enough decryption shares")
	// ErrMalformedInput is returned when a document cannot be decoded.
	ErrMalformedInput = errors.New("malformed input")
)

// stdin is the source used when no file is given.
var stdin io.Reader = os.Stdin

// FileLoader loads vote plans and shares from files, or from standard input
// when the source is empty.
type FileLoader struct{}

// VotePlan calls LoadVotePlan.
func (FileLoader) VotePlan(source string, id *types.VotePlanID) (*types.VotePlan, error) {
	return LoadVotePlan(source, id)
}

// Shares calls LoadShares.
func (FileLoader) Shares(source string, expected, minShares int) ([][]types.DecryptShare, error) {
	return LoadShares(source, expected, minShares)
}

// withSource opens source, or standard input if it is empty, and hands it to
// fn. Files are closed once fn returns.
func withSource(source string, fn func(io.Reader) error) error {
	if source == "" {
		return fn(stdin)
	}
	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return fn(f)
}

// sourceName returns a printable name of source for error messages.
func sourceName(source string) string {
	if source == "" {
		return "standard input"
	}
	return source
}
