// Package tally builds the vote tally certificate that finalizes a vote plan.
//
// A public vote plan is finalized by a certificate that only names it, since
// the ledger already holds its results. A private vote plan is finalized by a
// certificate carrying, for every proposal, the decryption shares of the
// committee and the decrypted per-option totals recorded in the vote plan.
package tally

import (
	"context"
	"errors"
	"fmt"

	"github.com/vocdoni/davinci-tally/certificate"
	"github.com/vocdoni/davinci-tally/loader"
	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/types"
)

var (
	// ErrPrivateTallyExpected is returned when a proposal of a private tally
	// is not in the decrypted private state.
	ErrPrivateTallyExpected = errors.New("private tally expected")
	// ErrInvalidRegistration is returned when a Registration does not hold
	// exactly one variant.
	ErrInvalidRegistration = errors.New("invalid vote tally registration")
)

// PrivateTallyExpectedError tells which proposal was not decrypted and the
// state it was found in, one of the types.TallyKind constants.
type PrivateTallyExpectedError struct {
	Index int
	Found string
}

func (e *PrivateTallyExpectedError) Error() string {
	return fmt.Sprintf("%s for proposal %d, found %s", ErrPrivateTallyExpected, e.Index, e.Found)
}

// Unwrap allows errors.Is(err, ErrPrivateTallyExpected).
func (*PrivateTallyExpectedError) Unwrap() error {
	return ErrPrivateTallyExpected
}

// Loader provides the inputs of a private tally.
type Loader interface {
	VotePlan(source string, id *types.VotePlanID) (*types.VotePlan, error)
	Shares(source string, expected, minShares int) ([][]types.DecryptShare, error)
}

// Writer sends a finished certificate to its destination, a file path or
// standard output when empty.
type Writer interface {
	Write(destination string, cert *types.Certificate) error
}

// Builder holds the collaborators the tally builders depend on.
type Builder struct {
	Loader Loader
	Writer Writer
}

// NewBuilder returns a Builder that loads its inputs from files and writes
// certificates with w.
func NewBuilder(w Writer) *Builder {
	return &Builder{Loader: loader.FileLoader{}, Writer: w}
}

// emit writes the certificate unless the context is already done.
func (b *Builder) emit(ctx context.Context, output string, cert *types.Certificate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	digest, err := certificate.Digest(cert)
	if err != nil {
		return err
	}
	if err := b.Writer.Write(output, cert); err != nil {
		return err
	}
	log.Infow("vote tally certificate emitted",
		"votePlanID", cert.VoteTally.VotePlanID.String(),
		"payload", cert.VoteTally.Payload.String(),
		"proposals", cert.VoteTally.Private.Len(),
		"digest", digest.Hex())
	return nil
}
