package tally

import (
	"context"

	"github.com/vocdoni/davinci-tally/types"
)

// PublicTally requests the certificate of a public vote plan.
type PublicTally struct {
	VotePlanID types.VotePlanID
	// Output is the file the certificate is written to, standard output
	// when empty.
	Output string
}

// Build returns the public vote tally certificate of the vote plan.
func (p *PublicTally) Build() *types.Certificate {
	return types.NewVoteTallyCertificate(types.NewPublicVoteTally(p.VotePlanID))
}

// Public builds the certificate and writes it to p.Output.
func (b *Builder) Public(ctx context.Context, p *PublicTally) error {
	return b.emit(ctx, p.Output, p.Build())
}
