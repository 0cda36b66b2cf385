package tally

import (
	"context"
	"fmt"

	"github.com/vocdoni/davinci-tally/certificate"
	"github.com/vocdoni/davinci-tally/loader"
	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/types"
)

// PrivateTally requests the certificate of a private vote plan whose
// proposals have all been decrypted.
type PrivateTally struct {
	// SharesPath is the JSON file holding the decryption shares, one set
	// per proposal.
	SharesPath string
	// VotePlanPath is the JSON file holding the vote plan statuses.
	VotePlanPath string
	// VotePlanID selects the vote plan. It can be nil if the vote plan file
	// lists a single vote plan.
	VotePlanID *types.VotePlanID
	// Output is the file the certificate is written to, standard output
	// when empty.
	Output string
	// MinShares is the minimum number of shares every proposal needs, no
	// minimum when zero.
	MinShares int
	// DryRun builds and logs the certificate without writing it.
	DryRun bool
}

// decryption is the outcome of matching a proposal tally: the decrypted
// totals when ok, the state found otherwise.
type decryption struct {
	ok     bool
	values []uint64
	found  string
}

type decryptionMatcher struct{}

func (decryptionMatcher) None() decryption {
	return decryption{found: types.TallyKindNone}
}

func (decryptionMatcher) Public(*types.PublicTally) decryption {
	return decryption{found: types.TallyKindPublic}
}

func (decryptionMatcher) PrivateEncrypted(*types.EncryptedTally) decryption {
	return decryption{found: types.TallyKindPrivateEncrypted}
}

func (decryptionMatcher) PrivateDecrypted(d *types.DecryptedTally) decryption {
	return decryption{ok: true, values: d.Result.Values()}
}

// Combine pairs every proposal of the vote plan with the share set at the
// same position and returns the decrypted private tally. It fails if the
// number of share sets differs from the number of proposals, before looking
// at any proposal, if the vote plan is incomplete, or if any proposal is not
// a decrypted private tally. Nothing is returned on failure.
func Combine(vp *types.VotePlan, shares [][]types.DecryptShare) (*types.DecryptedPrivateTally, error) {
	if err := loader.CheckShares(shares, len(vp.Proposals), 0); err != nil {
		return nil, err
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	proposals := make([]types.DecryptedPrivateTallyProposal, 0, len(vp.Proposals))
	for i, proposal := range vp.Proposals {
		var tally *types.Tally
		if proposal != nil {
			tally = proposal.Tally
		}
		d := types.MatchTally[decryption](tally, decryptionMatcher{})
		if !d.ok {
			return nil, &PrivateTallyExpectedError{Index: i, Found: d.found}
		}
		proposals = append(proposals, types.DecryptedPrivateTallyProposal{
			DecryptShares: shares[i],
			TallyResult:   d.values,
		})
	}
	return types.NewDecryptedPrivateTally(proposals), nil
}

// BuildPrivate loads the vote plan and the decryption shares and returns the
// private vote tally certificate, without writing it.
func (b *Builder) BuildPrivate(ctx context.Context, p *PrivateTally) (*types.Certificate, error) {
	vp, err := b.Loader.VotePlan(p.VotePlanPath, p.VotePlanID)
	if err != nil {
		return nil, err
	}
	log.Debugw("vote plan selected",
		"votePlanID", vp.ID.String(),
		"payload", vp.Payload.String(),
		"voteEnd", vp.VoteEnd.String(),
		"committeeEnd", vp.CommitteeEnd.String(),
		"proposals", len(vp.Proposals))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shares, err := b.Loader.Shares(p.SharesPath, len(vp.Proposals), p.MinShares)
	if err != nil {
		return nil, err
	}
	decrypted, err := Combine(vp, shares)
	if err != nil {
		return nil, fmt.Errorf("vote plan %s: %w", vp.ID, err)
	}
	return types.NewVoteTallyCertificate(types.NewPrivateVoteTally(vp.ID, decrypted)), nil
}

// Private builds the certificate and writes it to p.Output.
func (b *Builder) Private(ctx context.Context, p *PrivateTally) error {
	cert, err := b.BuildPrivate(ctx, p)
	if err != nil {
		return err
	}
	if p.DryRun {
		digest, err := certificate.Digest(cert)
		if err != nil {
			return err
		}
		log.Infow("dry run, vote tally certificate not written",
			"votePlanID", cert.VoteTally.VotePlanID.String(),
			"proposals", cert.VoteTally.Private.Len(),
			"digest", digest.Hex())
		return nil
	}
	return b.emit(ctx, p.Output, cert)
}
