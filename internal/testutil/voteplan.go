package testutil

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/davinci-tally/types"
	"github.com/vocdoni/davinci-tally/util"
)

// DeterministicVotePlanID derives a VotePlanID from n, so tests can refer to
// the same vote plan across runs.
func DeterministicVotePlanID(n uint64) types.VotePlanID {
	var seed [8]byte
	binary.BigEndian.PutUint64(seed[:], n)
	var id types.VotePlanID
	copy(id[:], crypto.Keccak256(seed[:]))
	return id
}

// FixedVotePlanID is the vote plan identifier shared by most tests.
func FixedVotePlanID() types.VotePlanID {
	return DeterministicVotePlanID(1)
}

// RandomVotePlanID returns a random VotePlanID.
func RandomVotePlanID() types.VotePlanID {
	var id types.VotePlanID
	copy(id[:], util.RandomBytes(types.VotePlanIDLen))
	return id
}

func result(values []uint64) *types.TallyResult {
	return &types.TallyResult{
		Results: values,
		Options: types.OptionRange{Start: 0, End: uint8(len(values))},
	}
}

// DecryptedTally returns a private tally already decrypted to the given
// per-option totals.
func DecryptedTally(values ...uint64) *types.Tally {
	return &types.Tally{Private: &types.PrivateTally{State: types.PrivateTallyState{
		Decrypted: &types.DecryptedTally{Result: result(values)},
	}}}
}

// EncryptedTally returns a private tally still waiting for decryption.
func EncryptedTally() *types.Tally {
	return &types.Tally{Private: &types.PrivateTally{State: types.PrivateTallyState{
		Encrypted: &types.EncryptedTally{EncryptedTally: types.HexBytes{0xe0, 0xe1}, TotalStake: 100},
	}}}
}

// PublicTally returns a plaintext tally with the given per-option totals.
func PublicTally(values ...uint64) *types.Tally {
	return &types.Tally{Public: &types.PublicTally{Result: result(values)}}
}

// NewVotePlan builds a vote plan with one proposal per tally. A nil tally
// yields a proposal with no tally recorded.
func NewVotePlan(id types.VotePlanID, tallies ...*types.Tally) *types.VotePlan {
	vp := &types.VotePlan{
		ID:           id,
		Payload:      types.PayloadPrivate,
		VoteStart:    types.BlockDate{Epoch: 1},
		VoteEnd:      types.BlockDate{Epoch: 2},
		CommitteeEnd: types.BlockDate{Epoch: 3},
		Proposals:    make([]*types.Proposal, 0, len(tallies)),
	}
	for i, tally := range tallies {
		vp.Proposals = append(vp.Proposals, &types.Proposal{
			Index:      uint8(i),
			ProposalID: crypto.Keccak256(id[:], []byte{byte(i)}),
			Options:    types.OptionRange{Start: 0, End: 2},
			Tally:      tally,
		})
	}
	return vp
}

// DecryptShares returns deterministic share sets: proposals collections of
// perProposal shares each.
func DecryptShares(proposals, perProposal int) [][]types.DecryptShare {
	shares := make([][]types.DecryptShare, proposals)
	for p := range shares {
		shares[p] = make([]types.DecryptShare, perProposal)
		for s := range shares[p] {
			shares[p][s] = crypto.Keccak256([]byte{byte(p), byte(s)})
		}
	}
	return shares
}

// WriteJSON encodes v as JSON into a new file under a temporary directory
// and returns its path.
func WriteJSON(t testing.TB, name string, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return WriteFile(t, name, data)
}

// WriteFile writes data into a new file under a temporary directory and
// returns its path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
