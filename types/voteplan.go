package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidTally is returned when a tally record does not hold exactly
	// one of its variants.
	ErrInvalidTally = errors.New("invalid tally")
	// ErrInvalidVotePlan is returned when a vote plan misses a required field.
	ErrInvalidVotePlan = errors.New("invalid vote plan")
)

// BlockDate is a ledger date, expressed as an epoch and a slot within it.
type BlockDate struct {
	Epoch  uint32 `json:"epoch"`
	SlotID uint32 `json:"slot_id"`
}

func (d BlockDate) String() string {
	return fmt.Sprintf("%d.%d", d.Epoch, d.SlotID)
}

// OptionRange is the half-open range [Start, End) of choices a proposal
// accepts.
type OptionRange struct {
	Start uint8 `json:"start"`
	End   uint8 `json:"end"`
}

// VotePlan is the recorded status of a vote plan, as reported by the node.
// Only ID and Proposals take part in building a tally certificate, the rest
// of the fields are kept for diagnostics.
type VotePlan struct {
	ID                  VotePlanID  `json:"id"`
	Payload             PayloadType `json:"payload"`
	VoteStart           BlockDate   `json:"vote_start"`
	VoteEnd             BlockDate   `json:"vote_end"`
	CommitteeEnd        BlockDate   `json:"committee_end"`
	CommitteeMemberKeys []HexBytes  `json:"committee_member_keys,omitempty"`
	Proposals           []*Proposal `json:"proposals"`
}

// Proposal is one of the proposals of a vote plan together with the current
// state of its tally.
type Proposal struct {
	Index      uint8       `json:"index"`
	ProposalID HexBytes    `json:"proposal_id"`
	Options    OptionRange `json:"options"`
	Tally      *Tally      `json:"tally"`
	VotesCast  uint64      `json:"votes_cast"`
}

// TallyResult holds the per-option totals of a proposal.
type TallyResult struct {
	Results []uint64    `json:"results"`
	Options OptionRange `json:"options"`
}

// Values returns a copy of the per-option totals.
func (r *TallyResult) Values() []uint64 {
	if r == nil {
		return nil
	}
	return slices.Clone(r.Results)
}

// Tally is the tally state recorded for a proposal. Exactly one of Public or
// Private is set. A proposal with no tally recorded has a nil *Tally.
type Tally struct {
	Public  *PublicTally  `json:"Public,omitempty"`
	Private *PrivateTally `json:"Private,omitempty"`
}

// PublicTally is a tally computed in plaintext by the ledger.
type PublicTally struct {
	Result *TallyResult `json:"result"`
}

// PrivateTally is a tally computed over encrypted votes.
type PrivateTally struct {
	State PrivateTallyState `json:"state"`
}

// PrivateTallyState holds exactly one of Encrypted or Decrypted.
type PrivateTallyState struct {
	Encrypted *EncryptedTally `json:"Encrypted,omitempty"`
	Decrypted *DecryptedTally `json:"Decrypted,omitempty"`
}

// EncryptedTally is a private tally the committee has not decrypted yet.
type EncryptedTally struct {
	EncryptedTally HexBytes `json:"encrypted_tally"`
	TotalStake     uint64   `json:"total_stake"`
}

// DecryptedTally is a private tally whose plaintext result is known.
type DecryptedTally struct {
	Result *TallyResult `json:"result"`
}

// UnmarshalJSON decodes a vote plan status. The id and the proposals list
// are required, and the decoded vote plan must pass Validate.
func (vp *VotePlan) UnmarshalJSON(data []byte) error {
	type votePlan VotePlan
	var v struct {
		votePlan
		ID        *VotePlanID  `json:"id"`
		Proposals *[]*Proposal `json:"proposals"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.ID == nil {
		return fmt.Errorf("%w: missing id", ErrInvalidVotePlan)
	}
	if v.Proposals == nil {
		return fmt.Errorf("%w: missing proposals", ErrInvalidVotePlan)
	}
	plan := VotePlan(v.votePlan)
	plan.ID = *v.ID
	plan.Proposals = *v.Proposals
	for i, p := range plan.Proposals {
		if p == nil {
			return fmt.Errorf("%w: proposal %d is null", ErrInvalidVotePlan, i)
		}
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	*vp = plan
	return nil
}

// Validate checks that the vote plan has a non-zero id and that every
// recorded tally with a plaintext result carries it.
func (vp *VotePlan) Validate() error {
	if vp.ID.IsZero() {
		return fmt.Errorf("%w: zero id", ErrInvalidVotePlan)
	}
	for i, p := range vp.Proposals {
		if p == nil || p.Tally == nil {
			continue
		}
		switch t := p.Tally; {
		case t.Public != nil && t.Public.Result == nil:
			return fmt.Errorf("%w: public tally of proposal %d has no result", ErrInvalidVotePlan, i)
		case t.Private != nil && t.Private.State.Decrypted != nil && t.Private.State.Decrypted.Result == nil:
			return fmt.Errorf("%w: decrypted tally of proposal %d has no result", ErrInvalidVotePlan, i)
		}
	}
	return nil
}

// UnmarshalJSON decodes the externally tagged representation of a tally and
// rejects objects that carry zero or several variants.
func (t *Tally) UnmarshalJSON(data []byte) error {
	type tally Tally
	var v tally
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := countSet(v.Public != nil, v.Private != nil); count != 1 {
		return fmt.Errorf("%w: want exactly one of Public or Private, found %d", ErrInvalidTally, count)
	}
	*t = Tally(v)
	return nil
}

// UnmarshalJSON decodes the externally tagged representation of a private
// tally state and rejects objects that carry zero or several variants.
func (s *PrivateTallyState) UnmarshalJSON(data []byte) error {
	type state PrivateTallyState
	var v state
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := countSet(v.Encrypted != nil, v.Decrypted != nil); count != 1 {
		return fmt.Errorf("%w: want exactly one of Encrypted or Decrypted, found %d", ErrInvalidTally, count)
	}
	*s = PrivateTallyState(v)
	return nil
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
