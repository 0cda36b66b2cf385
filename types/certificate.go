package types

import (
	"errors"
	"fmt"
)

// ErrInvalidCertificate is returned when a certificate value is not a
// consistent instance of its tagged union.
var ErrInvalidCertificate = errors.New("invalid certificate")

// PayloadType tells whether a vote plan, and the tally certificate that
// finalizes it, is public or private.
type PayloadType uint8

const (
	PayloadPublic = PayloadType(iota + 1)
	PayloadPrivate

	PayloadPublicName  = "public"
	PayloadPrivateName = "private"
)

func (p PayloadType) String() string {
	switch p {
	case PayloadPublic:
		return PayloadPublicName
	case PayloadPrivate:
		return PayloadPrivateName
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p PayloadType) MarshalText() ([]byte, error) {
	switch p {
	case PayloadPublic, PayloadPrivate:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("unknown payload type %d", p)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PayloadType) UnmarshalText(data []byte) error {
	switch string(data) {
	case PayloadPublicName:
		*p = PayloadPublic
	case PayloadPrivateName:
		*p = PayloadPrivate
	default:
		return fmt.Errorf("unknown payload type %q", data)
	}
	return nil
}

// CertificateType is the tag of the Certificate union.
type CertificateType uint8

const (
	CertificateTypeVoteTally = CertificateType(iota + 1)

	CertificateTypeVoteTallyName = "vote_tally"
)

func (t CertificateType) String() string {
	if t == CertificateTypeVoteTally {
		return CertificateTypeVoteTallyName
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t CertificateType) MarshalText() ([]byte, error) {
	if t != CertificateTypeVoteTally {
		return nil, fmt.Errorf("unknown certificate type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CertificateType) UnmarshalText(data []byte) error {
	if string(data) != CertificateTypeVoteTallyName {
		return fmt.Errorf("unknown certificate type %q", data)
	}
	*t = CertificateTypeVoteTally
	return nil
}

// DecryptShare is the opaque contribution of one committee member to the
// threshold decryption of a proposal tally.
type DecryptShare = HexBytes

// DecryptedPrivateTallyProposal is the decrypted outcome of one proposal: the
// shares that decrypted it and the resulting per-option totals.
type DecryptedPrivateTallyProposal struct {
	DecryptShares []DecryptShare `json:"decrypt_shares" cbor:"1,keyasint"`
	TallyResult   []uint64       `json:"tally_result" cbor:"2,keyasint"`
}

// DecryptedPrivateTally holds one entry per proposal of the vote plan, in the
// same order as the proposals.
type DecryptedPrivateTally struct {
	Proposals []DecryptedPrivateTallyProposal `json:"proposals" cbor:"1,keyasint"`
}

// NewDecryptedPrivateTally wraps the per-proposal entries.
func NewDecryptedPrivateTally(proposals []DecryptedPrivateTallyProposal) *DecryptedPrivateTally {
	return &DecryptedPrivateTally{Proposals: proposals}
}

// Len returns the number of proposals in the tally.
func (t *DecryptedPrivateTally) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Proposals)
}

// VoteTally finalizes the tally of a vote plan. A public vote tally only
// identifies the vote plan, since the ledger already holds its results. A
// private one also carries the decrypted results.
type VoteTally struct {
	VotePlanID VotePlanID             `json:"vote_plan_id" cbor:"1,keyasint"`
	Payload    PayloadType            `json:"payload" cbor:"2,keyasint"`
	Private    *DecryptedPrivateTally `json:"private,omitempty" cbor:"3,keyasint,omitempty"`
}

// NewPublicVoteTally returns the public tally of the given vote plan.
func NewPublicVoteTally(id VotePlanID) *VoteTally {
	return &VoteTally{VotePlanID: id, Payload: PayloadPublic}
}

// NewPrivateVoteTally returns the private tally of the given vote plan.
func NewPrivateVoteTally(id VotePlanID, tally *DecryptedPrivateTally) *VoteTally {
	return &VoteTally{VotePlanID: id, Payload: PayloadPrivate, Private: tally}
}

// Certificate is a payload submitted to the ledger to record a state
// transition. VoteTally is the only variant defined.
type Certificate struct {
	Type      CertificateType `json:"type" cbor:"1,keyasint"`
	VoteTally *VoteTally      `json:"vote_tally,omitempty" cbor:"2,keyasint,omitempty"`
}

// NewVoteTallyCertificate wraps a vote tally into a certificate.
func NewVoteTallyCertificate(vt *VoteTally) *Certificate {
	return &Certificate{Type: CertificateTypeVoteTally, VoteTally: vt}
}

// Validate checks that the certificate is a consistent value of the union: a
// vote tally is present, a public one carries no payload and a private one
// carries its decrypted tally.
func (c *Certificate) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil certificate", ErrInvalidCertificate)
	}
	if c.Type != CertificateTypeVoteTally {
		return fmt.Errorf("%w: unknown type %d", ErrInvalidCertificate, c.Type)
	}
	vt := c.VoteTally
	if vt == nil {
		return fmt.Errorf("%w: missing vote tally", ErrInvalidCertificate)
	}
	switch vt.Payload {
	case PayloadPublic:
		if vt.Private != nil {
			return fmt.Errorf("%w: public vote tally with private payload", ErrInvalidCertificate)
		}
	case PayloadPrivate:
		if vt.Private == nil {
			return fmt.Errorf("%w: private vote tally without decrypted tally", ErrInvalidCertificate)
		}
	default:
		return fmt.Errorf("%w: unknown payload type %d", ErrInvalidCertificate, vt.Payload)
	}
	return nil
}
