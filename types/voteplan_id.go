package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vocdoni/davinci-tally/util"
)

// VotePlanIDLen is the length in bytes of a VotePlanID
const VotePlanIDLen = 32

// VotePlanID identifies a vote plan on the ledger. It is the hash of the vote
// plan declaration, so it is opaque to this package.
type VotePlanID [VotePlanIDLen]byte

// HexStringToVotePlanID parses a VotePlanID from a hex string. It accepts an
// optional "0x" prefix and requires exactly 32 bytes (64 hex chars).
func HexStringToVotePlanID(s string) (VotePlanID, error) {
	s = util.TrimHex(s)
	if len(s) != VotePlanIDLen*2 {
		return VotePlanID{}, fmt.Errorf("invalid vote plan ID hex length %d, want %d", len(s), VotePlanIDLen*2)
	}
	b, err := hexutil.Decode("0x" + s)
	if err != nil {
		return VotePlanID{}, fmt.Errorf("could not decode vote plan ID: %w", err)
	}
	return BytesToVotePlanID(b)
}

// BytesToVotePlanID copies data into a VotePlanID. It fails if data is not
// exactly VotePlanIDLen bytes long.
func BytesToVotePlanID(data []byte) (VotePlanID, error) {
	var id VotePlanID
	if len(data) != VotePlanIDLen {
		return id, fmt.Errorf("invalid vote plan ID length %d, want %d", len(data), VotePlanIDLen)
	}
	copy(id[:], data)
	return id, nil
}

// String returns the "0x" prefixed hex representation of the identifier.
func (id VotePlanID) String() string {
	return hexutil.Encode(id[:])
}

// IsZero reports whether every byte of the identifier is zero.
func (id VotePlanID) IsZero() bool {
	return id == VotePlanID{}
}

// MarshalText implements encoding.TextMarshaler, so the identifier is a hex
// string in JSON documents.
func (id VotePlanID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *VotePlanID) UnmarshalText(data []byte) error {
	parsed, err := HexStringToVotePlanID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
