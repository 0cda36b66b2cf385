package certificate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/davinci-tally/types"
)

// Encoding defines the encoding formats for certificates. There are two
// supported formats: EncodingCBOR and EncodingJSON.
type Encoding int

const (
	// EncodingCBOR is the canonical binary encoding, the one submitted to
	// the ledger.
	EncodingCBOR Encoding = iota
	// EncodingJSON is a human readable encoding, for inspection.
	EncodingJSON
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("certificate: cbor encoding mode: %v", err))
	}
	if decMode, err = (cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}).DecMode(); err != nil {
		panic(fmt.Sprintf("certificate: cbor decoding mode: %v", err))
	}
}

// Encode validates the certificate and encodes it into the given format.
func Encode(cert *types.Certificate, encoding Encoding) ([]byte, error) {
	if err := cert.Validate(); err != nil {
		return nil, err
	}
	switch encoding {
	case EncodingCBOR:
		data, err := encMode.Marshal(cert)
		if err != nil {
			return nil, fmt.Errorf("encode certificate: %w", err)
		}
		return data, nil
	case EncodingJSON:
		data, err := json.MarshalIndent(cert, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode certificate: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown certificate encoding: %d", encoding)
	}
}

// Decode decodes a certificate from the given format and validates it.
func Decode(data []byte, encoding Encoding) (*types.Certificate, error) {
	cert := new(types.Certificate)
	var err error
	switch encoding {
	case EncodingCBOR:
		err = decMode.Unmarshal(data, cert)
	case EncodingJSON:
		err = decodeJSON(data, cert)
	default:
		return nil, fmt.Errorf("unknown certificate encoding: %d", encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("decode certificate: %w", err)
	}
	if err := cert.Validate(); err != nil {
		return nil, err
	}
	return cert, nil
}

// decodeJSON is as strict as decMode: unknown fields and trailing data are
// rejected.
func decodeJSON(data []byte, cert *types.Certificate) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cert); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after certificate")
	}
	return nil
}

// Digest returns the keccak256 hash of the canonical encoding of the
// certificate. It identifies the certificate in logs.
func Digest(cert *types.Certificate) (common.Hash, error) {
	data, err := Encode(cert, EncodingCBOR)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}
