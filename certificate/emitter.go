// Package certificate serializes vote tally certificates and writes them to a
// file or to standard output.
package certificate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vocdoni/davinci-tally/log"
	"github.com/vocdoni/davinci-tally/types"
)

// ErrUnknownFormat is returned for output formats other than the ones listed
// in Formats.
var ErrUnknownFormat = errors.New("unknown certificate format")

// Format is the textual or binary form a certificate is written in.
type Format string

const (
	// FormatHex is the "0x" prefixed hex string of the CBOR encoding,
	// followed by a newline.
	FormatHex Format = "hex"
	// FormatBinary is the raw CBOR encoding.
	FormatBinary Format = "binary"
	// FormatJSON is the indented JSON encoding, followed by a newline.
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatHex, FormatBinary, FormatJSON}

// ParseFormat returns the Format named s. An empty string is FormatHex.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatHex, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q, available formats: %v", ErrUnknownFormat, s, Formats)
}

// Marshal returns the certificate in the given format.
func Marshal(cert *types.Certificate, format Format) ([]byte, error) {
	switch format {
	case FormatHex:
		data, err := Encode(cert, EncodingCBOR)
		if err != nil {
			return nil, err
		}
		return []byte(hexutil.Encode(data) + "\n"), nil
	case FormatBinary:
		return Encode(cert, EncodingCBOR)
	case FormatJSON:
		data, err := Encode(cert, EncodingJSON)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// Unmarshal parses a certificate written by Marshal in the given format.
func Unmarshal(data []byte, format Format) (*types.Certificate, error) {
	switch format {
	case FormatHex:
		raw, err := hexutil.Decode(string(bytes.TrimSpace(data)))
		if err != nil {
			return nil, fmt.Errorf("decode certificate hex: %w", err)
		}
		return Decode(raw, EncodingCBOR)
	case FormatBinary:
		return Decode(data, EncodingCBOR)
	case FormatJSON:
		return Decode(data, EncodingJSON)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// Emitter writes certificates in a fixed format.
type Emitter struct {
	Format Format
	// Stdout receives the certificate when no destination is given. It
	// defaults to os.Stdout.
	Stdout io.Writer
}

// NewEmitter returns an Emitter writing the given format to os.Stdout when
// no destination is given.
func NewEmitter(format Format) *Emitter {
	return &Emitter{Format: format, Stdout: os.Stdout}
}

// Write encodes the certificate and writes it to the file at destination, or
// to standard output if destination is empty. The certificate is encoded
// before the destination is opened, so a failure never leaves a partial
// certificate behind.
func (e *Emitter) Write(destination string, cert *types.Certificate) error {
	data, err := Marshal(cert, e.Format)
	if err != nil {
		return err
	}
	if destination == "" {
		out := e.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("write certificate to standard output: %w", err)
		}
		log.Debugw("certificate written", "destination", "stdout", "format", e.Format, "size", len(data))
		return nil
	}
	if err := writeFile(destination, data); err != nil {
		return fmt.Errorf("write certificate to %s: %w", destination, err)
	}
	log.Debugw("certificate written", "destination", destination, "format", e.Format, "size", len(data))
	return nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = f.Write(data)
	return err
}

// ReadCertificate reads a certificate in the given format from the file at
// source, or from standard input if source is empty.
func ReadCertificate(source string, format Format) (*types.Certificate, error) {
	var (
		data []byte
		err  error
	)
	if source == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	return Unmarshal(data, format)
}
