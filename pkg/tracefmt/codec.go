package tracefmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Format selects an on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatCBOR:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("tracefmt: unknown format %q (want json or cbor)", name)
	}
}

func canonicalMode() (cbor.EncMode, error) {
	opts := cbor.CanonicalEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	mode, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("tracefmt: create CBOR encoder: %w", err)
	}
	return mode, nil
}

// Encode writes t to w. JSON is indented; CBOR uses canonical encoding with
// nil and empty slices encoded alike, so equal traces produce identical
// bytes.
func Encode(w io.Writer, t *Trace, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("tracefmt: encode json: %w", err)
		}
		return nil
	case FormatCBOR:
		mode, err := canonicalMode()
		if err != nil {
			return err
		}
		if err := mode.NewEncoder(w).Encode(t); err != nil {
			return fmt.Errorf("tracefmt: encode cbor: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("tracefmt: unknown format %q", format)
	}
}

// Decode reads a trace written by Encode and checks its version.
func Decode(r io.Reader, format Format) (*Trace, error) {
	var t Trace
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("tracefmt: decode json: %w", err)
		}
	case FormatCBOR:
		if err := cbor.NewDecoder(r).Decode(&t); err != nil {
			return nil, fmt.Errorf("tracefmt: decode cbor: %w", err)
		}
	default:
		return nil, fmt.Errorf("tracefmt: unknown format %q", format)
	}
	if t.Version != Version {
		return nil, fmt.Errorf("tracefmt: unsupported trace version %d", t.Version)
	}
	return &t, nil
}

// Digest fingerprints a trace as "blake2b:<hex>" over its canonical CBOR
// encoding. The revision is excluded so the same program gives the same
// digest at any commit.
func Digest(t *Trace) (string, error) {
	mode, err := canonicalMode()
	if err != nil {
		return "", err
	}
	stripped := *t
	stripped.Revision = ""
	data, err := mode.Marshal(&stripped)
	if err != nil {
		return "", fmt.Errorf("tracefmt: encode for digest: %w", err)
	}
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("blake2b:%x", sum), nil
}
