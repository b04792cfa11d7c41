package cbor

import (
	"bytes"
	"fmt"
)

// Validate independently re-walks b as a CBOR item stream and confirms it
// satisfies the canonical encoding profile: minimal-length integers, no
// indefinite-length constructs, map keys sorted by their encoded byte
// representation, and no floating-point values. It does not trust that b
// came from this package's encoder — Codec.Marshal callers MUST run their
// own output through Validate before signing or hashing it, per the
// "producers MUST re-validate their own output" contract.
//
// Validate reports only the first violation found; b may contain more than
// one.
func Validate(b []byte) error {
	rest, err := validateItem(b)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("%w: %d trailing bytes after top-level item", ErrMalformed, len(rest))
	}
	return nil
}

// validateItem validates one CBOR data item at the front of b and returns the
// remaining bytes.
func validateItem(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	}

	major := b[0] >> 5
	ai := b[0] & 0x1f

	switch major {
	case 0, 1: // unsigned / negative integer
		_, rest, err := readMinimalArg(b)
		return rest, err

	case 2, 3: // byte string / text string
		n, rest, err := readMinimalArg(b)
		if err != nil {
			return nil, err
		}
		if ai == 31 {
			return nil, &CanonicalityViolation{Kind: IndefiniteLength, Detail: "indefinite-length byte/text string"}
		}
		if uint64(len(rest)) < n {
			return nil, fmt.Errorf("%w: string body truncated", ErrMalformed)
		}
		return rest[n:], nil

	case 4: // array
		if ai == 31 {
			return nil, &CanonicalityViolation{Kind: IndefiniteLength, Detail: "indefinite-length array"}
		}
		n, rest, err := readMinimalArg(b)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			item := rest
			rest, err = validateItem(item)
			if err != nil {
				if v, ok := err.(*CanonicalityViolation); ok {
					v.Offset += len(b) - len(item)
				}
				return nil, err
			}
		}
		return rest, nil

	case 5: // map
		if ai == 31 {
			return nil, &CanonicalityViolation{Kind: IndefiniteLength, Detail: "indefinite-length map"}
		}
		n, rest, err := readMinimalArg(b)
		if err != nil {
			return nil, err
		}
		var prevKey []byte
		for i := uint64(0); i < n; i++ {
			keyStart := rest
			rest, err = validateItem(rest)
			if err != nil {
				if v, ok := err.(*CanonicalityViolation); ok {
					v.Offset += len(b) - len(keyStart)
				}
				return nil, err
			}
			key := keyStart[:len(keyStart)-len(rest)]
			if prevKey != nil && bytes.Compare(prevKey, key) >= 0 {
				return nil, &CanonicalityViolation{Kind: UnsortedMapKey, Offset: len(b) - len(keyStart), Detail: "map key not strictly greater than previous key's encoded bytes"}
			}
			prevKey = key

			valueStart := rest
			rest, err = validateItem(rest) // value
			if err != nil {
				if v, ok := err.(*CanonicalityViolation); ok {
					v.Offset += len(b) - len(valueStart)
				}
				return nil, err
			}
		}
		return rest, nil

	case 6: // tag — the decode profile forbids tags entirely
		return nil, fmt.Errorf("%w: tags are not permitted by the canonical profile", ErrMalformed)

	case 7: // simple values / floats
		switch ai {
		case 20, 21, 22, 23: // false, true, null, undefined
			return b[1:], nil
		case 24: // simple value, 1 byte follows
			if len(b) < 2 {
				return nil, fmt.Errorf("%w: truncated simple value", ErrMalformed)
			}
			if b[1] < 32 {
				return nil, &CanonicalityViolation{Kind: NonMinimalInt, Detail: "simple value should use short form"}
			}
			return b[2:], nil
		case 25, 26, 27: // half/single/double float
			return nil, &CanonicalityViolation{Kind: DisallowedMajorType, Detail: "floating point is not permitted by the data model"}
		case 31:
			return nil, &CanonicalityViolation{Kind: IndefiniteLength, Detail: "break stop code outside indefinite-length container"}
		default:
			return b[1:], nil
		}
	}

	return nil, fmt.Errorf("%w: unreachable major type %d", ErrMalformed, major)
}

// readMinimalArg reads the argument (length/value) encoded in the initial
// byte(s) of a CBOR item, and confirms it used the shortest possible form.
// Returns the argument value and the bytes remaining after the head.
func readMinimalArg(b []byte) (uint64, []byte, error) {
	ai := b[0] & 0x1f

	switch {
	case ai < 24:
		return uint64(ai), b[1:], nil

	case ai == 24:
		if len(b) < 2 {
			return 0, nil, fmt.Errorf("%w: truncated argument", ErrMalformed)
		}
		v := uint64(b[1])
		if v < 24 {
			return 0, nil, &CanonicalityViolation{Kind: NonMinimalInt, Detail: "1-byte argument should have used short form"}
		}
		return v, b[2:], nil

	case ai == 25:
		if len(b) < 3 {
			return 0, nil, fmt.Errorf("%w: truncated argument", ErrMalformed)
		}
		v := uint64(b[1])<<8 | uint64(b[2])
		if v <= 0xff {
			return 0, nil, &CanonicalityViolation{Kind: NonMinimalInt, Detail: "2-byte argument fits in 1 byte"}
		}
		return v, b[3:], nil

	case ai == 26:
		if len(b) < 5 {
			return 0, nil, fmt.Errorf("%w: truncated argument", ErrMalformed)
		}
		v := uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
		if v <= 0xffff {
			return 0, nil, &CanonicalityViolation{Kind: NonMinimalInt, Detail: "4-byte argument fits in 2 bytes"}
		}
		return v, b[5:], nil

	case ai == 27:
		if len(b) < 9 {
			return 0, nil, fmt.Errorf("%w: truncated argument", ErrMalformed)
		}
		var v uint64
		for _, c := range b[1:9] {
			v = v<<8 | uint64(c)
		}
		if v <= 0xffffffff {
			return 0, nil, &CanonicalityViolation{Kind: NonMinimalInt, Detail: "8-byte argument fits in 4 bytes"}
		}
		return v, b[9:], nil

	case ai == 31:
		// Indefinite length: caller (byte/text string, array, map cases)
		// detects this via ai itself; for integers ai==31 is simply invalid.
		return 0, nil, &CanonicalityViolation{Kind: IndefiniteLength, Detail: "indefinite-length argument"}

	default: // 28,29,30 reserved
		return 0, nil, fmt.Errorf("%w: reserved additional info %d", ErrMalformed, ai)
	}
}
