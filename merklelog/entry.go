package merklelog

import (
	"encoding/binary"

	"github.com/ironclad-robotics/attestcore/xcrypto"
)

// EntryID is the composite key a Merkle log orders its entries by. nonce
// disambiguates entries produced within the same microsecond; the pair must
// be unique within one log.
type EntryID struct {
	TimestampUs uint64
	Nonce       uint64
}

// Less reports whether id sorts strictly before other, ordering first by
// TimestampUs then by Nonce, matching the lexicographic ordering the spec
// requires of Entry.
func (id EntryID) Less(other EntryID) bool {
	if id.TimestampUs != other.TimestampUs {
		return id.TimestampUs < other.TimestampUs
	}
	return id.Nonce < other.Nonce
}

// Entry is a single Merkle leaf: a mission log record committing to a
// content hash at a point in (timestamp, nonce) order.
type Entry struct {
	TimestampUs uint64
	Nonce       uint64
	DataHash    xcrypto.Hash256
}

// ID returns the entry's composite ordering key.
func (e Entry) ID() EntryID { return EntryID{TimestampUs: e.TimestampUs, Nonce: e.Nonce} }

// HashLeaf computes the Merkle leaf hash for e:
//
//	leaf(e) = sha256(be_u64(timestamp_us) || be_u64(nonce) || data_hash)
//
// Big-endian fixed-width encoding of the two integers is mandatory so the
// hash is reproducible across implementations regardless of host byte
// order.
func HashLeaf(e Entry) xcrypto.Hash256 {
	var buf [8 + 8]byte
	binary.BigEndian.PutUint64(buf[0:8], e.TimestampUs)
	binary.BigEndian.PutUint64(buf[8:16], e.Nonce)
	return xcrypto.SHA256(buf[:], e.DataHash[:])
}

// HashNode computes an interior Merkle node from its two children, in the
// order they are given (left, right).
func HashNode(left, right xcrypto.Hash256) xcrypto.Hash256 {
	return xcrypto.SHA256(left[:], right[:])
}
