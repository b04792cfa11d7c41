/*
Package merklelog implements the checkpoint window log: an ordered container
of Entry values keyed by (timestamp_us, nonce), the leaf-hash and root
computation over them, and inclusion proof generation/verification.

This is deliberately not a Merkle Mountain Range. A checkpoint window's root
must depend only on the *set* of entries accumulated since the previous
checkpoint, never on the order they were appended in, and the window is
reset (Clear) every time a checkpoint seals — there is no cross-window
accumulator to maintain. A plain binary tree over the sorted leaves, with the
standard odd-node-paired-with-itself rule, is the simplest structure that
satisfies that.

Style note: as in go-merklelog/mmr, the hot-path functions here are small,
composable, and explicit about byte layout — HashLeaf and HashNode are pure
functions of their inputs, not methods with hidden state, so they are easy to
test in isolation and easy to reason about independent of Log's container
logic.
*/
package merklelog
