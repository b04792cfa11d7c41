// Package checkpoint defines the signed, chainable checkpoint record: a
// periodic snapshot that commits to a robot's code/model identity, the
// Merkle root of mission log entries accumulated since the previous
// checkpoint, a hardware-backed monotonic counter, and the hash of the
// previous checkpoint.
//
// A Checkpoint is built via Builder, signed with an xcrypto.Signer, and
// later verified and chained by a caller holding the sequence of
// checkpoints for one (robot, mission) pair. The package never persists or
// transports checkpoints; that is a host concern.
package checkpoint
