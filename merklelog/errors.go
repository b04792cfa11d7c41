package merklelog

import "errors"

var (
	// ErrEntryNotFound is returned by Proof when no entry with the requested
	// EntryID is present in the log.
	ErrEntryNotFound = errors.New("merklelog: entry not found")

	// ErrVerifyInclusionFailed names a failed inclusion check: the recomputed
	// root, or the proof's own carried root, does not match the expected
	// root. VerifyProof reports that case by returning false and does not
	// return this error.
	ErrVerifyInclusionFailed = errors.New("merklelog: inclusion proof verification failed")
)
