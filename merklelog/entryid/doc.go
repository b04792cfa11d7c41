// Package entryid generates EntryID values for merklelog.Entry: a
// microsecond timestamp paired with a nonce that disambiguates entries
// produced within the same microsecond and the same worker.
//
// The generator is a snowflake-style counter: a single atomic word holds the
// last-issued (elapsed_us, sequence) pair, and Next advances it with a
// bounded compare-and-swap loop rather than a lock. Two distinct workers
// (e.g. two processes on the same robot, or a robot and a co-located
// sidecar) are kept apart by mixing a configured worker id into the low
// bits of the nonce, so neither can produce a collision with the other even
// if their clocks read the same microsecond.
package entryid
