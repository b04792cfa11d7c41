package entryid

import "errors"

const (
	// WorkerBits is the width reserved in the nonce for the configured worker
	// id. Up to 2^WorkerBits co-located allocators (worker ids 0..MaxWorkerID)
	// can run without risking a collision.
	WorkerBits = 12

	// SeqBits is the width reserved for the per-microsecond sequence counter.
	// A single allocator can issue up to 2^SeqBits entries within the same
	// microsecond before it must advance the clock.
	SeqBits = 14

	// MaxWorkerID is the largest worker id this allocator accepts.
	MaxWorkerID = (1 << WorkerBits) - 1

	seqMask uint64 = (1 << SeqBits) - 1

	// MaxSpins bounds the number of compare-and-swap retries Next will
	// attempt under contention before giving up and returning ErrOverloaded.
	MaxSpins = 100
)

var (
	// ErrWorkerIDRange is returned by NewAllocator when workerID exceeds
	// MaxWorkerID.
	ErrWorkerIDRange = errors.New("entryid: worker id exceeds the bits reserved for it")

	// ErrOverloaded is returned by Next when the allocator could not
	// establish a unique (timestamp_us, nonce) pair within one compare-and-swap
	// attempt plus MaxSpins retries. Callers should back off briefly and retry.
	ErrOverloaded = errors.New("entryid: allocator is overloaded for its configuration")

	// ErrClock is returned by Next if the state it computes is not greater
	// than the last-issued state. Elapsed time is read from the monotonic
	// clock, and no check is made for large forward jumps.
	ErrClock = errors.New("entryid: system clock reading is not usable")
)
