package entryid

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ironclad-robotics/attestcore/merklelog"
)

// seqShift is the number of low bits of the internal monotonic word reserved
// for the per-microsecond sequence; the remaining high bits hold elapsed
// microseconds since the allocator started.
const seqShift = SeqBits

// Allocator issues EntryID values that are unique within the process that
// owns it, ordered by wall-clock microsecond, and further ordered by sequence
// (the high bits of the nonce) and then worker id (its low bits) within a
// microsecond. It is safe for concurrent use.
type Allocator struct {
	workerID   uint64
	allowSpins int

	start time.Time // includes the monotonic reading; never call .UTC() on it

	// monotonic packs (elapsed_us << seqShift | seq). It only ever increases.
	monotonic atomic.Uint64
}

// NewAllocator returns an Allocator for the given worker id. workerID must
// fit in WorkerBits bits (0..MaxWorkerID).
func NewAllocator(workerID uint16) (*Allocator, error) {
	if uint32(workerID) > MaxWorkerID {
		return nil, fmt.Errorf("entryid: worker id %d exceeds max %d: %w", workerID, MaxWorkerID, ErrWorkerIDRange)
	}
	return &Allocator{
		workerID:   uint64(workerID),
		allowSpins: MaxSpins,
		start:      time.Now(),
	}, nil
}

// elapsedMicros returns microseconds elapsed since a.start, using the
// process monotonic clock reading so the result never moves backwards
// regardless of wall-clock (NTP) adjustments.
func (a *Allocator) elapsedMicros() uint64 {
	return uint64(time.Since(a.start) / time.Microsecond)
}

// Next returns the next EntryID in the allocator's series. It is monotonic
// within the process: (TimestampUs, Nonce) pairs it returns are strictly
// increasing in insertion order. If the sequence space for the current
// microsecond is exhausted, Next advances to the next microsecond rather
// than blocking; if it cannot establish a unique value within the allocator's
// bounded spin count, it returns ErrOverloaded.
func (a *Allocator) Next() (merklelog.EntryID, error) {
	var next uint64

	for i := 0; i <= a.allowSpins; i++ {
		now := a.elapsedMicros()
		last := a.monotonic.Load()
		lastElapsed := last >> seqShift
		lastSeq := last & seqMask

		switch {
		case now > lastElapsed:
			next = now << seqShift
		case lastSeq == seqMask:
			next = (lastElapsed + 1) << seqShift
		default:
			next = last + 1
		}

		if next <= last {
			return merklelog.EntryID{}, fmt.Errorf("entryid: non-increasing state %d -> %d: %w", last, next, ErrClock)
		}

		if a.monotonic.CompareAndSwap(last, next) {
			elapsed := next >> seqShift
			seq := next & seqMask
			return merklelog.EntryID{
				TimestampUs: uint64(a.start.Add(time.Duration(elapsed) * time.Microsecond).UnixMicro()),
				Nonce:       (seq << WorkerBits) | a.workerID,
			}, nil
		}
	}

	return merklelog.EntryID{}, ErrOverloaded
}
