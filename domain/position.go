package domain

import (
	"sync/atomic"
	"time"
)

var lastPosition int64

// NextPosition returns a wall-clock derived sort key, strictly increasing
// across calls within the process. Columns sort position-descending, so a
// fresh position puts the task at the top of its column on the next
// projection.
func NextPosition() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastPosition)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastPosition, last, now) {
			return now
		}
	}
}
