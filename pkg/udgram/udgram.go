//go:build unix

package udgram

import (
	"math"
	"time"

	"golang.org/x/sys/unix"
)

// MessageSize is the fixed datagram payload capacity, in bytes. It is the
// largest size guaranteed to fit a single Unix-domain datagram on every
// supported platform without touching socket buffer options. Send buffers may
// be shorter; read buffers must be exactly this long.
const MessageSize = 2048

// maxSunPath is the capacity of sockaddr_un's path field on this platform
// (108 on Linux, 104 on Darwin), including the NUL terminator.
const maxSunPath = len(unix.RawSockaddrUnix{}.Path)

// MaxPathLen is the longest socket path a Receiver can bind, excluding the
// trailing NUL the kernel requires inside sockaddr_un.
const MaxPathLen = maxSunPath - 1

// WaitPolicy controls how long Read waits for a datagram. The zero value is
// NoWait. Use WaitFor for a bounded wait.
type WaitPolicy int32

const (
	// NoWait returns immediately whether or not a datagram is pending.
	NoWait WaitPolicy = 0

	// WaitForever blocks until a datagram or an abnormal socket condition
	// arrives.
	WaitForever WaitPolicy = -1
)

// WaitFor returns a policy that blocks for at most d. Durations of zero or
// less behave like NoWait; positive durations under a millisecond round up to
// one so a bounded wait never degrades into a non-blocking one.
func WaitFor(d time.Duration) WaitPolicy {
	if d <= 0 {
		return NoWait
	}
	ms := d.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	if ms > math.MaxInt32 {
		ms = math.MaxInt32
	}
	return WaitPolicy(ms)
}

// timeout converts the policy to a poll(2) timeout in milliseconds.
func (p WaitPolicy) timeout() int {
	if p < 0 {
		return -1
	}
	return int(p)
}
