//go:build unix

package udgram

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrNameTooLong is returned when a socket path does not fit the platform's
// sockaddr_un structure. See MaxPathLen.
var ErrNameTooLong = errors.New("socket path too long")

// ErrMessageTooBig is returned when a datagram exceeds MessageSize: on send,
// when the kernel rejects the payload; on receive, when a pending datagram
// would have to be truncated to fit the buffer.
var ErrMessageTooBig = errors.New("datagram exceeds message size")

// ErrPollCondition matches any *PollError via errors.Is. Callers that only
// need "something abnormal happened, rebuild the receiver" can test against
// this sentinel and ignore the flag detail.
var ErrPollCondition = errors.New("unexpected poll condition")

// PollError reports that poll(2) raised a condition other than plain
// readability: hang-up, error, invalid descriptor, or any combination of
// flags. Recovery is the same in every case (close and reconstruct the
// Receiver), so the flags are carried for diagnosis only.
type PollError struct {
	// Revents is the raw revents bitmask poll reported.
	Revents int16
}

func (e *PollError) Error() string {
	return fmt.Sprintf("unexpected poll condition: %s", pollFlagString(e.Revents))
}

// Is reports a match against ErrPollCondition.
func (e *PollError) Is(target error) bool {
	return target == ErrPollCondition
}

// pollFlagString renders a revents bitmask as "POLLHUP|POLLERR (0x18)".
func pollFlagString(revents int16) string {
	var names []string
	for _, f := range []struct {
		bit  int16
		name string
	}{
		{unix.POLLIN, "POLLIN"},
		{unix.POLLPRI, "POLLPRI"},
		{unix.POLLOUT, "POLLOUT"},
		{unix.POLLERR, "POLLERR"},
		{unix.POLLHUP, "POLLHUP"},
		{unix.POLLNVAL, "POLLNVAL"},
	} {
		if revents&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("none (%#x)", uint16(revents))
	}
	return fmt.Sprintf("%s (%#x)", strings.Join(names, "|"), uint16(revents))
}
