//go:build unix

package udgram

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Sender owns an unbound Unix-domain datagram socket. It can transmit to any
// bound socket path but cannot receive. A Sender must not be shared across
// goroutines without external synchronization.
type Sender struct {
	fd int
}

// NewSender allocates a datagram socket with close-on-exec set.
func NewSender() (*Sender, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("create unix datagram socket: %w", err)
	}
	return &Sender{fd: fd}, nil
}

// Close releases the socket descriptor. It is the terminal operation on a
// Sender: no call on the instance is valid afterward, and it must be called
// exactly once.
func (s *Sender) Close() error {
	return unix.Close(s.fd)
}

// SendTo transmits buf as a single datagram to the socket bound at path.
//
// len(buf) must not exceed MessageSize; a longer buffer is a caller bug and
// panics. A destination with no bound receiver surfaces the kernel error
// (typically ENOENT or ECONNREFUSED) wrapped for errors.Is. Datagram sends
// are all-or-nothing, so on success the returned count always equals
// len(buf).
func (s *Sender) SendTo(buf []byte, path string) (int, error) {
	if len(buf) > MessageSize {
		panic(fmt.Sprintf("udgram: send buffer is %d bytes, limit is %d", len(buf), MessageSize))
	}
	n, err := unix.SendmsgN(s.fd, buf, nil, &unix.SockaddrUnix{Name: path}, 0)
	if err != nil {
		if err == unix.EMSGSIZE {
			return 0, fmt.Errorf("send to %s: %w", path, ErrMessageTooBig)
		}
		return 0, fmt.Errorf("send to %s: %w", path, err)
	}
	if n != len(buf) {
		panic(fmt.Sprintf("udgram: short datagram send: %d of %d bytes", n, len(buf)))
	}
	return n, nil
}
