//go:build unix

package udgram

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// Receiver owns a Unix-domain datagram socket bound to a filesystem path. The
// bound socket can both receive and send. The Receiver owns the backing
// socket file: it removes any stale file at construction and removes its own
// file on Close.
type Receiver struct {
	sender *Sender
	path   string
	logger *slog.Logger
}

// NewReceiver binds a datagram socket at path. Any pre-existing file at path
// is removed first; a removal failure other than "not found" aborts
// construction. Paths longer than MaxPathLen fail with ErrNameTooLong.
//
// logger receives teardown and abnormal-poll diagnostics; nil selects
// slog.Default().
func NewReceiver(path string, logger *slog.Logger) (*Receiver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket file %s: %w", path, err)
	}
	sender, err := NewSender()
	if err != nil {
		return nil, err
	}
	bound := false
	defer func() {
		if !bound {
			if cerr := sender.Close(); cerr != nil {
				logger.Warn("close socket after failed bind", "path", path, "error", cerr)
			}
		}
	}()
	if len(path) > MaxPathLen {
		return nil, fmt.Errorf("bind %s: %w", path, ErrNameTooLong)
	}
	if err := unix.Bind(sender.fd, &unix.SockaddrUnix{Name: path}); err != nil {
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	bound = true
	return &Receiver{sender: sender, path: path, logger: logger}, nil
}

// Path returns the filesystem path the receiver is bound to.
func (r *Receiver) Path() string {
	return r.path
}

// SendTo transmits buf to another bound socket. The bound descriptor is
// reused, so replies carry this receiver's path as their source address.
func (r *Receiver) SendTo(buf []byte, path string) (int, error) {
	return r.sender.SendTo(buf, path)
}

// Close releases the socket and best-effort removes the backing socket file.
// Destruction never fails: problems on either step are logged and swallowed,
// and the returned error is always nil. Close must be called exactly once.
func (r *Receiver) Close() error {
	if err := r.sender.Close(); err != nil {
		r.logger.Warn("close bound socket", "path", r.path, "error", err)
	}
	if err := os.Remove(r.path); err != nil {
		r.logger.Warn("remove socket file", "path", r.path, "error", err)
	}
	return nil
}

// Read waits for a datagram according to policy and copies it into buf.
//
// len(buf) must be exactly MessageSize; anything else is a caller bug and
// panics. A return of (0, nil) means no datagram arrived within the policy's
// wait and is a normal outcome, not end-of-stream. A pending datagram larger
// than MessageSize is consumed and discarded and Read fails with
// ErrMessageTooBig rather than silently truncating.
//
// Any poll condition other than plain readability (hang-up, error, invalid
// descriptor, or readability mixed with those) fails with a *PollError
// carrying the raw flag set. The classification is deliberately coarse: the
// recovery in every case is to Close the receiver and construct a new one.
func (r *Receiver) Read(buf []byte, policy WaitPolicy) (int, error) {
	if len(buf) != MessageSize {
		panic(fmt.Sprintf("udgram: read buffer is %d bytes, must be exactly %d", len(buf), MessageSize))
	}
	fds := []unix.PollFd{{Fd: int32(r.sender.fd), Events: unix.POLLIN}}
	var ready int
	for {
		n, err := unix.Poll(fds, policy.timeout())
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("poll: %w", err)
		}
		ready = n
		break
	}
	if ready == 0 {
		return 0, nil
	}
	if ready != 1 {
		panic(fmt.Sprintf("udgram: poll reported %d ready descriptors, polled 1", ready))
	}
	if fds[0].Revents != unix.POLLIN {
		r.logger.Error("abnormal poll condition on bound socket",
			"path", r.path, "revents", pollFlagString(fds[0].Revents))
		return 0, &PollError{Revents: fds[0].Revents}
	}
	n, _, flags, _, err := unix.Recvmsg(r.sender.fd, buf, nil, 0)
	if err != nil {
		return 0, fmt.Errorf("recvmsg: %w", err)
	}
	// The kernel sets MSG_TRUNC in the returned flags when it had to discard
	// the tail of the datagram.
	if flags&unix.MSG_TRUNC != 0 {
		return 0, fmt.Errorf("datagram longer than %d bytes: %w", MessageSize, ErrMessageTooBig)
	}
	return n, nil
}
