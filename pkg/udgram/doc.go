// Package udgram provides a thin, correctness-focused layer over Unix-domain
// datagram sockets for local inter-process communication.
//
// The package exposes two endpoint types. A Sender owns an unbound datagram
// socket and can transmit to any filesystem socket path. A Receiver binds a
// socket to a path and can both send and receive; it owns the backing socket
// file and removes it on Close.
//
// Every payload travels as a single datagram of at most MessageSize bytes.
// Buffers are caller-owned: the package never retains payload data and never
// allocates on the send or receive path.
package udgram
