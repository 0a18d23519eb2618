/*
NAME
  bytescanner.go

AUTHOR
  Dan Kortschak <dan@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codecutil provides shared scanning utilities for codecs.
package codecutil

import (
	"io"

	"github.com/pkg/errors"
)

// ErrPeekTooLong is returned by ByteScanner.Peek when the request exceeds
// the scanner's buffer capacity.
var ErrPeekTooLong = errors.New("peek longer than scanner buffer")

// ByteScanner is a byte scanner over an io.Reader that supports bounded
// look-ahead. Peeking then reading yields the same byte sequence as
// reading directly.
type ByteScanner struct {
	buf []byte
	off int

	// r is the source of data for the scanner.
	r io.Reader
}

// NewByteScanner returns a scanner initialised with an io.Reader and a
// read buffer. The buffer's capacity bounds both the size of upstream
// reads and the longest possible peek.
func NewByteScanner(r io.Reader, buf []byte) *ByteScanner {
	return &ByteScanner{r: r, buf: buf[:0]}
}

// ReadByte reads and consumes one byte from the source.
func (c *ByteScanner) ReadByte() (byte, error) {
	if c.off >= len(c.buf) {
		err := c.reload()
		if err != nil {
			return 0, err
		}
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Peek returns the next n bytes without consuming them. If fewer than n
// bytes remain before the source is exhausted, the available bytes are
// returned along with the source's error.
func (c *ByteScanner) Peek(n int) ([]byte, error) {
	if n > cap(c.buf) {
		return nil, ErrPeekTooLong
	}

	// Shift the unread remainder to the front to make room for a refill.
	if c.off+n > cap(c.buf) {
		c.buf = c.buf[:copy(c.buf[:cap(c.buf)], c.buf[c.off:])]
		c.off = 0
	}

	for len(c.buf)-c.off < n {
		m, err := c.r.Read(c.buf[len(c.buf):cap(c.buf)])
		c.buf = c.buf[:len(c.buf)+m]
		if len(c.buf)-c.off >= n {
			break
		}
		if err != nil {
			return c.buf[c.off:], err
		}
	}
	return c.buf[c.off : c.off+n], nil
}

// reload re-fills the scanner's buffer.
func (c *ByteScanner) reload() error {
	n, err := c.r.Read(c.buf[:cap(c.buf)])
	c.buf = c.buf[:n]
	if err != nil {
		if err != io.EOF {
			return err
		}
		if n == 0 {
			return io.EOF
		}
	}
	c.off = 0
	return nil
}
