/*
NAME
  header.go

DESCRIPTION
  header.go provides the QOI file header and its fixed 14-byte wire
  encoding and parsing.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package qoi

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// HeaderLen is the size of the wire header: magic, width, height,
// channels and colour space.
const HeaderLen = 14

// Channels declares how many channels the image carries. It is
// informational: chunk data codes RGBA regardless.
type Channels uint8

const (
	ChannelsRGB  Channels = 3
	ChannelsRGBA Channels = 4
)

// ColorSpace describes how channel values are to be interpreted. It is
// informational and does not affect coding.
type ColorSpace uint8

const (
	ColorSpaceSRGB   ColorSpace = 0 // sRGB with linear alpha.
	ColorSpaceLinear ColorSpace = 1 // All channels linear.
)

// Header is the QOI file header. Width and height are not validated
// against the pixel sequence; callers needing exact counts cap the
// sequence themselves.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	ColorSpace ColorSpace
}

// Bytes returns the 14-byte wire encoding of h.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderLen)
	copy(b, Magic[:])
	binary.BigEndian.PutUint32(b[4:], h.Width)
	binary.BigEndian.PutUint32(b[8:], h.Height)
	b[12] = byte(h.Channels)
	b[13] = byte(h.ColorSpace)
	return b
}

// ParseHeader reads and validates a header from the prefix of r,
// consuming exactly HeaderLen bytes on success.
func ParseHeader(r io.Reader) (Header, error) {
	var b [HeaderLen]byte
	_, err := io.ReadFull(r, b[:])
	if err != nil {
		return Header{}, errors.Wrap(err, "could not read header")
	}
	if !bytes.Equal(b[:4], Magic[:]) {
		return Header{}, errors.Errorf("bad magic %q", b[:4])
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(b[4:]),
		Height:     binary.BigEndian.Uint32(b[8:]),
		Channels:   Channels(b[12]),
		ColorSpace: ColorSpace(b[13]),
	}
	if h.Channels != ChannelsRGB && h.Channels != ChannelsRGBA {
		return Header{}, errors.Errorf("bad channels value %d", b[12])
	}
	if h.ColorSpace != ColorSpaceSRGB && h.ColorSpace != ColorSpaceLinear {
		return Header{}, errors.Errorf("bad colour space value %d", b[13])
	}
	return h, nil
}
