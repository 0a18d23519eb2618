/*
NAME
  decode.go

DESCRIPTION
  decode.go provides the QOI chunk decoder, which lexes chunks out of a
  byte stream and recognises the end-of-stream footer, and the pixel
  decoder, which expands chunks back into pixels.

AUTHOR
  Trek Hopton <trek@ausocean.org>
  Saxon Nelson-Milton <saxon@ausocean.org>

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
	"io"

	"github.com/ausocean/img/codec/codecutil"
)

// scanBufLen is the size of the chunk decoder's read buffer. It need only
// hold the 7 bytes of footer look-ahead, but a little more keeps upstream
// reads from degenerating to single bytes.
const scanBufLen = 64

// ChunkDecoder lexes QOI chunks out of a byte stream. The stream must not
// include the 14-byte header.
//
// The first footer byte is indistinguishable from an INDEX chunk for slot
// zero, so a leading 0x00 triggers a 7-byte peek: only when all of the
// remaining footer bytes follow has the stream ended, and they are left
// unconsumed.
type ChunkDecoder struct {
	src *codecutil.ByteScanner
}

// NewChunkDecoder returns a ChunkDecoder lexing chunks from r.
func NewChunkDecoder(r io.Reader) *ChunkDecoder {
	return &ChunkDecoder{src: codecutil.NewByteScanner(r, make([]byte, scanBufLen))}
}

// Next returns the next chunk. It returns io.EOF once the footer is
// recognised or the stream is exhausted; a stream truncated mid-chunk
// also ends with io.EOF, indistinguishable from a clean end.
func (d *ChunkDecoder) Next() (Chunk, error) {
	b0, err := d.src.ReadByte()
	if err != nil {
		return Chunk{}, err
	}

	switch b0 {
	case opRGBA:
		var px [4]byte
		for i := range px {
			px[i], err = d.src.ReadByte()
			if err != nil {
				return Chunk{}, err
			}
		}
		return Chunk{Op: OpRGBA, R: px[0], G: px[1], B: px[2], A: px[3]}, nil
	case opRGB:
		var px [3]byte
		for i := range px {
			px[i], err = d.src.ReadByte()
			if err != nil {
				return Chunk{}, err
			}
		}
		return Chunk{Op: OpRGB, R: px[0], G: px[1], B: px[2]}, nil
	}

	switch b0 & opMask {
	case opIndex:
		if b0 == Footer[0] {
			tail, err := d.src.Peek(len(Footer) - 1)
			if err == nil && bytes.Equal(tail, Footer[1:]) {
				return Chunk{}, io.EOF
			}
		}
		return Chunk{Op: OpIndex, Idx: b0 & payloadMask}, nil
	case opDiff:
		return Chunk{
			Op: OpDiff,
			Dr: int8((b0>>4)&0b11) - 2,
			Dg: int8((b0>>2)&0b11) - 2,
			Db: int8(b0&0b11) - 2,
		}, nil
	case opLuma:
		b1, err := d.src.ReadByte()
		if err != nil {
			return Chunk{}, err
		}
		return Chunk{
			Op:   OpLuma,
			Dg:   int8(b0&payloadMask) - 32,
			DrDg: int8((b1>>4)&0b1111) - 8,
			DbDg: int8(b1&0b1111) - 8,
		}, nil
	default:
		// The RGB and RGBA opcodes were handled above, so the on-wire
		// 6-bit value is 0..61, coding run lengths 1..62.
		return Chunk{Op: OpRun, Run: b0&payloadMask + 1}, nil
	}
}

// Decoder decodes a QOI byte stream into pixels. It is constructed with
// NewDecoder, which parses the stream header first.
//
// The decoder does not check that the decoded pixel count matches
// Width*Height from the header; a malformed stream may yield fewer or
// more pixels.
type Decoder struct {
	state  coderState
	chunks *ChunkDecoder
}

// NewDecoder parses a header from the prefix of r and returns it along
// with a Decoder yielding the stream's pixels.
func NewDecoder(r io.Reader) (Header, *Decoder, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	return h, &Decoder{state: newCoderState(), chunks: NewChunkDecoder(r)}, nil
}

// Next returns the next pixel, or io.EOF at end of stream. A RUN chunk
// yields its first pixel immediately and replays the previous pixel on
// subsequent calls until the run is spent.
func (d *Decoder) Next() (Pixel, error) {
	if d.state.run > 0 {
		d.state.run--
		return d.state.previous, nil
	}

	c, err := d.chunks.Next()
	if err != nil {
		return Pixel{}, err
	}

	var px Pixel
	prev := d.state.previous
	switch c.Op {
	case OpRGB:
		px = Pixel{c.R, c.G, c.B, prev.A}
	case OpRGBA:
		px = Pixel{c.R, c.G, c.B, c.A}
	case OpIndex:
		// An index hit copies the table entry and leaves the table alone.
		px = d.state.index[c.Idx]
		d.state.previous = px
		return px, nil
	case OpDiff:
		px = Pixel{
			prev.R + uint8(c.Dr),
			prev.G + uint8(c.Dg),
			prev.B + uint8(c.Db),
			prev.A,
		}
	case OpLuma:
		px = Pixel{
			prev.R + uint8(c.Dg+c.DrDg),
			prev.G + uint8(c.Dg),
			prev.B + uint8(c.Dg+c.DbDg),
			prev.A,
		}
	case OpRun:
		// Replay the remainder on subsequent calls. The index write below
		// is a no-op for conforming streams but keeps the table coherent
		// for out-of-spec input.
		px = prev
		d.state.run = c.Run - 1
	}
	d.state.previous = px
	d.state.index[px.hash()] = px
	return px, nil
}
