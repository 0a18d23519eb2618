/*
NAME
  encode.go

DESCRIPTION
  encode.go provides the QOI chunk encoder, which selects the shortest
  chunk encoding for each incoming pixel, and the stream encoder, which
  wraps the chunk bytes with the file header and footer.

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

import "io"

// ChunkEncoder turns a pixel sequence into a QOI chunk sequence. Beyond
// the coder state it holds a single pixel of look-ahead, used when an
// arriving pixel terminates a run.
type ChunkEncoder struct {
	state  coderState
	src    PixelSource
	peek   Pixel
	peeked bool
}

// NewChunkEncoder returns a ChunkEncoder drawing pixels from src.
func NewChunkEncoder(src PixelSource) *ChunkEncoder {
	return &ChunkEncoder{state: newCoderState(), src: src}
}

// Next returns the next chunk, or io.EOF once the pixel source is
// exhausted and any pending run has been flushed.
//
// Encodings are tried shortest and simplest first: a pixel equal to the
// previous one extends the current run; otherwise INDEX, then DIFF, then
// LUMA, then RGB, and finally RGBA. DIFF and LUMA are only considered
// when alpha is unchanged.
func (e *ChunkEncoder) Next() (Chunk, error) {
	var px Pixel
	for {
		var err error
		if e.peeked {
			px, e.peeked = e.peek, false
		} else {
			px, err = e.src.Next()
		}
		if err != nil {
			if err != io.EOF {
				return Chunk{}, err
			}
			if e.state.run > 0 {
				run := e.state.run
				e.state.run = 0
				return Chunk{Op: OpRun, Run: run}, nil
			}
			return Chunk{}, io.EOF
		}

		if px != e.state.previous {
			break
		}
		e.state.run++
		if e.state.run == MaxRun {
			// The pixel preceding the run already set previous and its
			// index slot, so neither needs updating here.
			e.state.run = 0
			return Chunk{Op: OpRun, Run: MaxRun}, nil
		}
		if e.state.run == 1 {
			// A first image pixel equal to the implicit starting pixel is
			// absorbed into a run without ever being emitted as its own
			// chunk, so enter it into the zero-initialised index table
			// here. On later runs this write is a no-op.
			e.state.index[px.hash()] = px
		}
	}

	if e.state.run > 0 {
		// px terminates the run. Hold it for the next call and flush the
		// run first.
		e.peek, e.peeked = px, true
		run := e.state.run
		e.state.run = 0
		return Chunk{Op: OpRun, Run: run}, nil
	}

	idx := px.hash()
	var c Chunk
	prev := e.state.previous
	switch {
	case e.state.index[idx] == px:
		// Two consecutive INDEX chunks to the same slot cannot occur:
		// identical neighbours were coalesced into a run above.
		c = Chunk{Op: OpIndex, Idx: idx}
	case px.A == prev.A:
		dr := int8(px.R - prev.R)
		dg := int8(px.G - prev.G)
		db := int8(px.B - prev.B)
		drDg := dr - dg
		dbDg := db - dg
		switch {
		case within(dr, -2, 1) && within(dg, -2, 1) && within(db, -2, 1):
			c = Chunk{Op: OpDiff, Dr: dr, Dg: dg, Db: db}
		case within(dg, -32, 31) && within(drDg, -8, 7) && within(dbDg, -8, 7):
			c = Chunk{Op: OpLuma, Dg: dg, DrDg: drDg, DbDg: dbDg}
		default:
			c = Chunk{Op: OpRGB, R: px.R, G: px.G, B: px.B}
		}
	default:
		// Alpha changed, so the full pixel is needed.
		c = Chunk{Op: OpRGBA, R: px.R, G: px.G, B: px.B, A: px.A}
	}
	e.state.index[idx] = px
	e.state.previous = px
	return c, nil
}

// Encoder stream phases.
const (
	encHeader = iota
	encChunks
	encFooter
	encDone
)

// Encoder encodes a header and pixel sequence to a QOI byte stream. It
// implements io.Reader: consumers pull the header bytes, then the chunk
// bytes, then the footer, after which Read returns io.EOF. Auxiliary
// memory is constant regardless of image size.
//
// The encoder does not stop after Width*Height pixels on its own; the
// source must yield the right number of pixels or the resulting image
// will be malformed.
type Encoder struct {
	chunks *ChunkEncoder
	buf    chunkBuf
	head   []byte
	foot   []byte
	phase  int
}

// NewEncoder returns an Encoder for the given header, drawing pixels
// from src.
func NewEncoder(h Header, src PixelSource) *Encoder {
	return &Encoder{
		chunks: NewChunkEncoder(src),
		head:   h.Bytes(),
		foot:   Footer[:],
	}
}

// Read fills p with the next bytes of the QOI stream.
func (e *Encoder) Read(p []byte) (int, error) {
	var n int
	for n < len(p) {
		switch e.phase {
		case encHeader:
			c := copy(p[n:], e.head)
			n += c
			e.head = e.head[c:]
			if len(e.head) == 0 {
				e.phase = encChunks
			}
		case encChunks:
			if b, ok := e.buf.next(); ok {
				p[n] = b
				n++
				continue
			}
			c, err := e.chunks.Next()
			if err == io.EOF {
				e.phase = encFooter
				continue
			}
			if err != nil {
				return n, err
			}
			if err := e.buf.put(c); err != nil {
				return n, err
			}
		case encFooter:
			c := copy(p[n:], e.foot)
			n += c
			e.foot = e.foot[c:]
			if len(e.foot) == 0 {
				e.phase = encDone
			}
		default:
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
	}
	return n, nil
}
