/*
NAME
  chunk.go

DESCRIPTION
  chunk.go provides the QOI chunk variant with its semantic payloads and
  the serialisation of a chunk to its 1-5 wire bytes.

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

import "github.com/pkg/errors"

// ChunkOp identifies one of the six QOI chunk encodings.
type ChunkOp uint8

const (
	OpRGB ChunkOp = iota
	OpRGBA
	OpIndex
	OpDiff
	OpLuma
	OpRun
)

func (op ChunkOp) String() string {
	switch op {
	case OpRGB:
		return "RGB"
	case OpRGBA:
		return "RGBA"
	case OpIndex:
		return "INDEX"
	case OpDiff:
		return "DIFF"
	case OpLuma:
		return "LUMA"
	case OpRun:
		return "RUN"
	}
	return "unknown"
}

// Chunk is one QOI chunk with its payload held as semantic values, i.e.
// signed deltas rather than biased wire bits. Only the fields belonging to
// Op are meaningful.
type Chunk struct {
	Op         ChunkOp
	R, G, B, A uint8 // OpRGB, OpRGBA.
	Idx        uint8 // OpIndex: index table slot, 0..63.
	Dr, Dg, Db int8  // OpDiff: per channel deltas, -2..1. Dg is shared with OpLuma, -32..31.
	DrDg, DbDg int8  // OpLuma: red and blue deltas relative to Dg, -8..7.
	Run        uint8 // OpRun: run length, 1..MaxRun.
}

// Payload range errors. The encoder never produces chunks that trip these;
// they guard hand-built chunks.
var (
	errBadIndex = errors.New("index slot outside 0..63")
	errBadDiff  = errors.New("diff delta outside -2..1")
	errBadLuma  = errors.New("luma delta outside range")
	errBadRun   = errors.New("run length outside 1..62")
)

// pixels returns the number of pixels the chunk codes for.
func (c Chunk) pixels() int {
	if c.Op == OpRun {
		return int(c.Run)
	}
	return 1
}

// chunkBuf is scratch space holding the serialised bytes of one chunk,
// yielding them in order exactly once.
type chunkBuf struct {
	data [5]byte
	len  int
	off  int
}

// put serialises c into the buffer, replacing any previous content, and
// fails if a payload is outside its wire range.
func (b *chunkBuf) put(c Chunk) error {
	switch c.Op {
	case OpRGB:
		b.set(opRGB, c.R, c.G, c.B)
	case OpRGBA:
		b.set(opRGBA, c.R, c.G, c.B, c.A)
	case OpIndex:
		if c.Idx > payloadMask {
			return errBadIndex
		}
		b.set(opIndex | c.Idx)
	case OpDiff:
		if !within(c.Dr, -2, 1) || !within(c.Dg, -2, 1) || !within(c.Db, -2, 1) {
			return errBadDiff
		}
		b.set(opDiff | uint8(c.Dr+2)<<4 | uint8(c.Dg+2)<<2 | uint8(c.Db+2))
	case OpLuma:
		if !within(c.Dg, -32, 31) || !within(c.DrDg, -8, 7) || !within(c.DbDg, -8, 7) {
			return errBadLuma
		}
		b.set(opLuma|uint8(c.Dg+32), uint8(c.DrDg+8)<<4|uint8(c.DbDg+8))
	case OpRun:
		// Runs of 63 and 64 would collide with the RGB and RGBA opcodes.
		if c.Run < 1 || c.Run > MaxRun {
			return errBadRun
		}
		b.set(opRun | (c.Run - 1))
	default:
		return errors.Errorf("unknown chunk op %d", c.Op)
	}
	return nil
}

func (b *chunkBuf) set(data ...byte) {
	b.len = copy(b.data[:], data)
	b.off = 0
}

// next pops the next serialised byte, reporting false once drained.
func (b *chunkBuf) next() (byte, bool) {
	if b.off >= b.len {
		return 0, false
	}
	v := b.data[b.off]
	b.off++
	return v, true
}

// bytes returns the unread remainder of the buffer.
func (b *chunkBuf) bytes() []byte {
	return b.data[b.off:b.len]
}

func within(v, lo, hi int8) bool {
	return lo <= v && v <= hi
}
