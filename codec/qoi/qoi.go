/*
NAME
  qoi.go

DESCRIPTION
  qoi.go provides the pixel and coder state types shared by the QOI
  encoder and decoder, along with the constants of the QOI wire format.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// See https://qoiformat.org/qoi-specification.pdf for format specification.

// Package qoi implements a streaming codec for the QOI (Quite OK Image)
// lossless image format. Both directions are pull based and hold constant
// auxiliary memory independent of image size: the encoder turns a header
// and pixel sequence into a QOI byte stream, and the decoder turns a QOI
// byte stream back into the header and pixel sequence.
package qoi

import "io"

// Chunk opcodes. RGB and RGBA occupy a full byte; the remaining four
// families are identified by the high two bits, with the low six bits
// carrying payload.
const (
	opRGB   = 0b11111110
	opRGBA  = 0b11111111
	opIndex = 0b00000000
	opDiff  = 0b01000000
	opLuma  = 0b10000000
	opRun   = 0b11000000

	opMask      = 0b11000000
	payloadMask = 0b00111111
)

// Magic is the 4-byte signature opening every QOI stream.
var Magic = [4]byte{'q', 'o', 'i', 'f'}

// Footer is the 8-byte end-of-stream marker. Its first byte collides with
// a valid INDEX chunk, so the decoder recognises it with 7 bytes of
// look-ahead.
var Footer = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// MaxRun is the longest run a single RUN chunk can carry. The two 6-bit
// values above it are the RGB and RGBA opcodes.
const MaxRun = 62

// indexLen is the size of the running pixel index table.
const indexLen = 64

// Pixel is a single 8-bit-per-channel RGBA pixel.
type Pixel struct {
	R, G, B, A uint8
}

// startPixel is the conceptual pixel preceding the first image pixel. It
// seeds the previous-pixel slot of both codecs. The index table slots
// start at the zero Pixel, not at startPixel.
var startPixel = Pixel{0, 0, 0, 255}

// hash returns p's position in the index table. Byte arithmetic wraps mod
// 256 and 64 divides 256, so no widening is needed.
func (p Pixel) hash() uint8 {
	return (3*p.R + 5*p.G + 7*p.B + 11*p.A) % indexLen
}

// PixelSource is the upstream of an encoder and the downstream interface of
// a decoder: a pull based pixel sequence. Next returns io.EOF once the
// sequence is exhausted.
type PixelSource interface {
	Next() (Pixel, error)
}

// Pixels returns a PixelSource yielding px in order.
func Pixels(px []Pixel) PixelSource {
	return &pixelSlice{px: px}
}

type pixelSlice struct {
	px  []Pixel
	off int
}

func (s *pixelSlice) Next() (Pixel, error) {
	if s.off >= len(s.px) {
		return Pixel{}, io.EOF
	}
	p := s.px[s.off]
	s.off++
	return p, nil
}

// coderState is the rolling state shared by the encode and decode
// directions: the previously coded pixel, the 64-slot index table
// addressed by Pixel.hash, and the length of the run in progress.
// Hash collisions are resolved by overwrite.
type coderState struct {
	previous Pixel
	index    [indexLen]Pixel
	run      uint8
}

func newCoderState() coderState {
	return coderState{previous: startPixel}
}
