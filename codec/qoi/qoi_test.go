/*
NAME
  qoi_test.go

DESCRIPTION
  qoi_test.go contains round trip tests across the chunk and stream
  layers, and transcode tests against the canonical QOI reference images
  when present under testdata.

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
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPixelHashRange(t *testing.T) {
	px := randomPixels(4096, 2)
	for _, p := range px {
		if p.hash() > 63 {
			t.Fatalf("hash of %+v is %d, outside the index table", p, p.hash())
		}
	}
	if got := startPixel.hash(); got != 53 {
		t.Errorf("starting pixel hashes to %d, want 53", got)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		pixels []Pixel
	}{
		{"empty", nil},
		{"single", []Pixel{{7, 6, 5, 255}}},
		{"single starting pixel", []Pixel{{0, 0, 0, 255}}},
		{"runs and deltas", append(repeat(gray, 100), randomPixels(100, 3)...)},
		{"random", randomPixels(20000, 4)},
	}

	for _, test := range tests {
		h := Header{Width: uint32(len(test.pixels)), Height: 1, Channels: ChannelsRGBA, ColorSpace: ColorSpaceLinear}
		b := encodeStream(t, h, test.pixels)

		gotH, got := decodePixels(t, b)
		if gotH != h {
			t.Errorf("%s: header not preserved: got %+v, want %+v", test.name, gotH, h)
		}
		if diff := cmp.Diff(test.pixels, got); diff != "" {
			t.Errorf("%s: pixels not preserved (-want +got):\n%s", test.name, diff)
		}
	}
}

func TestChunkLayerRoundTrip(t *testing.T) {
	// Any chunk sequence the encoder emits must survive serialisation
	// and lexing unchanged.
	chunks := encodeChunks(t, randomPixels(5000, 5))

	var b bytes.Buffer
	var buf chunkBuf
	for _, c := range chunks {
		if err := buf.put(c); err != nil {
			t.Fatalf("could not serialise %v chunk: %v", c.Op, err)
		}
		b.Write(buf.bytes())
	}
	b.Write(Footer[:])

	got := decodeChunks(t, b.Bytes())
	if diff := cmp.Diff(chunks, got); diff != "" {
		t.Errorf("chunks not preserved (-want +got):\n%s", diff)
	}
}

func TestEncoderSmallReads(t *testing.T) {
	// Byte-at-a-time pulls produce the same stream as bulk pulls.
	h := Header{Width: 50, Height: 2, Channels: ChannelsRGB}
	px := randomPixels(100, 6)
	want := encodeStream(t, h, px)

	enc := NewEncoder(h, Pixels(px))
	var got []byte
	one := make([]byte, 1)
	for {
		n, err := enc.Read(one)
		if n == 1 {
			got = append(got, one[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
	}
	if !bytes.Equal(got, want) {
		t.Error("single byte reads disagree with bulk reads")
	}
}

// Canonical reference images, compared byte for byte against streams
// produced by the reference encoder. The corpus is not committed; the
// test skips when testdata is absent.
var referenceImages = []string{
	"dice",
	"testcard",
	"testcard_rgba",
	"qoi_logo",
	"kodim10",
	"kodim23",
	"wikipedia_008",
}

func TestReferenceImages(t *testing.T) {
	for _, name := range referenceImages {
		qoiPath := filepath.Join("testdata", name+".qoi")
		pngPath := filepath.Join("testdata", name+".png")
		if _, err := os.Stat(qoiPath); err != nil {
			t.Skipf("reference corpus not present: %v", err)
		}

		want, err := os.ReadFile(qoiPath)
		if err != nil {
			t.Fatalf("could not read reference qoi: %v", err)
		}
		f, err := os.Open(pngPath)
		if err != nil {
			t.Fatalf("could not open reference png: %v", err)
		}
		m, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("could not decode reference png: %v", err)
		}

		h, err := ParseHeader(bytes.NewReader(want))
		if err != nil {
			t.Fatalf("%s: reference header invalid: %v", name, err)
		}

		var got bytes.Buffer
		_, err = io.Copy(&got, NewEncoder(h, &imageSource{img: toNRGBA(m)}))
		if err != nil {
			t.Fatalf("%s: could not encode: %v", name, err)
		}
		if !bytes.Equal(got.Bytes(), want) {
			t.Errorf("%s: encoded stream differs from reference", name)
		}

		gotH, px := decodePixels(t, want)
		if gotH != h {
			t.Errorf("%s: header mismatch: got %+v, want %+v", name, gotH, h)
		}
		if int64(len(px)) != int64(h.Width)*int64(h.Height) {
			t.Errorf("%s: decoded %d pixels, want %d", name, len(px), int64(h.Width)*int64(h.Height))
		}
	}
}

func toNRGBA(m image.Image) *image.NRGBA {
	if img, ok := m.(*image.NRGBA); ok {
		return img
	}
	img := image.NewNRGBA(m.Bounds())
	draw.Draw(img, img.Bounds(), m, m.Bounds().Min, draw.Src)
	return img
}
