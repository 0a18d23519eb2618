/*
NAME
  image.go

DESCRIPTION
  image.go provides adapters between the streaming codec and the standard
  library image package, and registers QOI with image.Decode.

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
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/pkg/errors"
)

func init() {
	image.RegisterFormat("qoi", string(Magic[:]), Decode, DecodeConfig)
}

// Encode writes m to w as a QOI stream. Images that are not *image.NRGBA
// are converted first. Fully opaque images are declared as 3-channel in
// the header; any translucent pixel promotes the header to 4-channel.
func Encode(w io.Writer, m image.Image) error {
	img, ok := m.(*image.NRGBA)
	if !ok {
		img = image.NewNRGBA(m.Bounds())
		draw.Draw(img, img.Bounds(), m, m.Bounds().Min, draw.Src)
	}

	ch := ChannelsRGBA
	if img.Opaque() {
		ch = ChannelsRGB
	}
	b := img.Bounds()
	h := Header{
		Width:      uint32(b.Dx()),
		Height:     uint32(b.Dy()),
		Channels:   ch,
		ColorSpace: ColorSpaceSRGB,
	}

	_, err := io.Copy(w, NewEncoder(h, &imageSource{img: img}))
	return errors.Wrap(err, "could not write qoi stream")
}

// imageSource yields an NRGBA image's pixels in row-major order.
type imageSource struct {
	img  *image.NRGBA
	x, y int
}

func (s *imageSource) Next() (Pixel, error) {
	b := s.img.Bounds()
	if s.y >= b.Dy() {
		return Pixel{}, io.EOF
	}
	i := s.img.PixOffset(b.Min.X+s.x, b.Min.Y+s.y)
	p := Pixel{s.img.Pix[i], s.img.Pix[i+1], s.img.Pix[i+2], s.img.Pix[i+3]}
	s.x++
	if s.x == b.Dx() {
		s.x = 0
		s.y++
	}
	return p, nil
}

// Decode reads a QOI image from r. Unlike the streaming Decoder it
// enforces the header's pixel count: decoding fails if the stream ends
// before Width*Height pixels, and any excess pixels are left unread.
func Decode(r io.Reader) (image.Image, error) {
	h, d, err := NewDecoder(r)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height)))
	n := int(h.Width) * int(h.Height)
	for i := 0; i < n; i++ {
		px, err := d.Next()
		if err == io.EOF {
			return nil, errors.New("pixel data ended before width*height pixels")
		}
		if err != nil {
			return nil, err
		}
		img.Pix[4*i] = px.R
		img.Pix[4*i+1] = px.G
		img.Pix[4*i+2] = px.B
		img.Pix[4*i+3] = px.A
	}
	return img, nil
}

// DecodeConfig returns the dimensions and colour model of a QOI image
// without decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}
