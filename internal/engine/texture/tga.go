package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// ErrUnsupportedTGA is returned for TGA variants DecodeTGA cannot read.
var ErrUnsupportedTGA = errors.New("unsupported TGA")

type tgaHeader struct {
	idLength   int
	imageType  byte
	width      int
	height     int
	bpp        int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	h := tgaHeader{
		idLength:   int(data[0]),
		imageType:  data[2],
		width:      int(data[12]) | int(data[13])<<8,
		height:     int(data[14]) | int(data[15])<<8,
		bpp:        int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped", ErrUnsupportedTGA)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("%w: type %d", ErrUnsupportedTGA, h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return h, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedTGA, h.bpp)
	}
	return h, nil
}

// DecodeTGAConfig reads only the TGA header.
func DecodeTGAConfig(data []byte) (image.Config, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixels := data[offset:]
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	bpp := h.bpp / 8

	if h.imageType == TGATypeUncompressed {
		if len(pixels) < h.width*h.height*bpp {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < h.width*h.height; i++ {
			setPixel(img, h, i, readPixel(pixels[i*bpp:], bpp))
		}
		return img, nil
	}

	if err := decodeRLE(img, h, pixels, bpp); err != nil {
		return nil, err
	}
	return img, nil
}

func decodeRLE(img *image.RGBA, h tgaHeader, data []byte, bpp int) error {
	total := h.width * h.height
	pixel, pos := 0, 0

	for pixel < total {
		if pos >= len(data) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, total)
		}
		packet := data[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if pos+bpp > len(data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, total)
			}
			c := readPixel(data[pos:], bpp)
			pos += bpp
			for i := 0; i < count && pixel < total; i++ {
				setPixel(img, h, pixel, c)
				pixel++
			}
			continue
		}

		for i := 0; i < count && pixel < total; i++ {
			if pos+bpp > len(data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, total)
			}
			setPixel(img, h, pixel, readPixel(data[pos:], bpp))
			pos += bpp
			pixel++
		}
	}
	return nil
}

// readPixel reads one BGR(A) pixel.
func readPixel(p []byte, bpp int) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if bpp == 4 {
		c.A = p[3]
	}
	return c
}

// setPixel stores the i-th pixel in file order; rows are bottom-up unless
// the descriptor says otherwise.
func setPixel(img *image.RGBA, h tgaHeader, i int, c color.RGBA) {
	x, y := i%h.width, i/h.width
	if !h.topToBottom {
		y = h.height - 1 - y
	}
	img.SetRGBA(x, y, c)
}
