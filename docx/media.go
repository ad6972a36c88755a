package docx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
	"os"
	"path/filepath"

	"github.com/tsawler/reportgen/canvas"
	"github.com/tsawler/reportgen/format"
)

// defaultDPI is assumed when an image carries no resolution information.
const defaultDPI = 72

// mediaPart is an image stored under word/media.
type mediaPart struct {
	name        string // file name inside word/media
	relID       string
	data        []byte
	format      format.Format
	contentType string
}

// picture is an inline picture placed in a run.
type picture struct {
	id     int
	name   string
	relID  string
	width  canvas.Length
	height canvas.Length
}

// ImageInfo describes an image file that can be placed in a document.
type ImageInfo struct {
	Format format.Format
	Width  int // pixels
	Height int // pixels
	DPIX   float64
	DPIY   float64
}

// NaturalSize returns the image's size at its own resolution.
func (i ImageInfo) NaturalSize() (canvas.Length, canvas.Length) {
	w := canvas.Length(float64(i.Width) / i.DPIX * canvas.EMUPerInch)
	h := canvas.Length(float64(i.Height) / i.DPIY * canvas.EMUPerInch)
	return w, h
}

// ProbeImage reads the format, pixel size and resolution of an image.
// Only JPEG and PNG images are supported.
func ProbeImage(data []byte) (ImageInfo, error) {
	f := format.DetectFromMagic(data)
	if f != format.JPEG && f != format.PNG {
		return ImageInfo{}, fmt.Errorf("unsupported image format")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("image has no pixels")
	}

	info := ImageInfo{Format: f, Width: cfg.Width, Height: cfg.Height}
	switch f {
	case format.PNG:
		info.DPIX, info.DPIY = pngDPI(data)
	case format.JPEG:
		info.DPIX, info.DPIY = jpegDPI(data)
	}
	if info.DPIX <= 0 {
		info.DPIX = defaultDPI
	}
	if info.DPIY <= 0 {
		info.DPIY = defaultDPI
	}
	return info, nil
}

// pngDPI reads the pHYs chunk of a PNG file.
func pngDPI(data []byte) (float64, float64) {
	pos := 8 // signature
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		typ := string(data[pos+4 : pos+8])
		start := pos + 8
		if length < 0 || start+length > len(data) {
			return 0, 0
		}
		switch typ {
		case "pHYs":
			if length < 9 {
				return 0, 0
			}
			x := binary.BigEndian.Uint32(data[start:])
			y := binary.BigEndian.Uint32(data[start+4:])
			if data[start+8] != 1 { // unit is not metres
				return 0, 0
			}
			return float64(x) * 0.0254, float64(y) * 0.0254
		case "IDAT", "IEND":
			return 0, 0
		}
		pos = start + length + 4 // skip CRC
	}
	return 0, 0
}

// jpegDPI reads the density fields of a JFIF APP0 segment.
func jpegDPI(data []byte) (float64, float64) {
	pos := 2 // SOI
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0, 0
		}
		marker := data[pos+1]
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		seg := pos + 4
		if seg+length-2 > len(data) {
			return 0, 0
		}
		if marker == 0xE0 && length >= 14 && string(data[seg:seg+5]) == "JFIF\x00" {
			units := data[seg+7]
			x := float64(binary.BigEndian.Uint16(data[seg+8:]))
			y := float64(binary.BigEndian.Uint16(data[seg+10:]))
			switch units {
			case 1:
				return x, y
			case 2:
				return x * 2.54, y * 2.54
			}
			return 0, 0
		}
		if marker == 0xDA { // start of scan
			return 0, 0
		}
		pos = seg + length - 2
	}
	return 0, 0
}

// addPicture registers the image at path as a media part and returns the
// picture scaled to the requested size. A positive maxWidth scales a
// natural-size picture down to fit.
func (d *Document) addPicture(path string, width, height, maxWidth canvas.Length) (*picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	info, err := ProbeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	nw, nh := info.NaturalSize()
	switch {
	case width == 0 && height == 0:
		width, height = nw, nh
		if maxWidth > 0 && width > maxWidth {
			height = canvas.Length(float64(height) * float64(maxWidth) / float64(width))
			width = maxWidth
		}
	case width == 0:
		width = canvas.Length(float64(nw) * float64(height) / float64(nh))
	case height == 0:
		height = canvas.Length(float64(nh) * float64(width) / float64(nw))
	}

	n := len(d.media) + 1
	part := mediaPart{
		name:        fmt.Sprintf("reportgen_image%d%s", n, info.Format.Extension()),
		relID:       fmt.Sprintf("rIdRG%d", n),
		data:        data,
		format:      info.Format,
		contentType: info.Format.MIMEType(),
	}
	d.media = append(d.media, part)

	return &picture{
		id:     d.newID() + drawingIDBase,
		name:   filepath.Base(path),
		relID:  part.relID,
		width:  width,
		height: height,
	}, nil
}

// drawingIDBase keeps generated drawing ids clear of ids a template uses.
const drawingIDBase = 1000
