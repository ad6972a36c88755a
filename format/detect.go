// Package format provides file format detection for the inputs and outputs
// of report generation: spreadsheets, Word documents and templates, image
// archives and the images placed in photo grids.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// DOTX indicates a Microsoft Word (.dotx) template.
	DOTX
	// ZIP indicates a plain ZIP archive.
	ZIP
	// JPEG indicates a JPEG image.
	JPEG
	// PNG indicates a PNG image.
	PNG
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case XLSX:
		return "XLSX"
	case DOCX:
		return "DOCX"
	case DOTX:
		return "DOTX"
	case ZIP:
		return "ZIP"
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case XLSX:
		return ".xlsx"
	case DOCX:
		return ".docx"
	case DOTX:
		return ".dotx"
	case ZIP:
		return ".zip"
	case JPEG:
		return ".jpeg"
	case PNG:
		return ".png"
	default:
		return ""
	}
}

// MIMEType returns the content type used for the format inside OOXML packages.
func (f Format) MIMEType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case DOTX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.template"
	case ZIP:
		return "application/zip"
	case JPEG:
		return "image/jpeg"
	case PNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether the format can be placed in a photo grid.
func (f Format) IsImage() bool {
	return f == JPEG || f == PNG
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return XLSX
	case ".docx":
		return DOCX
	case ".dotx":
		return DOTX
	case ".zip":
		return ZIP
	case ".jpg", ".jpeg":
		return JPEG
	case ".png":
		return PNG
	default:
		return Unknown
	}
}

// IsImageFile reports whether filename carries an image extension
// (jpg, jpeg or png, any case).
func IsImageFile(filename string) bool {
	return Detect(filename).IsImage()
}

// DetectFromMagic checks file magic bytes to determine format.
// ZIP-based formats are reported as ZIP; use DetectFromReader to tell
// XLSX, DOCX and DOTX apart.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return JPEG
	}

	// PNG: \x89PNG\r\n\x1a\n
	if len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")) {
		return PNG
	}

	// ZIP magic: PK\x03\x04 (PK\x05\x06 for an empty archive)
	if data[0] == 0x50 && data[1] == 0x4B && (data[2] == 0x03 && data[3] == 0x04 || data[2] == 0x05 && data[3] == 0x06) {
		return ZIP
	}

	return Unknown
}

// DetectFromReader inspects the content to determine format.
// This is more reliable than extension-based detection and can
// distinguish between different ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 16)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	f := DetectFromMagic(magic)
	if f != ZIP {
		return f, nil
	}
	return detectZIPFormat(r, size)
}

// detectZIPFormat inspects a ZIP archive to determine if it's an OOXML
// package or a plain archive.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var contentTypes *zip.File
	hasWord, hasXL := false, false
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			contentTypes = f
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		case strings.HasPrefix(f.Name, "xl/"):
			hasXL = true
		}
	}

	if contentTypes == nil {
		return ZIP, nil
	}
	switch {
	case hasXL:
		return XLSX, nil
	case hasWord:
		rc, err := contentTypes.Open()
		if err != nil {
			return DOCX, nil
		}
		defer rc.Close()
		data, _ := io.ReadAll(io.LimitReader(rc, 1<<20))
		if bytes.Contains(data, []byte("wordprocessingml.template.main+xml")) {
			return DOTX, nil
		}
		return DOCX, nil
	}
	return ZIP, nil
}
