// Package fixture builds deterministic test images, optionally carrying an
// Exif block, so tests never depend on binary files checked into the repo.
package fixture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Gradient returns a w×h opaque gradient.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / imax(w-1, 1)),
				G: uint8(y * 255 / imax(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// JPEG encodes a w×h gradient as JPEG.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

// PNG encodes a w×h gradient as PNG.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, Gradient(w, h)); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

// JPEGWithExif encodes a gradient and inserts an Exif APP1 segment built from
// the given IFD0 and Exif sub-IFD entries.
func JPEGWithExif(t testing.TB, w, h int, ifd0, exifIFD []Entry) []byte {
	t.Helper()
	return InsertExif(JPEG(t, w, h), BuildTIFF(ifd0, exifIFD))
}

// Write stores data at dir/rel, creating parent directories.
func Write(t testing.TB, dir, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// ─── Exif builder ────────────────────────────────────────────

// TIFF field types.
const (
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// Common tag ids.
const (
	TagMake          uint16 = 0x010F
	TagModel         uint16 = 0x0110
	TagOrientation   uint16 = 0x0112
	TagExifIFD       uint16 = 0x8769
	TagExposureTime  uint16 = 0x829A
	TagFNumber       uint16 = 0x829D
	TagISO           uint16 = 0x8827
	TagLensMake      uint16 = 0xA433
	TagLensModel     uint16 = 0xA434
	TagLensSpecifics uint16 = 0xA432
)

// Entry is one big-endian encoded IFD entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

var be = binary.BigEndian

// ASCII builds a NUL-terminated string entry.
func ASCII(tag uint16, s string) Entry {
	b := append([]byte(s), 0)
	return Entry{Tag: tag, Type: typeASCII, Count: uint32(len(b)), Data: b}
}

// Short builds a single SHORT entry.
func Short(tag uint16, v uint16) Entry {
	b := make([]byte, 2)
	be.PutUint16(b, v)
	return Entry{Tag: tag, Type: typeShort, Count: 1, Data: b}
}

// Rational builds a single RATIONAL entry.
func Rational(tag uint16, num, den uint32) Entry {
	b := make([]byte, 8)
	be.PutUint32(b, num)
	be.PutUint32(b[4:], den)
	return Entry{Tag: tag, Type: typeRational, Count: 1, Data: b}
}

func long(tag uint16, v uint32) Entry {
	b := make([]byte, 4)
	be.PutUint32(b, v)
	return Entry{Tag: tag, Type: typeLong, Count: 1, Data: b}
}

// BuildTIFF lays out a big-endian TIFF structure with IFD0 and, when exifIFD
// is non-empty, an Exif sub-IFD referenced from IFD0.
func BuildTIFF(ifd0, exifIFD []Entry) []byte {
	ifd0 = append([]Entry(nil), ifd0...)
	if len(exifIFD) > 0 {
		ifd0 = append(ifd0, long(TagExifIFD, 0))
	}
	sortEntries(ifd0)
	sortEntries(exifIFD)

	const headerLen = 8
	exifStart := headerLen + ifdSize(ifd0)
	if len(exifIFD) > 0 {
		for i := range ifd0 {
			if ifd0[i].Tag == TagExifIFD {
				ifd0[i] = long(TagExifIFD, uint32(exifStart))
			}
		}
	}

	out := []byte{'M', 'M', 0, 42, 0, 0, 0, headerLen}
	out = append(out, writeIFD(ifd0, headerLen)...)
	if len(exifIFD) > 0 {
		out = append(out, writeIFD(exifIFD, exifStart)...)
	}
	return out
}

// InsertExif places an APP1 Exif segment holding tiff right after SOI.
func InsertExif(jpegData, tiff []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	be.PutUint16(seg[2:], uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := make([]byte, 0, len(jpegData)+len(seg))
	out = append(out, jpegData[:2]...)
	out = append(out, seg...)
	out = append(out, jpegData[2:]...)
	return out
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Tag < es[j].Tag })
}

func ifdSize(es []Entry) int {
	n := 2 + 12*len(es) + 4
	for _, e := range es {
		if len(e.Data) > 4 {
			n += len(e.Data) + len(e.Data)%2
		}
	}
	return n
}

func writeIFD(es []Entry, start int) []byte {
	out := make([]byte, ifdSize(es))
	be.PutUint16(out, uint16(len(es)))
	dataOff := 2 + 12*len(es) + 4
	for i, e := range es {
		p := 2 + 12*i
		be.PutUint16(out[p:], e.Tag)
		be.PutUint16(out[p+2:], e.Type)
		be.PutUint32(out[p+4:], e.Count)
		if len(e.Data) <= 4 {
			copy(out[p+8:p+12], e.Data)
			continue
		}
		be.PutUint32(out[p+8:], uint32(start+dataOff))
		copy(out[dataOff:], e.Data)
		dataOff += len(e.Data) + len(e.Data)%2
	}
	return out
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
