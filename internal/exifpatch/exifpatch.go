// Package exifpatch carries the Exif block of a JPEG over to a re-encoded
// copy. Go's JPEG encoder writes no metadata, so an optimized original would
// otherwise lose camera, lens and exposure tags.
package exifpatch

import (
	"bytes"
	"encoding/binary"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1

	tagOrientation = 0x0112
)

var exifHeader = []byte("Exif\x00\x00")

// Segment returns a copy of the Exif APP1 segment (marker and length
// included) of a JPEG stream, or nil when there is none.
func Segment(jpeg []byte) []byte {
	if len(jpeg) < 4 || jpeg[0] != 0xFF || jpeg[1] != markerSOI {
		return nil
	}
	i := 2
	for i+4 <= len(jpeg) {
		if jpeg[i] != 0xFF {
			return nil
		}
		marker := jpeg[i+1]
		switch {
		case marker == 0xFF:
			// fill byte
			i++
			continue
		case marker == markerSOI || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			i += 2
			continue
		case marker == markerSOS || marker == markerEOI:
			return nil
		}
		n := int(binary.BigEndian.Uint16(jpeg[i+2:]))
		end := i + 2 + n
		if n < 2 || end > len(jpeg) {
			return nil
		}
		if marker == markerAPP1 && bytes.HasPrefix(jpeg[i+4:end], exifHeader) {
			return append([]byte(nil), jpeg[i:end]...)
		}
		i = end
	}
	return nil
}

// ResetOrientation rewrites the IFD0 Orientation value inside an APP1
// segment to 1 (top-left). It reports whether a tag was found and patched.
// The segment is modified in place.
func ResetOrientation(seg []byte) bool {
	const tiffStart = 4 + 6 // marker+length, "Exif\0\0"
	if len(seg) < tiffStart+8 {
		return false
	}
	tiff := seg[tiffStart:]

	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return false
	}

	off := int(order.Uint32(tiff[4:8]))
	if off < 8 || off+2 > len(tiff) {
		return false
	}
	count := int(order.Uint16(tiff[off:]))
	for k := 0; k < count; k++ {
		p := off + 2 + 12*k
		if p+12 > len(tiff) {
			return false
		}
		if order.Uint16(tiff[p:]) != tagOrientation {
			continue
		}
		// SHORT, count 1: value sits left-justified in the offset field.
		order.PutUint16(tiff[p+8:], 1)
		return true
	}
	return false
}

// Transplant copies the Exif segment of src into dst (both JPEG streams),
// with the orientation reset so the already-rotated pixels display upright.
// When src has no Exif block or dst is not a JPEG, dst is returned unchanged.
func Transplant(src, dst []byte) []byte {
	seg := Segment(src)
	if seg == nil || len(dst) < 2 || dst[0] != 0xFF || dst[1] != markerSOI {
		return dst
	}
	ResetOrientation(seg)

	// Drop any Exif block the encoder may already have written.
	if old := Segment(dst); old != nil {
		if idx := bytes.Index(dst, old); idx >= 0 {
			dst = append(append([]byte(nil), dst[:idx]...), dst[idx+len(old):]...)
		}
	}

	out := make([]byte, 0, len(dst)+len(seg))
	out = append(out, dst[:2]...)
	out = append(out, seg...)
	out = append(out, dst[2:]...)
	return out
}
