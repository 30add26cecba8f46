package system

import "encoding/binary"

// keyPresses decodes a run of little-endian input_event records
// (timeval, u16 type, u16 code, s32 value) and returns the codes of the
// key-down events. A trailing partial record is ignored.
func keyPresses(buf []byte, tvSize int) []uint16 {
	eventSize := tvSize + 2 + 2 + 4
	var codes []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == keyPress {
			codes = append(codes, code)
		}
	}
	return codes
}
