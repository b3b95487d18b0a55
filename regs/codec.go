package regs

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldOverflow reports a File field holding a value wider than its
	// declared bit width. The engineering-unit converter never produces such
	// values; hitting this means the File was built by hand, incorrectly.
	ErrFieldOverflow = errors.New("register field overflows its bit width")

	// ErrBufferLength reports a register file image of the wrong size.
	ErrBufferLength = errors.New("register buffer length mismatch")

	// ErrDecodeRange reports an unpacked field code with no datasheet
	// meaning, usually a desynchronized or corrupted device read.
	ErrDecodeRange = errors.New("decoded register field out of range")
)

// Pack serializes the register file into the exact byte image the chip
// expects, one byte per register address, frequency codes MSB first.
// Every field is width-checked before it is shifted into place; on failure
// no buffer is returned.
func Pack(f *File) ([]byte, error) {
	buf := make([]byte, Size)
	for i := range fileFields {
		fd := &fileFields[i]
		v := fd.get(f)
		if !fd.fits(v) {
			return nil, fmt.Errorf("%w: %s value %#x exceeds %d bits",
				ErrFieldOverflow, fd.name, v, fd.width)
		}
		insert(buf, fd, v)
	}
	return buf, nil
}

// Unpack reconstructs a register file from a byte image read back from the
// chip. The buffer must be exactly Size bytes; every extracted code is
// checked against its datasheet domain before the File is returned, so a
// desynchronized read cannot produce a half-decoded result.
func Unpack(buf []byte) (*File, error) {
	if len(buf) != Size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferLength, len(buf), Size)
	}
	var f File
	for i := range fileFields {
		fd := &fileFields[i]
		v := extract(buf, fd)
		if !fd.valid(v) {
			return nil, fmt.Errorf("%w: %s holds reserved code %d", ErrDecodeRange, fd.name, v)
		}
		fd.set(&f, v)
	}
	return &f, nil
}
