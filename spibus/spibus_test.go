package spibus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFrame(t *testing.T) {
	tx := writeFrame(0x01, []byte{0xD9, 0x00, 0x00})
	assert.Equal(t, []byte{0x81, 0xD9, 0x00, 0x00}, tx)
}

func TestReadFrame(t *testing.T) {
	tx := readFrame(0x91, 3)
	assert.Equal(t, []byte{0x11, 0x00, 0x00, 0x00}, tx, "write flag must be cleared")
}
