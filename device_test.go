package sx1255

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linht/sx1255/regs"
)

var errTransfer = errors.New("spi: transfer timed out")

// fakeBus keeps the register file in memory, like a chip that latches
// exactly what it is sent.
type fakeBus struct {
	mem      [regs.Size]byte
	writes   int
	failNext bool
}

func (b *fakeBus) WriteBytes(addr uint8, data []byte) error {
	if b.failNext {
		return errTransfer
	}
	copy(b.mem[addr:], data)
	b.writes++
	return nil
}

func (b *fakeBus) ReadBytes(addr uint8, n int) ([]byte, error) {
	if b.failNext {
		return nil, errTransfer
	}
	out := make([]byte, n)
	copy(out, b.mem[addr:])
	return out, nil
}

func newTestDevice(t *testing.T, bus Bus) *Device {
	t.Helper()
	d, err := NewDevice(bus, SX1255, 32e6)
	require.NoError(t, err)
	return d
}

func TestNewDevice(t *testing.T) {
	_, err := NewDevice(nil, SX1255, 32e6)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDevice(&fakeBus{}, SX1255, 10e6)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDeviceWriteReadRoundTrip(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDevice(t, bus)

	cfg := Defaults()
	require.NoError(t, d.Write(cfg))
	assert.Equal(t, 1, bus.writes, "one burst transaction per write")

	got, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDeviceWriteImage(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDevice(t, bus)
	require.NoError(t, d.Write(Defaults()))

	// Spot-check the wire image against hand-computed datasheet values.
	assert.Equal(t, byte(0x01), bus.mem[regs.AddrMode], "standby")
	assert.Equal(t, []byte{0xD9, 0x00, 0x00}, bus.mem[regs.AddrFrfRx:regs.AddrFrfRx+3])
	assert.Equal(t, []byte{0xD9, 0x00, 0x00}, bus.mem[regs.AddrFrfTx:regs.AddrFrfTx+3])
	assert.Equal(t, byte(0x2E), bus.mem[regs.AddrTxFE1])
	assert.Equal(t, byte(0x2F), bus.mem[regs.AddrRxFE1])
	assert.Equal(t, byte(0xA5), bus.mem[regs.AddrRxFE2])
	assert.Equal(t, byte(0x02), bus.mem[regs.AddrCkSel])
}

func TestDeviceWriteRejectsBeforeBus(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDevice(t, bus)

	cfg := Defaults()
	cfg.Receive.FrequencyHz = 600e6
	err := d.Write(cfg)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Zero(t, bus.writes, "nothing may reach the bus on a failed conversion")
}

func TestDeviceBusErrors(t *testing.T) {
	bus := &fakeBus{failNext: true}
	d := newTestDevice(t, bus)

	err := d.Write(Defaults())
	assert.ErrorIs(t, err, ErrBus)
	assert.ErrorIs(t, err, errTransfer)

	_, err = d.Read()
	assert.ErrorIs(t, err, ErrBus)

	_, err = d.Status()
	assert.ErrorIs(t, err, ErrBus)
}

func TestDeviceReadCorruptFile(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDevice(t, bus)
	require.NoError(t, d.Write(Defaults()))

	// A desynchronized read leaves a reserved LNA code in RXFE1.
	bus.mem[regs.AddrRxFE1] = 0x00
	_, err := d.Read()
	assert.ErrorIs(t, err, regs.ErrDecodeRange)
}

func TestDeviceStatus(t *testing.T) {
	bus := &fakeBus{}
	bus.mem[regs.AddrStat] = regs.StatXOSCReady | regs.StatPLLLockRx
	d := newTestDevice(t, bus)

	st, err := d.Status()
	require.NoError(t, err)
	assert.Equal(t, Status{XoscReady: true, PllLockRx: true}, st)
}

func TestDeviceVersion(t *testing.T) {
	bus := &fakeBus{}
	bus.mem[regs.AddrVersion] = 0x21
	d := newTestDevice(t, bus)

	s, err := d.VersionString()
	require.NoError(t, err)
	assert.Equal(t, "V2A", s)

	assert.Equal(t, "V1", FormatVersion(0x10))
	assert.Equal(t, "V3C", FormatVersion(0x33))
}

func TestDeviceRawRegisterAccess(t *testing.T) {
	bus := &fakeBus{}
	d := newTestDevice(t, bus)

	require.NoError(t, d.WriteRegister(regs.AddrIISM, 0x08))
	v, err := d.ReadRegister(regs.AddrIISM)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x08), v)
}
