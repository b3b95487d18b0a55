package sx1255

import (
	"fmt"

	"github.com/linht/sx1255/regs"
)

// Bus is the narrow capability the library needs from the register
// transport: write a byte sequence starting at a register address, or read
// one back. Implementations (SPI, mocks) are expected to serialize
// concurrent access to the same chip; this package does not lock.
type Bus interface {
	WriteBytes(addr uint8, data []byte) error
	ReadBytes(addr uint8, n int) ([]byte, error)
}

// Device binds a bus capability to one chip instance. All methods are
// synchronous and stateless between calls: each write converts, packs and
// pushes the full register file in a single burst; each read is the exact
// reverse. Bus failures surface as ErrBus without retry.
type Device struct {
	bus       Bus
	chip      Chip
	crystalHz float64
}

// NewDevice wires a bus to a chip. crystalHz is the measured crystal
// frequency, 32 to 36.864 MHz.
func NewDevice(bus Bus, chip Chip, crystalHz float64) (*Device, error) {
	if bus == nil {
		return nil, fmt.Errorf("%w: nil bus", ErrInvalidConfiguration)
	}
	if err := checkCrystal(crystalHz); err != nil {
		return nil, err
	}
	return &Device{bus: bus, chip: chip, crystalHz: crystalHz}, nil
}

// Chip returns the configured family member.
func (d *Device) Chip() Chip { return d.chip }

// CrystalHz returns the configured crystal frequency.
func (d *Device) CrystalHz() float64 { return d.crystalHz }

// Write converts the engineering-unit configuration and pushes the packed
// register file to the chip in one burst starting at address 0. Nothing
// reaches the bus unless the whole configuration converts cleanly.
func (d *Device) Write(c *Control) error {
	f, err := c.Registers(d.chip, d.crystalHz)
	if err != nil {
		return err
	}
	buf, err := regs.Pack(f)
	if err != nil {
		return err
	}
	if err := d.bus.WriteBytes(regs.AddrMode, buf); err != nil {
		return fmt.Errorf("%w: writing register file: %w", ErrBus, err)
	}
	return nil
}

// Read pulls the full register file back from the chip and converts it to
// engineering units.
func (d *Device) Read() (*Control, error) {
	f, err := d.ReadFile()
	if err != nil {
		return nil, err
	}
	return controlFromRegisters(f, d.chip, d.crystalHz)
}

// ReadFile pulls the register file and decodes it to the hardware model
// without unit conversion.
func (d *Device) ReadFile() (*regs.File, error) {
	buf, err := d.bus.ReadBytes(regs.AddrMode, regs.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: reading register file: %w", ErrBus, err)
	}
	return regs.Unpack(buf)
}

// Status reads and decodes the STAT register.
func (d *Device) Status() (Status, error) {
	b, err := d.readByte(regs.AddrStat)
	if err != nil {
		return Status{}, err
	}
	return Status{
		BatteryLow: b&regs.StatEOL != 0,
		XoscReady:  b&regs.StatXOSCReady != 0,
		PllLockRx:  b&regs.StatPLLLockRx != 0,
		PllLockTx:  b&regs.StatPLLLockTx != 0,
	}, nil
}

// Version reads the chip version register.
func (d *Device) Version() (uint8, error) {
	return d.readByte(regs.AddrVersion)
}

// VersionString renders the version register the way the datasheet names
// silicon revisions, e.g. 0x21 is "V2A".
func (d *Device) VersionString() (string, error) {
	v, err := d.Version()
	if err != nil {
		return "", err
	}
	return FormatVersion(v), nil
}

// FormatVersion renders a raw version register value.
func FormatVersion(v uint8) string {
	major := v >> 4
	minor := v & 0x0F
	if minor > 0 {
		return fmt.Sprintf("V%d%c", major, 'A'+minor-1)
	}
	return fmt.Sprintf("V%d", major)
}

// ReadRegister reads a single raw register byte.
func (d *Device) ReadRegister(addr uint8) (uint8, error) {
	return d.readByte(addr)
}

// WriteRegister writes a single raw register byte.
func (d *Device) WriteRegister(addr uint8, value uint8) error {
	if err := d.bus.WriteBytes(addr, []byte{value}); err != nil {
		return fmt.Errorf("%w: writing register %#02x: %w", ErrBus, addr, err)
	}
	return nil
}

func (d *Device) readByte(addr uint8) (uint8, error) {
	b, err := d.bus.ReadBytes(addr, 1)
	if err != nil {
		return 0, fmt.Errorf("%w: reading register %#02x: %w", ErrBus, addr, err)
	}
	if len(b) != 1 {
		return 0, fmt.Errorf("%w: reading register %#02x: got %d bytes", ErrBus, addr, len(b))
	}
	return b[0], nil
}
