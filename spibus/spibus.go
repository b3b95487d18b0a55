// Package spibus drives the SX1255 register bus over SPI using periph.io.
// It implements the sx1255.Bus capability: burst frames carry one address
// byte with the write flag in bit 7, followed by the payload.
package spibus

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// wnrMask is the write-not-read flag in the frame's address byte.
const wnrMask = 0x80

// settleDelay is the pause after each transaction the datasheet asks for.
const settleDelay = 10 * time.Microsecond

// Device is an open SPI connection to the chip.
type Device struct {
	port  spi.PortCloser
	conn  spi.Conn
	name  string
	speed physic.Frequency
}

// Open initializes periph.io and connects to the named SPI port at the
// given clock speed. The chip wants SPI mode 0 with 8-bit words.
func Open(name string, speedHz uint32) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}

	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", name, err)
	}

	speed := physic.Frequency(speedHz) * physic.Hertz
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to SPI port %s: %w", name, err)
	}

	return &Device{port: port, conn: conn, name: name, speed: speed}, nil
}

// Close releases the SPI port.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	err := d.port.Close()
	d.port = nil
	d.conn = nil
	return err
}

// WriteBytes writes data to consecutive registers starting at addr.
func (d *Device) WriteBytes(addr uint8, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no data to write at register %#02x", addr)
	}
	tx := writeFrame(addr, data)
	if _, err := d.transfer(tx); err != nil {
		return fmt.Errorf("failed to write %d bytes at register %#02x: %w", len(data), addr, err)
	}
	return nil
}

// ReadBytes reads n consecutive registers starting at addr.
func (d *Device) ReadBytes(addr uint8, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid read length %d at register %#02x", n, addr)
	}
	rx, err := d.transfer(readFrame(addr, n))
	if err != nil {
		return nil, fmt.Errorf("failed to read %d bytes at register %#02x: %w", n, addr, err)
	}
	// The first byte clocks out while the address clocks in.
	return rx[1:], nil
}

func (d *Device) transfer(tx []byte) ([]byte, error) {
	if d.conn == nil {
		return nil, fmt.Errorf("SPI port not open")
	}
	rx := make([]byte, len(tx))
	if err := d.conn.Tx(tx, rx); err != nil {
		return nil, err
	}
	time.Sleep(settleDelay)
	return rx, nil
}

// writeFrame builds a burst write frame: address with the write flag set,
// then the payload.
func writeFrame(addr uint8, data []byte) []byte {
	tx := make([]byte, len(data)+1)
	tx[0] = addr | wnrMask
	copy(tx[1:], data)
	return tx
}

// readFrame builds a burst read frame: address with the write flag clear,
// then dummy bytes to clock the replies out.
func readFrame(addr uint8, n int) []byte {
	tx := make([]byte, n+1)
	tx[0] = addr &^ wnrMask
	return tx
}

// String describes the connection.
func (d *Device) String() string {
	if d.conn == nil {
		return fmt.Sprintf("spi %s (closed)", d.name)
	}
	return fmt.Sprintf("spi %s at %s", d.name, d.speed)
}
