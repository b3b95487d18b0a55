// Package gpioctl drives the two GPIO lines the SX1255 board needs beside
// the SPI bus: the chip reset line and the external TX/RX antenna switch.
package gpioctl

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Reset timing from the datasheet: hold high at least 100 us, then give
// the chip 5 ms before the first bus transaction.
const (
	resetPulse  = 100 * time.Microsecond
	resetSettle = 5 * time.Millisecond
)

// Pins holds the requested GPIO lines.
type Pins struct {
	chip      *gpiocdev.Chip
	resetLine *gpiocdev.Line
	txRxLine  *gpiocdev.Line
	chipPath  string
	resetPin  int
	txRxPin   int
}

// Request opens the GPIO chip and claims the reset and TX/RX switch lines
// as outputs, both initially low (reset released, switch in RX).
func Request(chipPath string, resetPin, txRxPin int) (*Pins, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chipPath, err)
	}

	p := &Pins{chip: chip, chipPath: chipPath, resetPin: resetPin, txRxPin: txRxPin}

	p.resetLine, err = chip.RequestLine(
		resetPin,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("sx1255-reset"),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("failed to request reset pin %d: %w", resetPin, err)
	}

	p.txRxLine, err = chip.RequestLine(
		txRxPin,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("sx1255-txrx"),
	)
	if err != nil {
		p.resetLine.Close()
		chip.Close()
		return nil, fmt.Errorf("failed to request TX/RX pin %d: %w", txRxPin, err)
	}

	return p, nil
}

// Close releases the lines and the chip.
func (p *Pins) Close() error {
	var errs []error

	if p.txRxLine != nil {
		if err := p.txRxLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close TX/RX line: %w", err))
		}
		p.txRxLine = nil
	}
	if p.resetLine != nil {
		if err := p.resetLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close reset line: %w", err))
		}
		p.resetLine = nil
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close GPIO chip: %w", err))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing GPIO: %v", errs)
	}
	return nil
}

// Reset pulses the reset line per the datasheet timing. The chip loses its
// whole register file; the caller must rewrite the configuration.
func (p *Pins) Reset() error {
	if p.resetLine == nil {
		return fmt.Errorf("reset line not requested")
	}

	if err := p.resetLine.SetValue(1); err != nil {
		return fmt.Errorf("failed to raise reset pin: %w", err)
	}
	time.Sleep(resetPulse)

	if err := p.resetLine.SetValue(0); err != nil {
		return fmt.Errorf("failed to release reset pin: %w", err)
	}
	time.Sleep(resetSettle)

	return nil
}

// SetTxRx drives the antenna switch: true selects TX, false RX.
func (p *Pins) SetTxRx(tx bool) error {
	if p.txRxLine == nil {
		return fmt.Errorf("TX/RX line not requested")
	}
	value := 0
	if tx {
		value = 1
	}
	if err := p.txRxLine.SetValue(value); err != nil {
		return fmt.Errorf("failed to set TX/RX pin to %v: %w", tx, err)
	}
	return nil
}

// TxRx reads back the antenna switch state.
func (p *Pins) TxRx() (bool, error) {
	if p.txRxLine == nil {
		return false, fmt.Errorf("TX/RX line not requested")
	}
	value, err := p.txRxLine.Value()
	if err != nil {
		return false, fmt.Errorf("failed to read TX/RX pin: %w", err)
	}
	return value == 1, nil
}

// Info describes the claimed lines.
func (p *Pins) Info() string {
	if p.chip == nil {
		return fmt.Sprintf("gpio %s (closed)", p.chipPath)
	}
	return fmt.Sprintf("gpio %s (%s, %s), reset pin %d, tx/rx pin %d",
		p.chipPath, p.chip.Name, p.chip.Label, p.resetPin, p.txRxPin)
}
