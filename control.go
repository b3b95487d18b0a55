// Package sx1255 configures the Semtech SX1255/SX1257 SDR front-end in
// engineering units: decibels, femtofarads, ohms and hertz. A Control value
// is converted to the chip's native register codes, packed to the exact
// byte image of the register file and pushed over a narrow bus capability;
// reads run the same chain in reverse.
package sx1255

import "fmt"

// Chip selects the family member. The two parts share a register map but
// tune different bands with different PLL scaling.
type Chip int

const (
	SX1255 Chip = iota // 400-510 MHz, Frf = code * fxosc / 2^20
	SX1257             // 860-1000 MHz, Frf = code * fxosc / 2^19
)

func (c Chip) String() string {
	switch c {
	case SX1255:
		return "SX1255"
	case SX1257:
		return "SX1257"
	}
	return fmt.Sprintf("Chip(%d)", int(c))
}

// frfDivider is the PLL fractional divider: frequency code = f * divider / fxosc.
func (c Chip) frfDivider() float64 {
	if c == SX1257 {
		return 1 << 19
	}
	return 1 << 20
}

func (c Chip) frequencyRange() (lo, hi float64) {
	if c == SX1257 {
		return 860e6, 1000e6
	}
	return 400e6, 510e6
}

// Crystal oscillator limits in Hz. For frequency accuracy the crystal should
// be measured per device rather than taken from its specification.
const (
	MinCrystalHz = 32e6
	MaxCrystalHz = 36.864e6
)

// Mode is the chip operating mode, a shorthand for the four enable bits of
// the MODE register.
type Mode int

const (
	ModeSleep      Mode = iota // Everything off
	ModeStandby                // Power supplies and crystal oscillator on
	ModeReceive                // RX path on
	ModeTransmit               // TX path and PA driver on
	ModeFullDuplex             // Both paths and PA driver on
)

func (m Mode) String() string {
	switch m {
	case ModeSleep:
		return "sleep"
	case ModeStandby:
		return "standby"
	case ModeReceive:
		return "receive"
	case ModeTransmit:
		return "transmit"
	case ModeFullDuplex:
		return "full-duplex"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// rxOn reports whether the mode powers the receive path.
func (m Mode) rxOn() bool { return m == ModeReceive || m == ModeFullDuplex }

// LoopBack selects one of the chip's self-test loopback paths. Either path
// requires full-duplex mode.
type LoopBack int

const (
	LoopBackOff     LoopBack = iota
	LoopBackDigital          // I/Q interface looped back before the DACs
	LoopBackRF               // TX mixer output looped into the LNA input
)

// Transmit holds the TX front-end settings in physical units.
type Transmit struct {
	// Carrier frequency in Hz. The PLL tunes at or below the requested
	// value; TuningOffsetHz gives the residual.
	FrequencyHz float64 `yaml:"frequency_hz" json:"frequency_hz"`

	// DAC gain relative to full scale: -9, -6, -3 or 0 dB.
	DacGainDB float64 `yaml:"dac_gain_db" json:"dac_gain_db"`

	// Mixer gain, -37.5 to -7.5 dB in 2 dB steps.
	MixerGainDB float64 `yaml:"mixer_gain_db" json:"mixer_gain_db"`

	// Mixer tank capacitance, 0 to 896 fF in 128 fF steps.
	// Only documented for the SX1255.
	MixerTankCapFF float64 `yaml:"mixer_tank_cap_ff" json:"mixer_tank_cap_ff"`

	// Mixer tank parallel resistance in ohms, 950 to 6000, or 0 for no
	// resistor. Only documented for the SX1255.
	MixerTankResOhm float64 `yaml:"mixer_tank_res_ohm" json:"mixer_tank_res_ohm"`

	// PLL loop filter bandwidth, 75 to 300 kHz in 75 kHz steps. Wider
	// reduces lock time at the cost of spurs and noise.
	PllBandwidthHz float64 `yaml:"pll_bandwidth_hz" json:"pll_bandwidth_hz"`

	// Analog filter DSB bandwidth in Hz, 17.15 MHz / (41 - code).
	FilterBandwidthHz float64 `yaml:"filter_bandwidth_hz" json:"filter_bandwidth_hz"`

	// Number of taps of the FIR-DAC, 16 to 64 in steps of 8.
	DacTaps int `yaml:"dac_taps" json:"dac_taps"`
}

// Receive holds the RX front-end settings in physical units.
type Receive struct {
	// Carrier frequency in Hz, quantized like Transmit.FrequencyHz.
	FrequencyHz float64 `yaml:"frequency_hz" json:"frequency_hz"`

	// LNA gain relative to maximum: 0, -6, -12, -24, -36 or -48 dB.
	// Noise figure and IP3 are best at maximum gain.
	LnaGainDB float64 `yaml:"lna_gain_db" json:"lna_gain_db"`

	// Baseband PGA gain, 0 to 30 dB in 2 dB steps.
	PgaGainDB float64 `yaml:"pga_gain_db" json:"pga_gain_db"`

	// Input impedance, 50 or 200 ohms.
	ZinOhm float64 `yaml:"zin_ohm" json:"zin_ohm"`

	// Delta-sigma ADC SSB bandwidth: 100, 250 or 500 kHz.
	AdcBandwidthHz float64 `yaml:"adc_bandwidth_hz" json:"adc_bandwidth_hz"`

	// Raw ADC reference trim code, 0-7. Pass-through, no physical unit.
	AdcTrim uint8 `yaml:"adc_trim" json:"adc_trim"`

	// PGA bandwidth: 1500, 1000, 750 or 500 kHz.
	PgaBandwidthHz float64 `yaml:"pga_bandwidth_hz" json:"pga_bandwidth_hz"`

	// PLL loop filter bandwidth, 75 to 300 kHz in 75 kHz steps.
	PllBandwidthHz float64 `yaml:"pll_bandwidth_hz" json:"pll_bandwidth_hz"`

	// Put the RX ADC into temperature measurement mode (-1 C/LSB,
	// settles in under 100 us). Requires an enabled receiver. CMOS
	// temperature sensing needs external calibration.
	AdcTempMode bool `yaml:"adc_temp_mode" json:"adc_temp_mode"`
}

// IISM configures the I/Q serial interface.
type IISM struct {
	RxDisableInTx bool  `yaml:"rx_disable_in_tx" json:"rx_disable_in_tx"`
	TxDisableInRx bool  `yaml:"tx_disable_in_rx" json:"tx_disable_in_rx"`
	Mode          uint8 `yaml:"mode" json:"mode"`           // regs.IISMModeA/B1/B2
	ClockDiv      uint8 `yaml:"clock_div" json:"clock_div"` // 4-bit XTAL division code
}

// DigBridge configures the digital bridge between the IISM and the data
// converters. All fields are raw datasheet codes.
type DigBridge struct {
	IntDecMantissa uint8 `yaml:"int_dec_mantissa" json:"int_dec_mantissa"`
	IntDecM        uint8 `yaml:"int_dec_m" json:"int_dec_m"`
	IntDecN        uint8 `yaml:"int_dec_n" json:"int_dec_n"`
	Truncation     bool  `yaml:"truncation" json:"truncation"`
	StatusFlag     bool  `yaml:"status_flag" json:"status_flag"`
}

// Control is the full engineering-unit configuration of the chip. It is
// built by the caller, converted and packed immediately before a write, and
// never mutated by this package.
type Control struct {
	Mode               Mode     `yaml:"mode" json:"mode"`
	LoopBack           LoopBack `yaml:"loop_back" json:"loop_back"`
	ClockOutEnable     bool     `yaml:"clock_out_enable" json:"clock_out_enable"`
	TxDacExternalClock bool     `yaml:"tx_dac_external_clock" json:"tx_dac_external_clock"`

	Transmit Transmit `yaml:"transmit" json:"transmit"`
	Receive  Receive  `yaml:"receive" json:"receive"`

	// DIO pin mapping codes, one 2-bit code per pin.
	DioMap [4]uint8 `yaml:"dio_map" json:"dio_map"`

	IISM      IISM      `yaml:"iism" json:"iism"`
	DigBridge DigBridge `yaml:"dig_bridge" json:"dig_bridge"`
}

// Defaults returns the recommended power-up configuration: standby at
// 434 MHz with the datasheet default front-end settings.
func Defaults() *Control {
	return &Control{
		Mode:           ModeStandby,
		ClockOutEnable: true,
		Transmit: Transmit{
			FrequencyHz:       434e6,
			DacGainDB:         -3,
			MixerGainDB:       -9.5,
			MixerTankCapFF:    512,
			MixerTankResOhm:   2180,
			PllBandwidthHz:    300e3,
			FilterBandwidthHz: txFilterNumeratorHz / 41, // lowest setting
			DacTaps:           32,
		},
		Receive: Receive{
			FrequencyHz:    434e6,
			LnaGainDB:      0,
			PgaGainDB:      14,
			ZinOhm:         200,
			AdcBandwidthHz: 250e3,
			AdcTrim:        1,
			PgaBandwidthHz: 1000e3,
			PllBandwidthHz: 300e3,
		},
		IISM: IISM{ClockDiv: 8},
	}
}

// Status holds the decoded STAT register.
type Status struct {
	BatteryLow bool `json:"battery_low"` // supply below the end-of-life threshold
	XoscReady  bool `json:"xosc_ready"`
	PllLockRx  bool `json:"pll_lock_rx"`
	PllLockTx  bool `json:"pll_lock_tx"`
}
