// Package regs models the SX1255/SX1257 configuration register file and
// converts it to and from the exact byte image the chip's SPI bus expects.
//
// The register map is transcribed from the Semtech SX1255 datasheet. Field
// names follow the datasheet, made slightly more readable in places; the
// addresses, bit offsets and widths are the compatibility surface and must
// not change.
package regs

// Size is the length of the configuration register file in bytes
// (addresses 0x00 through 0x13).
const Size = 20

// Register addresses. Each address is also the byte index of the register
// within the packed register file.
const (
	AddrMode      = 0x00 // Operating mode control
	AddrFrfRx     = 0x01 // RX frequency, 3 bytes MSB first
	AddrFrfTx     = 0x04 // TX frequency, 3 bytes MSB first
	AddrVersion   = 0x07 // Chip version (read-only)
	AddrTxFE1     = 0x08 // TX front-end: DAC and mixer gain
	AddrTxFE2     = 0x09 // TX front-end: mixer tank settings
	AddrTxFE3     = 0x0A // TX front-end: PLL bandwidth and filter
	AddrTxFE4     = 0x0B // TX front-end: FIR-DAC bandwidth
	AddrRxFE1     = 0x0C // RX front-end: LNA and PGA gain, input impedance
	AddrRxFE2     = 0x0D // RX front-end: ADC bandwidth and trim
	AddrRxFE3     = 0x0E // RX front-end: PLL bandwidth and temp sensor
	AddrIOMap     = 0x0F // DIO pin mapping
	AddrCkSel     = 0x10 // Clock select and loopback
	AddrStat      = 0x11 // Status (read-only)
	AddrIISM      = 0x12 // I/Q serial interface mode
	AddrDigBridge = 0x13 // Digital bridge configuration
)

// Status register (0x11) bit masks, for callers that read the single
// status byte without decoding the whole register file.
const (
	StatEOL       = 1 << 3 // Battery below the programmed end-of-life level
	StatXOSCReady = 1 << 2 // Crystal oscillator running
	StatPLLLockRx = 1 << 1 // RX PLL locked
	StatPLLLockTx = 1 << 0 // TX PLL locked
)

// IISM interface modes (register 0x12, 2-bit field). Code 3 is reserved.
const (
	IISMModeA  = 0
	IISMModeB1 = 1
	IISMModeB2 = 2
)

// RX input impedance selection (RXFE1 bit 0).
const (
	Zin50  = 0 // 50 ohm input
	Zin200 = 1 // 200 ohm input
)

// TankResOpen selects no parallel tank resistor (TXFE2 bits 2:0).
const TankResOpen = 7

// File holds one value per hardware register field, in the smallest native
// type that covers the field's declared range. Instances are produced by the
// engineering-unit converter or by Unpack; Pack rejects any value that does
// not fit its field width.
type File struct {
	// MODE (0x00)
	DriverEnable bool // PA driver enabled
	TxEnable     bool // TX path enabled, except PA
	RxEnable     bool // RX path enabled
	RefEnable    bool // Power supplies and crystal oscillator enabled

	// FRF_RX / FRF_TX (0x01-0x06), 24-bit frequency codes
	FrfRx uint32
	FrfTx uint32

	// VERSION (0x07), read-only
	Version uint8

	// TXFE1-TXFE4 (0x08-0x0B)
	DacGain      uint8 // 3 bits, codes 0-3 (4-7 reserved)
	MixerGain    uint8 // 4 bits
	MixerTankCap uint8 // 3 bits
	MixerTankRes uint8 // 3 bits, 7 = open
	TxPllBw      uint8 // 2 bits
	TxFilterBw   uint8 // 5 bits
	DacBw        uint8 // 3 bits, codes 0-6 (7 reserved)

	// RXFE1-RXFE3 (0x0C-0x0E)
	LnaGain uint8 // 3 bits, codes 1-6 (0 and 7 reserved)
	PgaGain uint8 // 4 bits
	Zin     uint8 // 1 bit
	AdcBw   uint8 // 3 bits, codes 2, 5, 7 (others reserved)
	AdcTrim uint8 // 3 bits
	PgaBw   uint8 // 2 bits
	RxPllBw uint8 // 2 bits
	AdcTemp bool  // ADC in temperature measurement mode

	// IO_MAP (0x0F), one 2-bit mapping code per DIO pin
	Dio0Map uint8
	Dio1Map uint8
	Dio2Map uint8
	Dio3Map uint8

	// CK_SEL (0x10)
	DigLoopback bool // Digital loopback enabled
	RfLoopback  bool // RF loopback enabled
	CkoutEnable bool // CLK_OUT pad enabled
	TxDacClkSel bool // TX DAC clocked from CLK_IN instead of XTAL

	// STAT (0x11), read-only
	EOL       bool
	XoscReady bool
	PllLockRx bool
	PllLockTx bool

	// IISM (0x12)
	RxDisableInTx bool  // Disable RX I/Q signals while transmitting
	TxDisableInRx bool  // Disable TX I/Q signals while receiving
	IismMode      uint8 // 2 bits, codes 0-2 (3 reserved)
	IismClkDiv    uint8 // 4 bits, XTAL division exponent for the IISM clock

	// DIG_BRIDGE (0x13)
	IntDecMantissa uint8 // 1 bit, interpolation/decimation mantissa select
	IntDecMParam   uint8 // 1 bit, interpolation/decimation M parameter
	IntDecNParam   uint8 // 3 bits, interpolation/decimation N parameter
	IismTruncation bool  // Truncate instead of round on the IISM bridge
	IismStatusFlag bool  // IISM status flag mode
}
