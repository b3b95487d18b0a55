package regs

// field describes one hardware register field: where it lives in the packed
// register file and how to move its value in and out of a File. The table
// below is the single source of truth for the bit layout; everything else
// in the codec is mechanism.
type field struct {
	name     string
	addr     uint8  // index of the first byte of the field's span
	offset   uint8  // bit offset from the LSB of the span, 0 = least significant
	width    uint8  // 1-32 bits
	signed   bool   // two's complement within width
	reserved uint32 // bitmask of codes with no datasheet meaning (width <= 5 only)
	get      func(*File) uint32
	set      func(*File, uint32)
}

// span is the number of consecutive register-file bytes the field occupies.
func (f *field) span() int {
	return int(f.offset+f.width+7) / 8
}

// mask returns the all-ones value of the given bit width.
func mask(width uint8) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return 1<<width - 1
}

// fits reports whether v is representable in the field's declared width,
// honoring two's complement for signed fields.
func (f *field) fits(v uint32) bool {
	if !f.signed {
		return v <= mask(f.width)
	}
	s := int64(int32(v))
	lim := int64(1) << (f.width - 1)
	return s >= -lim && s < lim
}

// valid reports whether an unpacked code has a defined datasheet meaning.
func (f *field) valid(v uint32) bool {
	if f.width <= 5 && f.reserved>>v&1 != 0 {
		return false
	}
	return true
}

// insert ORs the field's value into its bit span of the register file image.
// Multi-byte spans are MSB first, as the chip orders them. The value must
// already fit the field width; no byte outside the span is touched and no
// bit outside offset..offset+width-1 within it.
func insert(buf []byte, f *field, v uint32) {
	n := f.span()
	var w uint64
	for i := 0; i < n; i++ {
		w = w<<8 | uint64(buf[int(f.addr)+i])
	}
	w |= uint64(v&mask(f.width)) << f.offset
	for i := n - 1; i >= 0; i-- {
		buf[int(f.addr)+i] = byte(w)
		w >>= 8
	}
}

// extract reads the field's bit span back out of a register file image.
// Signed fields are sign extended to the full uint32 two's complement form.
func extract(buf []byte, f *field) uint32 {
	var w uint64
	for i := 0; i < f.span(); i++ {
		w = w<<8 | uint64(buf[int(f.addr)+i])
	}
	v := uint32(w>>f.offset) & mask(f.width)
	if f.signed && v>>(f.width-1) != 0 {
		v |= ^mask(f.width)
	}
	return v
}

func b2c(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func c2b(v uint32) bool { return v != 0 }

// fileFields enumerates every field of the SX1255 register file in address
// order. Addresses, offsets and widths are transcribed from the datasheet.
var fileFields = []field{
	// MODE (0x00)
	{name: "driver_enable", addr: AddrMode, offset: 3, width: 1,
		get: func(f *File) uint32 { return b2c(f.DriverEnable) },
		set: func(f *File, v uint32) { f.DriverEnable = c2b(v) }},
	{name: "tx_enable", addr: AddrMode, offset: 2, width: 1,
		get: func(f *File) uint32 { return b2c(f.TxEnable) },
		set: func(f *File, v uint32) { f.TxEnable = c2b(v) }},
	{name: "rx_enable", addr: AddrMode, offset: 1, width: 1,
		get: func(f *File) uint32 { return b2c(f.RxEnable) },
		set: func(f *File, v uint32) { f.RxEnable = c2b(v) }},
	{name: "ref_enable", addr: AddrMode, offset: 0, width: 1,
		get: func(f *File) uint32 { return b2c(f.RefEnable) },
		set: func(f *File, v uint32) { f.RefEnable = c2b(v) }},

	// FRF_RX (0x01-0x03), FRF_TX (0x04-0x06)
	{name: "frf_rx", addr: AddrFrfRx, offset: 0, width: 24,
		get: func(f *File) uint32 { return f.FrfRx },
		set: func(f *File, v uint32) { f.FrfRx = v }},
	{name: "frf_tx", addr: AddrFrfTx, offset: 0, width: 24,
		get: func(f *File) uint32 { return f.FrfTx },
		set: func(f *File, v uint32) { f.FrfTx = v }},

	// VERSION (0x07)
	{name: "version", addr: AddrVersion, offset: 0, width: 8,
		get: func(f *File) uint32 { return uint32(f.Version) },
		set: func(f *File, v uint32) { f.Version = uint8(v) }},

	// TXFE1 (0x08)
	{name: "tx_dac_gain", addr: AddrTxFE1, offset: 4, width: 3, reserved: 0xF0,
		get: func(f *File) uint32 { return uint32(f.DacGain) },
		set: func(f *File, v uint32) { f.DacGain = uint8(v) }},
	{name: "tx_mixer_gain", addr: AddrTxFE1, offset: 0, width: 4,
		get: func(f *File) uint32 { return uint32(f.MixerGain) },
		set: func(f *File, v uint32) { f.MixerGain = uint8(v) }},

	// TXFE2 (0x09)
	{name: "tx_mixer_tank_cap", addr: AddrTxFE2, offset: 3, width: 3,
		get: func(f *File) uint32 { return uint32(f.MixerTankCap) },
		set: func(f *File, v uint32) { f.MixerTankCap = uint8(v) }},
	{name: "tx_mixer_tank_res", addr: AddrTxFE2, offset: 0, width: 3,
		get: func(f *File) uint32 { return uint32(f.MixerTankRes) },
		set: func(f *File, v uint32) { f.MixerTankRes = uint8(v) }},

	// TXFE3 (0x0A)
	{name: "tx_pll_bw", addr: AddrTxFE3, offset: 5, width: 2,
		get: func(f *File) uint32 { return uint32(f.TxPllBw) },
		set: func(f *File, v uint32) { f.TxPllBw = uint8(v) }},
	{name: "tx_filter_bw", addr: AddrTxFE3, offset: 0, width: 5,
		get: func(f *File) uint32 { return uint32(f.TxFilterBw) },
		set: func(f *File, v uint32) { f.TxFilterBw = uint8(v) }},

	// TXFE4 (0x0B)
	{name: "tx_dac_bw", addr: AddrTxFE4, offset: 0, width: 3, reserved: 0x80,
		get: func(f *File) uint32 { return uint32(f.DacBw) },
		set: func(f *File, v uint32) { f.DacBw = uint8(v) }},

	// RXFE1 (0x0C)
	{name: "rx_lna_gain", addr: AddrRxFE1, offset: 5, width: 3, reserved: 0x81,
		get: func(f *File) uint32 { return uint32(f.LnaGain) },
		set: func(f *File, v uint32) { f.LnaGain = uint8(v) }},
	{name: "rx_pga_gain", addr: AddrRxFE1, offset: 1, width: 4,
		get: func(f *File) uint32 { return uint32(f.PgaGain) },
		set: func(f *File, v uint32) { f.PgaGain = uint8(v) }},
	{name: "rx_zin", addr: AddrRxFE1, offset: 0, width: 1,
		get: func(f *File) uint32 { return uint32(f.Zin) },
		set: func(f *File, v uint32) { f.Zin = uint8(v) }},

	// RXFE2 (0x0D)
	{name: "rx_adc_bw", addr: AddrRxFE2, offset: 5, width: 3, reserved: 0x5B,
		get: func(f *File) uint32 { return uint32(f.AdcBw) },
		set: func(f *File, v uint32) { f.AdcBw = uint8(v) }},
	{name: "rx_adc_trim", addr: AddrRxFE2, offset: 2, width: 3,
		get: func(f *File) uint32 { return uint32(f.AdcTrim) },
		set: func(f *File, v uint32) { f.AdcTrim = uint8(v) }},
	{name: "rx_pga_bw", addr: AddrRxFE2, offset: 0, width: 2,
		get: func(f *File) uint32 { return uint32(f.PgaBw) },
		set: func(f *File, v uint32) { f.PgaBw = uint8(v) }},

	// RXFE3 (0x0E)
	{name: "rx_pll_bw", addr: AddrRxFE3, offset: 1, width: 2,
		get: func(f *File) uint32 { return uint32(f.RxPllBw) },
		set: func(f *File, v uint32) { f.RxPllBw = uint8(v) }},
	{name: "rx_adc_temp", addr: AddrRxFE3, offset: 0, width: 1,
		get: func(f *File) uint32 { return b2c(f.AdcTemp) },
		set: func(f *File, v uint32) { f.AdcTemp = c2b(v) }},

	// IO_MAP (0x0F)
	{name: "dio0_map", addr: AddrIOMap, offset: 6, width: 2,
		get: func(f *File) uint32 { return uint32(f.Dio0Map) },
		set: func(f *File, v uint32) { f.Dio0Map = uint8(v) }},
	{name: "dio1_map", addr: AddrIOMap, offset: 4, width: 2,
		get: func(f *File) uint32 { return uint32(f.Dio1Map) },
		set: func(f *File, v uint32) { f.Dio1Map = uint8(v) }},
	{name: "dio2_map", addr: AddrIOMap, offset: 2, width: 2,
		get: func(f *File) uint32 { return uint32(f.Dio2Map) },
		set: func(f *File, v uint32) { f.Dio2Map = uint8(v) }},
	{name: "dio3_map", addr: AddrIOMap, offset: 0, width: 2,
		get: func(f *File) uint32 { return uint32(f.Dio3Map) },
		set: func(f *File, v uint32) { f.Dio3Map = uint8(v) }},

	// CK_SEL (0x10)
	{name: "dig_loopback", addr: AddrCkSel, offset: 3, width: 1,
		get: func(f *File) uint32 { return b2c(f.DigLoopback) },
		set: func(f *File, v uint32) { f.DigLoopback = c2b(v) }},
	{name: "rf_loopback", addr: AddrCkSel, offset: 2, width: 1,
		get: func(f *File) uint32 { return b2c(f.RfLoopback) },
		set: func(f *File, v uint32) { f.RfLoopback = c2b(v) }},
	{name: "ckout_enable", addr: AddrCkSel, offset: 1, width: 1,
		get: func(f *File) uint32 { return b2c(f.CkoutEnable) },
		set: func(f *File, v uint32) { f.CkoutEnable = c2b(v) }},
	{name: "tx_dac_clk_sel", addr: AddrCkSel, offset: 0, width: 1,
		get: func(f *File) uint32 { return b2c(f.TxDacClkSel) },
		set: func(f *File, v uint32) { f.TxDacClkSel = c2b(v) }},

	// STAT (0x11)
	{name: "eol", addr: AddrStat, offset: 3, width: 1,
		get: func(f *File) uint32 { return b2c(f.EOL) },
		set: func(f *File, v uint32) { f.EOL = c2b(v) }},
	{name: "xosc_ready", addr: AddrStat, offset: 2, width: 1,
		get: func(f *File) uint32 { return b2c(f.XoscReady) },
		set: func(f *File, v uint32) { f.XoscReady = c2b(v) }},
	{name: "pll_lock_rx", addr: AddrStat, offset: 1, width: 1,
		get: func(f *File) uint32 { return b2c(f.PllLockRx) },
		set: func(f *File, v uint32) { f.PllLockRx = c2b(v) }},
	{name: "pll_lock_tx", addr: AddrStat, offset: 0, width: 1,
		get: func(f *File) uint32 { return b2c(f.PllLockTx) },
		set: func(f *File, v uint32) { f.PllLockTx = c2b(v) }},

	// IISM (0x12)
	{name: "iism_rx_disable_in_tx", addr: AddrIISM, offset: 7, width: 1,
		get: func(f *File) uint32 { return b2c(f.RxDisableInTx) },
		set: func(f *File, v uint32) { f.RxDisableInTx = c2b(v) }},
	{name: "iism_tx_disable_in_rx", addr: AddrIISM, offset: 6, width: 1,
		get: func(f *File) uint32 { return b2c(f.TxDisableInRx) },
		set: func(f *File, v uint32) { f.TxDisableInRx = c2b(v) }},
	{name: "iism_mode", addr: AddrIISM, offset: 4, width: 2, reserved: 0x08,
		get: func(f *File) uint32 { return uint32(f.IismMode) },
		set: func(f *File, v uint32) { f.IismMode = uint8(v) }},
	{name: "iism_clk_div", addr: AddrIISM, offset: 0, width: 4,
		get: func(f *File) uint32 { return uint32(f.IismClkDiv) },
		set: func(f *File, v uint32) { f.IismClkDiv = uint8(v) }},

	// DIG_BRIDGE (0x13)
	{name: "int_dec_mantissa", addr: AddrDigBridge, offset: 7, width: 1,
		get: func(f *File) uint32 { return uint32(f.IntDecMantissa) },
		set: func(f *File, v uint32) { f.IntDecMantissa = uint8(v) }},
	{name: "int_dec_m", addr: AddrDigBridge, offset: 6, width: 1,
		get: func(f *File) uint32 { return uint32(f.IntDecMParam) },
		set: func(f *File, v uint32) { f.IntDecMParam = uint8(v) }},
	{name: "int_dec_n", addr: AddrDigBridge, offset: 3, width: 3,
		get: func(f *File) uint32 { return uint32(f.IntDecNParam) },
		set: func(f *File, v uint32) { f.IntDecNParam = uint8(v) }},
	{name: "iism_truncation", addr: AddrDigBridge, offset: 2, width: 1,
		get: func(f *File) uint32 { return b2c(f.IismTruncation) },
		set: func(f *File, v uint32) { f.IismTruncation = c2b(v) }},
	{name: "iism_status_flag", addr: AddrDigBridge, offset: 1, width: 1,
		get: func(f *File) uint32 { return b2c(f.IismStatusFlag) },
		set: func(f *File, v uint32) { f.IismStatusFlag = c2b(v) }},
}
