package sx1255

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyCode(t *testing.T) {
	// 434 MHz against a 32 MHz crystal lands exactly on the tuning grid.
	code, err := frequencyCode("rx frequency", 434e6, SX1255, 32e6)
	require.NoError(t, err)
	assert.Equal(t, uint32(14221312), code)
	assert.Equal(t, 434e6, frequencyHz(code, SX1255, 32e6))
	assert.Zero(t, TuningOffsetHz(434e6, SX1255, 32e6))

	// The SX1257 divides by 2^19 instead of 2^20.
	code, err = frequencyCode("tx frequency", 868e6, SX1257, 32e6)
	require.NoError(t, err)
	assert.Equal(t, uint32(14221312), code)
}

func TestFrequencyTunesAtOrBelow(t *testing.T) {
	// An off-grid request truncates downward; the SDR software absorbs the
	// positive sub-resolution residual.
	const want = 434_000_020.0
	code, err := frequencyCode("rx frequency", want, SX1255, 32e6)
	require.NoError(t, err)

	got := frequencyHz(code, SX1255, 32e6)
	assert.LessOrEqual(t, got, want)

	off := TuningOffsetHz(want, SX1255, 32e6)
	assert.GreaterOrEqual(t, off, 0.0)
	assert.Less(t, off, FrequencyResolutionHz(SX1255, 32e6))
	assert.InDelta(t, want, got+off, 1e-6)
}

func TestFrequencyOutOfBand(t *testing.T) {
	for _, tc := range []struct {
		chip Chip
		hz   float64
	}{
		{SX1255, 200e6},
		{SX1255, 520e6},
		{SX1257, 434e6},
		{SX1257, 1100e6},
	} {
		_, err := frequencyCode("frequency", tc.hz, tc.chip, 32e6)
		assert.ErrorIs(t, err, ErrOutOfRange, "%s %g", tc.chip, tc.hz)
	}
}

func TestRegistersDefaults(t *testing.T) {
	f, err := Defaults().Registers(SX1255, 32e6)
	require.NoError(t, err)

	assert.True(t, f.RefEnable)
	assert.False(t, f.TxEnable)
	assert.False(t, f.RxEnable)
	assert.False(t, f.DriverEnable)
	assert.Equal(t, uint32(14221312), f.FrfRx)
	assert.Equal(t, uint32(14221312), f.FrfTx)
	assert.Equal(t, uint8(2), f.DacGain)        // -3 dB
	assert.Equal(t, uint8(14), f.MixerGain)     // -9.5 dB
	assert.Equal(t, uint8(4), f.MixerTankCap)   // 512 fF
	assert.Equal(t, uint8(4), f.MixerTankRes)   // 2.18 kohm
	assert.Equal(t, uint8(3), f.TxPllBw)        // 300 kHz
	assert.Equal(t, uint8(0), f.TxFilterBw)     // lowest setting
	assert.Equal(t, uint8(2), f.DacBw)          // 32 taps
	assert.Equal(t, uint8(1), f.LnaGain)        // max gain
	assert.Equal(t, uint8(7), f.PgaGain)        // 14 dB
	assert.Equal(t, uint8(1), f.Zin)            // 200 ohm
	assert.Equal(t, uint8(5), f.AdcBw)          // 250 kHz
	assert.Equal(t, uint8(1), f.PgaBw)          // 1 MHz
	assert.Equal(t, uint8(3), f.RxPllBw)        // 300 kHz
	assert.True(t, f.CkoutEnable)
}

// Converting to hardware codes and back must reproduce each engineering
// value to within one quantization step of its scale.
func TestEngineeringRoundTrip(t *testing.T) {
	c := Defaults()
	c.Mode = ModeFullDuplex
	c.LoopBack = LoopBackRF
	c.Transmit.FrequencyHz = 435.1e6
	c.Transmit.DacGainDB = -7 // nearest table entries are -6 and -9
	c.Transmit.MixerGainDB = -20.3
	c.Transmit.MixerTankCapFF = 700
	c.Transmit.MixerTankResOhm = 1200
	c.Transmit.FilterBandwidthHz = 600e3
	c.Transmit.DacTaps = 40
	c.Receive.FrequencyHz = 433.92e6
	c.Receive.LnaGainDB = -10
	c.Receive.PgaGainDB = 23
	c.Receive.ZinOhm = 50
	c.Receive.AdcBandwidthHz = 400e3
	c.Receive.PgaBandwidthHz = 800e3
	c.Receive.PllBandwidthHz = 140e3

	f, err := c.Registers(SX1255, 36e6)
	require.NoError(t, err)
	got, err := controlFromRegisters(f, SX1255, 36e6)
	require.NoError(t, err)

	res := FrequencyResolutionHz(SX1255, 36e6)
	assert.InDelta(t, c.Transmit.FrequencyHz, got.Transmit.FrequencyHz, res)
	assert.InDelta(t, c.Receive.FrequencyHz, got.Receive.FrequencyHz, res)
	assert.InDelta(t, c.Transmit.MixerGainDB, got.Transmit.MixerGainDB, mixerGainStepDB)
	assert.InDelta(t, c.Transmit.MixerTankCapFF, got.Transmit.MixerTankCapFF, tankCapStepFF)
	assert.InDelta(t, c.Receive.PgaGainDB, got.Receive.PgaGainDB, pgaGainStepDB)
	assert.InDelta(t, c.Receive.PllBandwidthHz, got.Receive.PllBandwidthHz, pllBwStepHz)
	assert.InDelta(t, c.Transmit.DacTaps, got.Transmit.DacTaps, dacTapsStep)

	// Table-quantized fields land on the nearest defined entry.
	assert.Equal(t, -6.0, got.Transmit.DacGainDB)
	assert.Equal(t, -12.0, got.Receive.LnaGainDB)
	assert.Equal(t, 1110.0, got.Transmit.MixerTankResOhm)
	assert.Equal(t, 500e3, got.Receive.AdcBandwidthHz)
	assert.Equal(t, 750e3, got.Receive.PgaBandwidthHz)

	assert.Equal(t, c.Mode, got.Mode)
	assert.Equal(t, c.LoopBack, got.LoopBack)
	assert.Equal(t, c.Receive.ZinOhm, got.Receive.ZinOhm)
}

// Defaults are chosen on the quantization grid, so their round trip is exact.
func TestDefaultsRoundTripExact(t *testing.T) {
	c := Defaults()
	f, err := c.Registers(SX1255, 32e6)
	require.NoError(t, err)
	got, err := controlFromRegisters(f, SX1255, 32e6)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestTankResOpen(t *testing.T) {
	c := Defaults()
	c.Transmit.MixerTankResOhm = 0
	f, err := c.Registers(SX1255, 32e6)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), f.MixerTankRes)

	got, err := controlFromRegisters(f, SX1255, 32e6)
	require.NoError(t, err)
	assert.Zero(t, got.Transmit.MixerTankResOhm)
}

func TestOutOfRangeRejected(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Control)
	}{
		{"mixer gain high", func(c *Control) { c.Transmit.MixerGainDB = -5 }},
		{"mixer gain low", func(c *Control) { c.Transmit.MixerGainDB = -40 }},
		{"tank cap", func(c *Control) { c.Transmit.MixerTankCapFF = 1000 }},
		{"tank res", func(c *Control) { c.Transmit.MixerTankResOhm = 7000 }},
		{"dac gain", func(c *Control) { c.Transmit.DacGainDB = 1 }},
		{"dac taps", func(c *Control) { c.Transmit.DacTaps = 80 }},
		{"tx filter bw", func(c *Control) { c.Transmit.FilterBandwidthHz = 2e6 }},
		{"pll bw", func(c *Control) { c.Receive.PllBandwidthHz = 400e3 }},
		{"lna gain", func(c *Control) { c.Receive.LnaGainDB = 3 }},
		{"pga gain", func(c *Control) { c.Receive.PgaGainDB = 31 }},
		{"zin", func(c *Control) { c.Receive.ZinOhm = 75 }},
		{"adc bw", func(c *Control) { c.Receive.AdcBandwidthHz = 600e3 }},
		{"adc trim", func(c *Control) { c.Receive.AdcTrim = 8 }},
		{"dio map", func(c *Control) { c.DioMap[2] = 4 }},
		{"iism mode", func(c *Control) { c.IISM.Mode = 3 }},
		{"iism clock div", func(c *Control) { c.IISM.ClockDiv = 16 }},
		{"int dec n", func(c *Control) { c.DigBridge.IntDecN = 8 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(c)
			f, err := c.Registers(SX1255, 32e6)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Nil(t, f)
		})
	}
}

func TestCrossFieldConstraints(t *testing.T) {
	c := Defaults()
	c.LoopBack = LoopBackDigital
	c.Mode = ModeReceive
	_, err := c.Registers(SX1255, 32e6)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	c = Defaults()
	c.Receive.AdcTempMode = true
	c.Mode = ModeStandby
	_, err = c.Registers(SX1255, 32e6)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	// Both become legal in full-duplex mode.
	c = Defaults()
	c.Mode = ModeFullDuplex
	c.LoopBack = LoopBackDigital
	c.Receive.AdcTempMode = true
	_, err = c.Registers(SX1255, 32e6)
	assert.NoError(t, err)
}

func TestCrystalRange(t *testing.T) {
	for _, hz := range []float64{0, 30e6, 40e6} {
		_, err := Defaults().Registers(SX1255, hz)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "crystal %g", hz)
	}
}

func TestModeBitsRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeSleep, ModeStandby, ModeReceive, ModeTransmit, ModeFullDuplex} {
		_, tx, rx, ref := modeBits(m)
		assert.Equal(t, m, modeFromBits(tx, rx, ref), m.String())
	}
}
