package sx1255

import (
	"fmt"
	"math"

	"github.com/linht/sx1255/regs"
)

// Chip scale factors and tables, transcribed from the datasheet. Rounding
// policy: frequency codes truncate so the PLL tunes at or below the request
// (the SDR software absorbs the residual); every other scale rounds half to
// even; sparse tables pick the nearest defined entry.
const (
	txFilterNumeratorHz = 17.15e6 // TX filter bandwidth = numerator / (41 - code)
	pllBwStepHz         = 75e3    // PLL loop bandwidth = (code + 1) * step
	mixerGainMinDB      = -37.5
	mixerGainStepDB     = 2
	tankCapStepFF       = 128
	pgaGainStepDB       = 2
	dacTapsMin          = 16
	dacTapsStep         = 8
)

var (
	dacGainDB  = []float64{-9, -6, -3, 0}                           // TXFE1 codes 0-3
	lnaGainDB  = []float64{0, -6, -12, -24, -36, -48}               // RXFE1 codes 1-6
	tankResOhm = []float64{950, 1110, 1320, 1650, 2180, 3240, 6000} // TXFE2 codes 0-6
	pgaBwHz    = []float64{1500e3, 1000e3, 750e3, 500e3}            // RXFE2 codes 0-3

	adcBwTable = []struct {
		code uint8
		hz   float64
	}{{2, 100e3}, {5, 250e3}, {7, 500e3}}
)

// FrequencyResolutionHz is the PLL tuning step, around 34 Hz depending on
// the crystal.
func FrequencyResolutionHz(chip Chip, crystalHz float64) float64 {
	return crystalHz / chip.frfDivider()
}

// TuningOffsetHz is the residual the SDR software must shift from baseband
// to hit freqHz exactly: the PLL is always set at or below the request, so
// the result is non-negative and below the tuning resolution.
func TuningOffsetHz(freqHz float64, chip Chip, crystalHz float64) float64 {
	code := uint32(freqHz * chip.frfDivider() / crystalHz)
	return freqHz - frequencyHz(code, chip, crystalHz)
}

func frequencyCode(name string, freqHz float64, chip Chip, crystalHz float64) (uint32, error) {
	lo, hi := chip.frequencyRange()
	if freqHz < lo || freqHz > hi {
		return 0, fmt.Errorf("%w: %s %g Hz outside %s band [%g, %g]",
			ErrOutOfRange, name, freqHz, chip, lo, hi)
	}
	return uint32(freqHz * chip.frfDivider() / crystalHz), nil
}

func frequencyHz(code uint32, chip Chip, crystalHz float64) float64 {
	return float64(code) * crystalHz / chip.frfDivider()
}

// linearCode quantizes v on the scale min + step*code, round half to even.
func linearCode(name string, v, min, step float64, maxCode uint32) (uint32, error) {
	code := math.RoundToEven((v - min) / step)
	if code < 0 || code > float64(maxCode) {
		return 0, fmt.Errorf("%w: %s %g outside [%g, %g]",
			ErrOutOfRange, name, v, min, min+step*float64(maxCode))
	}
	return uint32(code), nil
}

// tableCode picks the table entry nearest to v. The request must lie
// between the table's extreme values; nothing is clamped.
func tableCode(name string, v float64, table []float64) (uint32, error) {
	lo, hi := table[0], table[len(table)-1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s %g outside [%g, %g]", ErrOutOfRange, name, v, lo, hi)
	}
	best := 0
	for i := range table {
		if math.Abs(table[i]-v) < math.Abs(table[best]-v) {
			best = i
		}
	}
	return uint32(best), nil
}

func rawCode(name string, v uint8, maxCode uint8) (uint8, error) {
	if v > maxCode {
		return 0, fmt.Errorf("%w: %s code %d exceeds %d", ErrOutOfRange, name, v, maxCode)
	}
	return v, nil
}

func modeBits(m Mode) (driver, tx, rx, ref bool) {
	switch m {
	case ModeStandby:
		ref = true
	case ModeReceive:
		rx, ref = true, true
	case ModeTransmit:
		driver, tx, ref = true, true, true
	case ModeFullDuplex:
		driver, tx, rx, ref = true, true, true, true
	}
	return
}

func modeFromBits(tx, rx, ref bool) Mode {
	switch {
	case tx && rx:
		return ModeFullDuplex
	case tx:
		return ModeTransmit
	case rx:
		return ModeReceive
	case ref:
		return ModeStandby
	}
	return ModeSleep
}

func checkCrystal(crystalHz float64) error {
	if crystalHz < MinCrystalHz || crystalHz > MaxCrystalHz {
		return fmt.Errorf("%w: crystal %g Hz outside [%g, %g]",
			ErrInvalidConfiguration, crystalHz, float64(MinCrystalHz), float64(MaxCrystalHz))
	}
	return nil
}

// Registers converts the engineering-unit configuration to the hardware
// register file. It is a pure transform: the chip variant and crystal
// frequency are the only parameters besides the configuration itself, and
// nothing is emitted when any field fails.
func (c *Control) Registers(chip Chip, crystalHz float64) (*regs.File, error) {
	if err := checkCrystal(crystalHz); err != nil {
		return nil, err
	}
	if c.LoopBack != LoopBackOff && c.Mode != ModeFullDuplex {
		return nil, fmt.Errorf("%w: loopback requires full-duplex mode, have %s",
			ErrInvalidConfiguration, c.Mode)
	}
	if c.Receive.AdcTempMode && !c.Mode.rxOn() {
		return nil, fmt.Errorf("%w: ADC temperature mode requires an enabled receiver, have %s",
			ErrInvalidConfiguration, c.Mode)
	}

	var f regs.File
	f.DriverEnable, f.TxEnable, f.RxEnable, f.RefEnable = modeBits(c.Mode)
	f.DigLoopback = c.LoopBack == LoopBackDigital
	f.RfLoopback = c.LoopBack == LoopBackRF
	f.CkoutEnable = c.ClockOutEnable
	f.TxDacClkSel = c.TxDacExternalClock

	var err error
	if f.FrfRx, err = frequencyCode("rx frequency", c.Receive.FrequencyHz, chip, crystalHz); err != nil {
		return nil, err
	}
	if f.FrfTx, err = frequencyCode("tx frequency", c.Transmit.FrequencyHz, chip, crystalHz); err != nil {
		return nil, err
	}

	if err = c.Transmit.fill(&f); err != nil {
		return nil, err
	}
	if err = c.Receive.fill(&f); err != nil {
		return nil, err
	}

	for i, m := range c.DioMap {
		if _, err = rawCode(fmt.Sprintf("dio%d mapping", i), m, 3); err != nil {
			return nil, err
		}
	}
	f.Dio0Map, f.Dio1Map, f.Dio2Map, f.Dio3Map = c.DioMap[0], c.DioMap[1], c.DioMap[2], c.DioMap[3]

	if f.IismMode, err = rawCode("iism mode", c.IISM.Mode, regs.IISMModeB2); err != nil {
		return nil, err
	}
	if f.IismClkDiv, err = rawCode("iism clock division", c.IISM.ClockDiv, 15); err != nil {
		return nil, err
	}
	f.RxDisableInTx = c.IISM.RxDisableInTx
	f.TxDisableInRx = c.IISM.TxDisableInRx

	if f.IntDecMantissa, err = rawCode("int/dec mantissa", c.DigBridge.IntDecMantissa, 1); err != nil {
		return nil, err
	}
	if f.IntDecMParam, err = rawCode("int/dec m parameter", c.DigBridge.IntDecM, 1); err != nil {
		return nil, err
	}
	if f.IntDecNParam, err = rawCode("int/dec n parameter", c.DigBridge.IntDecN, 7); err != nil {
		return nil, err
	}
	f.IismTruncation = c.DigBridge.Truncation
	f.IismStatusFlag = c.DigBridge.StatusFlag

	return &f, nil
}

func (t *Transmit) fill(f *regs.File) error {
	code, err := tableCode("tx dac gain", t.DacGainDB, dacGainDB)
	if err != nil {
		return err
	}
	f.DacGain = uint8(code)

	if code, err = linearCode("tx mixer gain", t.MixerGainDB, mixerGainMinDB, mixerGainStepDB, 15); err != nil {
		return err
	}
	f.MixerGain = uint8(code)

	if code, err = linearCode("tx mixer tank capacitance", t.MixerTankCapFF, 0, tankCapStepFF, 7); err != nil {
		return err
	}
	f.MixerTankCap = uint8(code)

	if t.MixerTankResOhm == 0 {
		f.MixerTankRes = regs.TankResOpen
	} else {
		if code, err = tableCode("tx mixer tank resistance", t.MixerTankResOhm, tankResOhm); err != nil {
			return err
		}
		f.MixerTankRes = uint8(code)
	}

	if code, err = linearCode("tx pll bandwidth", t.PllBandwidthHz, pllBwStepHz, pllBwStepHz, 3); err != nil {
		return err
	}
	f.TxPllBw = uint8(code)

	if code, err = txFilterCode(t.FilterBandwidthHz); err != nil {
		return err
	}
	f.TxFilterBw = uint8(code)

	if code, err = linearCode("tx fir-dac taps", float64(t.DacTaps), dacTapsMin, dacTapsStep, 6); err != nil {
		return err
	}
	f.DacBw = uint8(code)
	return nil
}

func (r *Receive) fill(f *regs.File) error {
	code, err := tableCode("rx lna gain", r.LnaGainDB, lnaGainDB)
	if err != nil {
		return err
	}
	f.LnaGain = uint8(code) + 1 // code 0 is reserved; the table starts at 1

	if code, err = linearCode("rx pga gain", r.PgaGainDB, 0, pgaGainStepDB, 15); err != nil {
		return err
	}
	f.PgaGain = uint8(code)

	switch r.ZinOhm {
	case 50:
		f.Zin = regs.Zin50
	case 200:
		f.Zin = regs.Zin200
	default:
		return fmt.Errorf("%w: rx input impedance %g ohm, want 50 or 200", ErrOutOfRange, r.ZinOhm)
	}

	if f.AdcBw, err = adcBwCode(r.AdcBandwidthHz); err != nil {
		return err
	}
	if f.AdcTrim, err = rawCode("rx adc trim", r.AdcTrim, 7); err != nil {
		return err
	}
	if code, err = tableCode("rx pga bandwidth", r.PgaBandwidthHz, pgaBwHz); err != nil {
		return err
	}
	f.PgaBw = uint8(code)

	if code, err = linearCode("rx pll bandwidth", r.PllBandwidthHz, pllBwStepHz, pllBwStepHz, 3); err != nil {
		return err
	}
	f.RxPllBw = uint8(code)

	f.AdcTemp = r.AdcTempMode
	return nil
}

func txFilterCode(bwHz float64) (uint32, error) {
	lo, hi := txFilterNumeratorHz/41, txFilterNumeratorHz/(41-31)
	if bwHz < lo || bwHz > hi {
		return 0, fmt.Errorf("%w: tx filter bandwidth %g Hz outside [%g, %g]",
			ErrOutOfRange, bwHz, lo, hi)
	}
	code := math.RoundToEven(41 - txFilterNumeratorHz/bwHz)
	if code < 0 {
		code = 0
	}
	if code > 31 {
		code = 31
	}
	return uint32(code), nil
}

func adcBwCode(bwHz float64) (uint8, error) {
	if bwHz < adcBwTable[0].hz || bwHz > adcBwTable[len(adcBwTable)-1].hz {
		return 0, fmt.Errorf("%w: rx adc bandwidth %g Hz outside [%g, %g]",
			ErrOutOfRange, bwHz, adcBwTable[0].hz, adcBwTable[len(adcBwTable)-1].hz)
	}
	best := 0
	for i := range adcBwTable {
		if math.Abs(adcBwTable[i].hz-bwHz) < math.Abs(adcBwTable[best].hz-bwHz) {
			best = i
		}
	}
	return adcBwTable[best].code, nil
}

// controlFromRegisters is the exact inverse of Registers. Hardware codes
// are integers, so there is no rounding ambiguity; codes outside the
// conversion tables (possible only on a hand-built File, never from
// regs.Unpack) are rejected.
func controlFromRegisters(f *regs.File, chip Chip, crystalHz float64) (*Control, error) {
	if err := checkCrystal(crystalHz); err != nil {
		return nil, err
	}

	c := Control{
		Mode:               modeFromBits(f.TxEnable, f.RxEnable, f.RefEnable),
		ClockOutEnable:     f.CkoutEnable,
		TxDacExternalClock: f.TxDacClkSel,
		DioMap:             [4]uint8{f.Dio0Map, f.Dio1Map, f.Dio2Map, f.Dio3Map},
		IISM: IISM{
			RxDisableInTx: f.RxDisableInTx,
			TxDisableInRx: f.TxDisableInRx,
			Mode:          f.IismMode,
			ClockDiv:      f.IismClkDiv,
		},
		DigBridge: DigBridge{
			IntDecMantissa: f.IntDecMantissa,
			IntDecM:        f.IntDecMParam,
			IntDecN:        f.IntDecNParam,
			Truncation:     f.IismTruncation,
			StatusFlag:     f.IismStatusFlag,
		},
	}
	switch {
	case f.DigLoopback:
		c.LoopBack = LoopBackDigital
	case f.RfLoopback:
		c.LoopBack = LoopBackRF
	}

	if int(f.DacGain) >= len(dacGainDB) {
		return nil, fmt.Errorf("%w: tx dac gain code %d", ErrOutOfRange, f.DacGain)
	}
	if f.LnaGain < 1 || int(f.LnaGain) > len(lnaGainDB) {
		return nil, fmt.Errorf("%w: rx lna gain code %d", ErrOutOfRange, f.LnaGain)
	}
	adcBw, ok := adcBwFromCode(f.AdcBw)
	if !ok {
		return nil, fmt.Errorf("%w: rx adc bandwidth code %d", ErrOutOfRange, f.AdcBw)
	}

	c.Transmit = Transmit{
		FrequencyHz:       frequencyHz(f.FrfTx, chip, crystalHz),
		DacGainDB:         dacGainDB[f.DacGain],
		MixerGainDB:       mixerGainMinDB + mixerGainStepDB*float64(f.MixerGain),
		MixerTankCapFF:    tankCapStepFF * float64(f.MixerTankCap),
		PllBandwidthHz:    pllBwStepHz * float64(f.TxPllBw+1),
		FilterBandwidthHz: txFilterNumeratorHz / float64(41-f.TxFilterBw),
		DacTaps:           dacTapsMin + dacTapsStep*int(f.DacBw),
	}
	if f.MixerTankRes != regs.TankResOpen {
		c.Transmit.MixerTankResOhm = tankResOhm[f.MixerTankRes]
	}

	zin := 50.0
	if f.Zin == regs.Zin200 {
		zin = 200
	}
	c.Receive = Receive{
		FrequencyHz:    frequencyHz(f.FrfRx, chip, crystalHz),
		LnaGainDB:      lnaGainDB[f.LnaGain-1],
		PgaGainDB:      pgaGainStepDB * float64(f.PgaGain),
		ZinOhm:         zin,
		AdcBandwidthHz: adcBw,
		AdcTrim:        f.AdcTrim,
		PgaBandwidthHz: pgaBwHz[f.PgaBw],
		PllBandwidthHz: pllBwStepHz * float64(f.RxPllBw+1),
		AdcTempMode:    f.AdcTemp,
	}
	return &c, nil
}

func adcBwFromCode(code uint8) (float64, bool) {
	for _, e := range adcBwTable {
		if e.code == code {
			return e.hz, true
		}
	}
	return 0, false
}
