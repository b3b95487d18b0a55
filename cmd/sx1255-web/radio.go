package main

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/linht/sx1255"
	"github.com/linht/sx1255/gpioctl"
	"github.com/linht/sx1255/spibus"
)

// radioAPI serves the transceiver endpoints. Connections are transient:
// each operation opens the SPI port, runs, and releases it, so the daemon
// never holds the bus between requests.
type radioAPI struct {
	cfg  RadioConfig
	chip sx1255.Chip
}

func newRadioAPI(cfg RadioConfig) (*radioAPI, error) {
	chip, err := cfg.chip()
	if err != nil {
		return nil, err
	}
	return &radioAPI{cfg: cfg, chip: chip}, nil
}

// RegisterRoutes adds the radio HTTP routes.
func (r *radioAPI) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/radio")

	api.Post("/init", r.handleInit)
	api.Post("/reset", r.handleReset)
	api.Get("/status", r.handleStatus)

	api.Get("/config", r.handleGetConfig)
	api.Post("/config", r.handleSetConfig)
	api.Post("/config/defaults", r.handleApplyDefaults)

	api.Get("/register/:addr", r.handleReadRegister)
	api.Post("/register/:addr", r.handleWriteRegister)

	api.Post("/txrx-switch", r.handleSetTxRxSwitch)
	api.Get("/txrx-switch", r.handleGetTxRxSwitch)

	api.Get("/monitor", r.monitorUpgrade, r.handleMonitor())

	slog.Info("Radio routes registered", "chip", r.chip.String())
}

// withDevice runs fn with a freshly opened device and closes the bus after.
func (r *radioAPI) withDevice(fn func(*sx1255.Device) error) error {
	bus, err := spibus.Open(r.cfg.SPIDevice, r.cfg.SPISpeed)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := sx1255.NewDevice(bus, r.chip, r.cfg.CrystalHz)
	if err != nil {
		return err
	}
	return fn(dev)
}

// withPins runs fn with the reset and switch GPIO lines claimed.
func (r *radioAPI) withPins(fn func(*gpioctl.Pins) error) error {
	pins, err := gpioctl.Request(r.cfg.GPIOChip, r.cfg.ResetPin, r.cfg.TxRxPin)
	if err != nil {
		return err
	}
	defer pins.Close()

	return fn(pins)
}

func (r *radioAPI) handleInit(c *fiber.Ctx) error {
	var version string
	err := r.withDevice(func(dev *sx1255.Device) error {
		v, err := dev.VersionString()
		version = v
		return err
	})
	if err != nil {
		slog.Error("Failed to reach the chip", "error", err)
		return sendError(c, 500, err)
	}

	slog.Info("Chip connection verified", "version", version)
	return sendSuccess(c, fiber.Map{
		"chip":    r.chip.String(),
		"version": version,
	}, "Chip connection verified")
}

func (r *radioAPI) handleReset(c *fiber.Ctx) error {
	if err := r.withPins(func(p *gpioctl.Pins) error { return p.Reset() }); err != nil {
		slog.Error("Failed to reset chip", "error", err)
		return sendError(c, 500, err)
	}

	slog.Info("Chip reset; register file back at power-on values")
	return sendSuccess(c, nil, "Chip reset")
}

func (r *radioAPI) handleStatus(c *fiber.Ctx) error {
	var (
		status  sx1255.Status
		version string
	)
	err := r.withDevice(func(dev *sx1255.Device) error {
		var err error
		if status, err = dev.Status(); err != nil {
			return err
		}
		version, _ = dev.VersionString()
		return nil
	})
	if err != nil {
		return sendError(c, 500, err)
	}

	return sendSuccess(c, fiber.Map{
		"version": version,
		"status":  status,
	}, "")
}

func (r *radioAPI) handleGetConfig(c *fiber.Ctx) error {
	var cfg *sx1255.Control
	err := r.withDevice(func(dev *sx1255.Device) error {
		var err error
		cfg, err = dev.Read()
		return err
	})
	if err != nil {
		return sendError(c, 500, err)
	}
	return sendSuccess(c, cfg, "")
}

func (r *radioAPI) handleSetConfig(c *fiber.Ctx) error {
	var cfg sx1255.Control
	if err := c.BodyParser(&cfg); err != nil {
		return sendErrorMessage(c, 400, "Invalid configuration body")
	}

	err := r.withDevice(func(dev *sx1255.Device) error { return dev.Write(&cfg) })
	if err != nil {
		slog.Error("Failed to apply configuration", "error", err)
		return sendError(c, statusFor(err), err)
	}

	slog.Info("Configuration applied",
		"mode", cfg.Mode.String(),
		"rx_freq_hz", cfg.Receive.FrequencyHz,
		"tx_freq_hz", cfg.Transmit.FrequencyHz)
	return sendSuccess(c, nil, "Configuration applied")
}

func (r *radioAPI) handleApplyDefaults(c *fiber.Ctx) error {
	err := r.withDevice(func(dev *sx1255.Device) error { return dev.Write(sx1255.Defaults()) })
	if err != nil {
		return sendError(c, statusFor(err), err)
	}
	slog.Info("Default configuration applied")
	return sendSuccess(c, sx1255.Defaults(), "Default configuration applied")
}

func (r *radioAPI) handleReadRegister(c *fiber.Ctx) error {
	addr, err := c.ParamsInt("addr")
	if err != nil || addr < 0 || addr > 0xFF {
		return sendErrorMessage(c, 400, "Invalid register address")
	}

	var value uint8
	err = r.withDevice(func(dev *sx1255.Device) error {
		var err error
		value, err = dev.ReadRegister(uint8(addr))
		return err
	})
	if err != nil {
		return sendError(c, 500, err)
	}

	return sendSuccess(c, fiber.Map{
		"address": addr,
		"value":   value,
	}, "")
}

func (r *radioAPI) handleWriteRegister(c *fiber.Ctx) error {
	addr, err := c.ParamsInt("addr")
	if err != nil || addr < 0 || addr > 0xFF {
		return sendErrorMessage(c, 400, "Invalid register address")
	}

	var req struct {
		Value uint8 `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return sendErrorMessage(c, 400, "Invalid request body")
	}

	err = r.withDevice(func(dev *sx1255.Device) error {
		return dev.WriteRegister(uint8(addr), req.Value)
	})
	if err != nil {
		return sendError(c, 500, err)
	}

	slog.Info("Register write", "address", addr, "value", req.Value)
	return sendSuccess(c, nil, "Register written")
}

func (r *radioAPI) handleSetTxRxSwitch(c *fiber.Ctx) error {
	var req struct {
		Tx bool `json:"tx"`
	}
	if err := c.BodyParser(&req); err != nil {
		return sendErrorMessage(c, 400, "Invalid request body")
	}

	if err := r.withPins(func(p *gpioctl.Pins) error { return p.SetTxRx(req.Tx) }); err != nil {
		return sendError(c, 500, err)
	}
	return sendSuccess(c, fiber.Map{"tx": req.Tx}, "Antenna switch set")
}

func (r *radioAPI) handleGetTxRxSwitch(c *fiber.Ctx) error {
	var tx bool
	err := r.withPins(func(p *gpioctl.Pins) error {
		var err error
		tx, err = p.TxRx()
		return err
	})
	if err != nil {
		return sendError(c, 500, err)
	}
	return sendSuccess(c, fiber.Map{"tx": tx}, "")
}
