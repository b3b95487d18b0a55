// Command sx1255-web exposes an SX1255/SX1257 front-end over a small
// authenticated HTTP API: engineering-unit configuration in and out, raw
// register access, reset and antenna switch control, and a websocket
// status monitor.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/linht/sx1255"
)

const (
	ServerReadTimeout  = 60 * time.Second
	ServerWriteTimeout = 60 * time.Second

	// Session management (24-hour expiry)
	SessionDuration = 24 * time.Hour
	TokenBytes      = 32
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`
	Auth struct {
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"auth"`
	Radio RadioConfig `yaml:"radio"`
}

// RadioConfig holds the board wiring and chip parameters.
type RadioConfig struct {
	Chip      string  `yaml:"chip"` // "sx1255" or "sx1257"
	SPIDevice string  `yaml:"spi_device"`
	SPISpeed  uint32  `yaml:"spi_speed"`
	GPIOChip  string  `yaml:"gpio_chip"`
	ResetPin  int     `yaml:"reset_pin"`
	TxRxPin   int     `yaml:"tx_rx_pin"`
	CrystalHz float64 `yaml:"crystal_hz"`
}

func (c *RadioConfig) chip() (sx1255.Chip, error) {
	switch strings.ToLower(c.Chip) {
	case "", "sx1255":
		return sx1255.SX1255, nil
	case "sx1257":
		return sx1255.SX1257, nil
	}
	return 0, fmt.Errorf("unknown chip %q", c.Chip)
}

// Session represents a simple authenticated session for local use
type Session struct {
	Token     string
	ExpiresAt time.Time
}

var (
	config         Config
	currentSession *Session
	sessionMu      sync.RWMutex
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := loadConfig("config.yaml"); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if config.Radio.SPISpeed == 0 {
		config.Radio.SPISpeed = 500000 // 500 kHz
	}
	if config.Radio.CrystalHz == 0 {
		config.Radio.CrystalHz = 32e6
	}
	slog.Info("Configuration loaded",
		"chip", config.Radio.Chip,
		"spi_device", config.Radio.SPIDevice,
		"crystal_hz", config.Radio.CrystalHz)

	app := fiber.New(fiber.Config{
		ReadTimeout:  ServerReadTimeout,
		WriteTimeout: ServerWriteTimeout,
		AppName:      "SX1255 Control",
	})

	app.Use(fiberLogger.New(fiberLogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	app.Post("/login", handleLogin)
	app.Post("/logout", handleLogout)
	app.Use("/api", authMiddleware)

	radio, err := newRadioAPI(config.Radio)
	if err != nil {
		slog.Error("Failed to initialize radio API", "error", err)
		os.Exit(1)
	}
	radio.RegisterRoutes(app)

	addr := config.Server.Host + ":" + config.Server.Port

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		slog.Info("Shutting down server...")
		if err := app.ShutdownWithContext(context.Background()); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Starting SX1255 control server", "address", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("Failed to start server", "error", err, "address", addr)
		os.Exit(1)
	}
}

func loadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, &config)
}

func handleLogin(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.Auth.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("Failed login attempt", "ip", c.IP())
		return c.Status(401).JSON(fiber.Map{"error": "Invalid password"})
	}

	slog.Info("Successful login", "ip", c.IP())

	sessionMu.Lock()
	currentSession = &Session{
		Token:     generateToken(),
		ExpiresAt: time.Now().Add(SessionDuration),
	}
	sessionMu.Unlock()

	return c.JSON(fiber.Map{
		"success": true,
		"token":   currentSession.Token,
		"expires": currentSession.ExpiresAt.Unix(),
	})
}

func handleLogout(c *fiber.Ctx) error {
	sessionMu.Lock()
	currentSession = nil
	sessionMu.Unlock()
	slog.Info("User logged out", "ip", c.IP())
	return c.JSON(fiber.Map{"success": true})
}

func authMiddleware(c *fiber.Ctx) error {
	// Token in header, falling back to query parameter for websockets
	token := c.Get("X-Auth-Token")
	if token == "" {
		token = c.Query("token")
	}

	if !validateToken(token) {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.Next()
}

func validateToken(token string) bool {
	if token == "" {
		return false
	}

	sessionMu.RLock()
	defer sessionMu.RUnlock()

	if currentSession == nil || currentSession.Token != token {
		return false
	}
	return time.Now().Before(currentSession.ExpiresAt)
}

func generateToken() string {
	b := make([]byte, TokenBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}
