package main

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/linht/sx1255"
)

// monitorInterval is how often the monitor polls the status register.
const monitorInterval = time.Second

// statusFrame is one websocket message from the monitor.
type statusFrame struct {
	Session string         `json:"session"`
	Time    int64          `json:"time"`
	Status  *sx1255.Status `json:"status,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (r *radioAPI) monitorUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// handleMonitor streams status-register polls until the client hangs up.
// Each connection gets its own session id and its own transient device.
func (r *radioAPI) handleMonitor() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		session := uuid.NewString()
		slog.Info("Monitor session started", "session", session)
		defer slog.Info("Monitor session closed", "session", session)

		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()

		for {
			frame := statusFrame{Session: session, Time: time.Now().Unix()}

			err := r.withDevice(func(dev *sx1255.Device) error {
				st, err := dev.Status()
				if err != nil {
					return err
				}
				frame.Status = &st
				return nil
			})
			if err != nil {
				frame.Error = err.Error()
			}

			if err := conn.WriteJSON(frame); err != nil {
				return
			}
			<-ticker.C
		}
	})
}
