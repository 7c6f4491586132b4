package server

import (
	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/gofiber/fiber/v2"
)

type RecordLossRequest struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Reason     string  `json:"reason"`
}

// GET /api/losses
func ListLossesHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Losses())
	}
}

// POST /api/losses
func RecordLossHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecordLossRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		var entry models.LossEntry
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			entry, err = e.RecordLoss(body.Ingredient, body.Quantity, body.Unit, body.Reason)
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/shifts
func ListShiftsHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Shifts())
	}
}

// POST /api/shifts/open
func OpenShiftHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shift models.Shift
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			shift, err = e.OpenShift()
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(shift)
	}
}

// POST /api/shifts/close
func CloseShiftHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shift models.Shift
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			shift, err = e.CloseShift()
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(shift)
	}
}

// GET /api/snapshot
func SnapshotHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Snapshot())
	}
}
