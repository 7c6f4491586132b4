package server

import (
	"time"

	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/report"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TipRequest struct {
	Mode  string          `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

func (t *TipRequest) config() models.TipConfig {
	if t == nil {
		return models.TipConfig{Mode: models.TipModeNone}
	}
	return models.TipConfig{Mode: t.Mode, Value: t.Value}
}

type PrebillRequest struct {
	Tip *TipRequest `json:"tip"`
}

type ConfirmSaleRequest struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	Tip           *TipRequest     `json:"tip"`
	OrderType     string          `json:"order_type"`
	Notes         *string         `json:"notes"`
}

// GET /api/tables/:id/kitchen
func KitchenDiffHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		diff, err := s.Engine().DiffForKitchen(tableParam(c))
		if err != nil {
			return err
		}
		return c.JSON(diff)
	}
}

// POST /api/tables/:id/kitchen
//
// The ticket is delivered through the kitchen_ticket_events topic of the
// configured output.
func SendToKitchenHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := s.SendToKitchen(c.UserContext(), tableParam(c))
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// POST /api/tables/:id/prebill
func PrebillHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PrebillRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &body); err != nil {
				return err
			}
		}
		doc, err := s.Engine().RequestPrebill(tableParam(c), body.Tip.config())
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// POST /api/tables/:id/sale
func ConfirmSaleHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConfirmSaleRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		req := s.SaleDefaults(engine.SaleRequest{
			Payment:   models.Payment{AmountPaid: body.AmountPaid, Method: body.PaymentMethod},
			Tip:       body.Tip.config(),
			OrderType: body.OrderType,
			Notes:     body.Notes,
		})

		id := tableParam(c)
		var result *engine.SaleResult
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			result, err = e.ConfirmSale(id, req)
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// GET /api/sales
func ListSalesHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Sales())
	}
}

// GET /api/sales/:id
func GetSaleHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sale, err := s.Engine().Sale(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(sale)
	}
}

// GET /api/sales/:id/receipt
func ReceiptHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := s.Engine().Receipt(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// GET /api/report?from=2024-05-01&to=2024-05-31&shift=<id>
func ReportHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := parseDay(c.Query("from"))
		if err != nil {
			return err
		}
		to, err := parseDay(c.Query("to"))
		if err != nil {
			return err
		}
		start, end := report.DayRange(from, to, time.Local)
		summary := report.Summarize(s.Engine().Sales(), report.Filter{
			From:    start,
			To:      end,
			ShiftID: c.Query("shift"),
		})
		return c.JSON(summary)
	}
}

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "dates must be formatted as YYYY-MM-DD")
	}
	return d, nil
}
