package server

import (
	"github.com/chrisdamba/tablepos/internal/engine"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SelectTableRequest struct {
	// OutgoingNotes are saved on the previously active table before the
	// switch. Omit to leave its notes alone.
	OutgoingNotes *string `json:"outgoing_notes"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type AddItemRequest struct {
	Dish     string `json:"dish"`
	Quantity int    `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GET /api/tables
func ListTablesHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Engine().Tables())
	}
}

// POST /api/tables
func CreateTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		var table *models.Table
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.CreateTable(body.ID, body.Name)
			return err
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(table)
	}
}

// GET /api/tables/:id
func GetTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		table, err := s.Engine().Table(tableParam(c))
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// DELETE /api/tables/:id
func DeleteTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		err := s.Do(c.UserContext(), func(e *engine.Engine) error {
			return e.DeleteTable(id)
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/tables/:id/select
func SelectTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SelectTableRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &body); err != nil {
				return err
			}
		}
		id := c.Params("id")
		var table *models.Table
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.SelectTable(id, body.OutgoingNotes)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// GET /api/active
func ActiveTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := s.Engine().ActiveTableID()
		if id == "" {
			return models.ErrNoActiveTable
		}
		table, err := s.Engine().Table(id)
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// DELETE /api/active
func DeselectTableHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := s.Do(c.UserContext(), func(e *engine.Engine) error {
			e.DeselectTable()
			return nil
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PUT /api/tables/:id/notes
func SetNotesHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NotesRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		id := tableParam(c)
		var table *models.Table
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.SetNotes(id, body.Notes)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// POST /api/tables/:id/items
func AddItemHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddItemRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		if body.Quantity == 0 {
			body.Quantity = 1
		}
		id := tableParam(c)
		var table *models.Table
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.AddItem(id, body.Dish, body.Quantity)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// PUT /api/tables/:id/items/:index
func SetLineQuantityHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := indexParam(c)
		if err != nil {
			return err
		}
		var body QuantityRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		id := tableParam(c)
		var table *models.Table
		err = s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.SetLineQuantity(id, index, body.Quantity)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// DELETE /api/tables/:id/items/:index
func RemoveLineHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := indexParam(c)
		if err != nil {
			return err
		}
		id := tableParam(c)
		var table *models.Table
		err = s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.RemoveLine(id, index)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// DELETE /api/tables/:id/items
func ClearCartHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := tableParam(c)
		var table *models.Table
		err := s.Do(c.UserContext(), func(e *engine.Engine) (err error) {
			table, err = e.ClearCart(id)
			return err
		})
		if err != nil {
			return err
		}
		return c.JSON(table)
	}
}

// GET /api/tables/:id/stock
func CheckStockHandler(s *terminal.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqs, shortfalls, unresolved, err := s.Engine().CheckStock(tableParam(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"requirements": reqs,
			"shortfalls":   shortfalls,
			"unresolved":   unresolved,
			"ok":           len(shortfalls) == 0,
		})
	}
}
