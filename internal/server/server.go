// Package server exposes the terminal commands as a JSON API. Every
// mutating request runs through the terminal session, so it is persisted
// and its events published exactly like a CLI command.
package server

import (
	"errors"
	"log"
	"strconv"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)


func New(s *terminal.Session) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "tablepos",
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	api := app.Group("/api")

	// Tables
	api.Get("/tables", ListTablesHandler(s))
	api.Post("/tables", CreateTableHandler(s))
	api.Get("/tables/:id", GetTableHandler(s))
	api.Delete("/tables/:id", DeleteTableHandler(s))
	api.Post("/tables/:id/select", SelectTableHandler(s))
	api.Put("/tables/:id/notes", SetNotesHandler(s))
	api.Get("/active", ActiveTableHandler(s))
	api.Delete("/active", DeselectTableHandler(s))

	// Cart
	api.Post("/tables/:id/items", AddItemHandler(s))
	api.Put("/tables/:id/items/:index", SetLineQuantityHandler(s))
	api.Delete("/tables/:id/items/:index", RemoveLineHandler(s))
	api.Delete("/tables/:id/items", ClearCartHandler(s))
	api.Get("/tables/:id/stock", CheckStockHandler(s))

	// Kitchen, documents and sales
	api.Get("/tables/:id/kitchen", KitchenDiffHandler(s))
	api.Post("/tables/:id/kitchen", SendToKitchenHandler(s))
	api.Post("/tables/:id/prebill", PrebillHandler(s))
	api.Post("/tables/:id/sale", ConfirmSaleHandler(s))
	api.Get("/sales", ListSalesHandler(s))
	api.Get("/sales/:id", GetSaleHandler(s))
	api.Get("/sales/:id/receipt", ReceiptHandler(s))
	api.Get("/report", ReportHandler(s))

	// Catalog
	api.Get("/inventory", ListInventoryHandler(s))
	api.Get("/inventory/low", LowStockHandler(s))
	api.Post("/inventory", AddIngredientHandler(s))
	api.Patch("/inventory/:name", UpdateIngredientHandler(s))
	api.Delete("/inventory/:name", RemoveIngredientHandler(s))
	api.Get("/recipes", ListRecipesHandler(s))
	api.Post("/recipes", AddRecipeHandler(s))
	api.Patch("/recipes/:name", UpdateRecipeHandler(s))
	api.Delete("/recipes/:name", RemoveRecipeHandler(s))
	api.Post("/recipes/:name/ingredients", AddRecipeLineHandler(s))
	api.Put("/recipes/:name/ingredients/:index", SetRecipeLineHandler(s))
	api.Delete("/recipes/:name/ingredients/:index", RemoveRecipeLineHandler(s))

	// Losses and shifts
	api.Get("/losses", ListLossesHandler(s))
	api.Post("/losses", RecordLossHandler(s))
	api.Get("/shifts", ListShiftsHandler(s))
	api.Post("/shifts/open", OpenShiftHandler(s))
	api.Post("/shifts/close", CloseShiftHandler(s))

	api.Get("/snapshot", SnapshotHandler(s))

	return app
}

// ErrorHandler renders errors as {"error": ...} with the status their kind
// calls for. Stock failures also carry the per-ingredient shortfalls.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	body := fiber.Map{"error": err.Error()}

	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["shortfalls"] = stockErr.Shortfalls
	}
	if code >= fiber.StatusInternalServerError {
		log.Println("Unexpected error:", err)
	}
	return c.Status(code).JSON(body)
}

func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateKey),
		errors.Is(err, models.ErrTableNotEmpty),
		errors.Is(err, models.ErrTableIsActive),
		errors.Is(err, models.ErrShiftAlreadyOpen),
		errors.Is(err, models.ErrNoOpenShift),
		errors.Is(err, models.ErrNothingNewToSend):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInsufficientPayment),
		errors.Is(err, models.ErrEmptyCart):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrUnitMismatch),
		errors.Is(err, models.ErrNoActiveTable):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// tableParam maps the "active" alias to the empty id the engine resolves
// to the active table.
func tableParam(c *fiber.Ctx) string {
	id := c.Params("id")
	if id == models.ActiveTableAlias {
		return ""
	}
	return id
}

func indexParam(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
	}
	return index, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error())
	}
	return nil
}
