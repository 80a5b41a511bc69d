package handler

import (
	"errors"
	"fmt"

	"go-stocktrack/internal/middleware"
	"go-stocktrack/internal/service"
	"go-stocktrack/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	service service.InventoryService
	store   *session.Store
}

func NewInventoryHandler(s service.InventoryService, store *session.Store) *InventoryHandler {
	return &InventoryHandler{service: s, store: store}
}

// AddProductRequest mirrors the add-product form. Prices arrive as strings
// so form posts and JSON behave the same.
type AddProductRequest struct {
	Name      string `json:"name" form:"p_name"`
	SKU       string `json:"sku" form:"sku"`
	Category  string `json:"category" form:"category"`
	BuyPrice  string `json:"buy_price" form:"buy_price"`
	SellPrice string `json:"sell_price" form:"sell_price"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

// UpdateProductForm mirrors the update-product form. The action field picks
// between an in-place update and a delete.
type UpdateProductForm struct {
	ID            string `json:"id" form:"id"`
	Action        string `json:"action" form:"action"`
	Name          string `json:"name" form:"name"`
	Category      string `json:"category" form:"category"`
	PurchasePrice string `json:"purchase_price" form:"purchase_price"`
	SellingPrice  string `json:"selling_price" form:"selling_price"`
	Quantity      int    `json:"quantity" form:"quantity"`
}

// UpdateStockForm mirrors the quantity-only stock adjustment form.
type UpdateStockForm struct {
	ID       string `json:"id" form:"id"`
	Action   string `json:"action" form:"action"`
	Quantity int    `json:"quantity" form:"quantity"`
}

// AddProductPage handles GET /add_product
func (h *InventoryHandler) AddProductPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flash": takeFlash(c, h.store)})
}

// AddProduct handles POST /add_product (admin, manager)
func (h *InventoryHandler) AddProduct(c *fiber.Ctx) error {
	var form AddProductRequest
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	buyPrice, err := parsePrice(form.BuyPrice)
	if err != nil {
		return h.mutationError(c, err, "/add_product")
	}
	sellPrice, err := parsePrice(form.SellPrice)
	if err != nil {
		return h.mutationError(c, err, "/add_product")
	}

	req := &service.CreateProductRequest{
		Name:          form.Name,
		SKU:           form.SKU,
		Category:      form.Category,
		PurchasePrice: buyPrice,
		SellingPrice:  sellPrice,
		Quantity:      form.Quantity,
	}

	product, err := h.service.CreateProduct(req, middleware.Principal(c))
	if err != nil {
		return h.mutationError(c, err, "/add_product")
	}

	if middleware.WantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Product created successfully!",
			"data":    product,
		})
	}
	setFlash(c, h.store, "Product created successfully!")
	return c.Redirect("/add_product", fiber.StatusFound)
}

// UpdateProductPage handles GET /update_product
func (h *InventoryHandler) UpdateProductPage(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch products"})
	}
	return c.JSON(fiber.Map{
		"flash":    takeFlash(c, h.store),
		"products": products,
	})
}

// UpdateProduct handles POST /update_product (admin, manager): either a full
// field overwrite or a delete, depending on the action field.
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	var form UpdateProductForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := uuid.Parse(form.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product ID"})
	}

	actor := middleware.Principal(c)

	switch form.Action {
	case "update":
		purchasePrice, err := parsePrice(form.PurchasePrice)
		if err != nil {
			return h.mutationError(c, err, "/update_product")
		}
		sellingPrice, err := parsePrice(form.SellingPrice)
		if err != nil {
			return h.mutationError(c, err, "/update_product")
		}

		req := &service.UpdateProductRequest{
			Name:          form.Name,
			Category:      form.Category,
			PurchasePrice: purchasePrice,
			SellingPrice:  sellingPrice,
			Quantity:      form.Quantity,
		}
		product, err := h.service.UpdateProduct(id, req, actor)
		if err != nil {
			return h.mutationError(c, err, "/update_product")
		}
		if middleware.WantsJSON(c) {
			return c.JSON(fiber.Map{"message": "Product updated successfully!", "data": product})
		}
		setFlash(c, h.store, "Product updated successfully!")

	case "delete":
		if err := h.service.DeleteProduct(id, actor); err != nil {
			return h.mutationError(c, err, "/update_product")
		}
		if middleware.WantsJSON(c) {
			return c.JSON(fiber.Map{"message": "Product deleted successfully!"})
		}
		setFlash(c, h.store, "Product deleted successfully!")

	default:
		if middleware.WantsJSON(c) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid action"})
		}
		setFlash(c, h.store, "Invalid Action")
	}

	return c.Redirect("/update_product", fiber.StatusFound)
}

// UpdateStockPage handles GET /update_stock
func (h *InventoryHandler) UpdateStockPage(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch products"})
	}
	return c.JSON(fiber.Map{
		"flash":    takeFlash(c, h.store),
		"products": products,
	})
}

// UpdateStock handles POST /update_stock (admin, manager, staff): the
// quantity-only path.
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var form UpdateStockForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if form.Action != "update" {
		if middleware.WantsJSON(c) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid action"})
		}
		setFlash(c, h.store, "Invalid Action")
		return c.Redirect("/update_stock", fiber.StatusFound)
	}

	id, err := uuid.Parse(form.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product ID"})
	}

	product, err := h.service.UpdateStock(id, form.Quantity, middleware.Principal(c))
	if err != nil {
		return h.mutationError(c, err, "/update_stock")
	}

	if middleware.WantsJSON(c) {
		return c.JSON(fiber.Map{"message": "Stock updated successfully", "data": product})
	}
	setFlash(c, h.store, "Stock updated successfully")
	return c.Redirect("/update_stock", fiber.StatusFound)
}

// mutationError converts a failed mutation into either a JSON error or the
// flash-and-redirect flow. Missing products always surface as a clean 404.
func (h *InventoryHandler) mutationError(c *fiber.Ctx, err error, redirectTo string) error {
	if middleware.WantsJSON(c) || errors.Is(err, service.ErrProductNotFound) {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	setFlash(c, h.store, err.Error())
	return c.Redirect(redirectTo, fiber.StatusFound)
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price value", validator.ErrValidation)
	}
	return price, nil
}
