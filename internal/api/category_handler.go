package api

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validate        *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validate:        validator.New(),
	}
}

type CategoryFieldRequest struct {
	Name       string `json:"name"`
	FieldType  string `json:"field_type"`
	IsRequired *bool  `json:"is_required"`
}

type CreateCategoryRequest struct {
	Name   string                 `json:"name" validate:"required"`
	Fields []CategoryFieldRequest `json:"fields" validate:"required,min=1"`
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var request CreateCategoryRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if strings.TrimSpace(request.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid category name"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid fields array", "details": err.Error()})
	}

	fields := make([]model.DynamicField, 0, len(request.Fields))
	for _, field := range request.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid field name"})
		}
		if !model.ValidFieldType(field.FieldType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid field type"})
		}
		if field.IsRequired == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid is_required flag"})
		}

		fields = append(fields, model.DynamicField{
			Name:       field.Name,
			FieldType:  field.FieldType,
			IsRequired: *field.IsRequired,
		})
	}

	_, err := h.categoryService.CreateCategory(c.Context(), request.Name, fields)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created successfully"})
}

func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListCategories(c.Context())

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": categories})
}

func (h *CategoryHandler) ListBasicFields(c *fiber.Ctx) error {
	fields, err := h.categoryService.ListBasicFields(c.Context())

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"fields": fields})
}

func (h *CategoryHandler) ListCategoryFields(c *fiber.Ctx) error {
	categoryIDStr := c.Params("categoryId")
	categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64)

	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	fields, err := h.categoryService.ListCategoryFields(c.Context(), categoryID)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"fields": fields})
}
