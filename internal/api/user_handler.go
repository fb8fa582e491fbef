package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/model"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/repository"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/service"
)

// DynamicFieldKeyPrefix marks submission keys that carry a dynamic field
// value; the suffix is the numeric id of the field definition.
const DynamicFieldKeyPrefix = "category-field-"

var fixedFieldKeys = map[string]bool{
	"name":    true,
	"age":     true,
	"gender":  true,
	"email":   true,
	"address": true,
}

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Submit(c *fiber.Ctx) error {
	var payload map[string]interface{}

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	user := &model.User{
		Name:    stringValue(payload["name"]),
		Age:     intValue(payload["age"]),
		Gender:  stringValue(payload["gender"]),
		Email:   stringValue(payload["email"]),
		Address: stringValue(payload["address"]),
	}

	values := extractDynamicValues(payload)

	_, err := h.userService.SubmitForm(c.Context(), user, values)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred while submitting the form."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Form submitted successfully!"})
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	filter := repository.SearchFilter{
		Name:     c.Query("name"),
		Age:      c.Query("age"),
		Gender:   c.Query("gender"),
		Email:    c.Query("email"),
		Address:  c.Query("address"),
		Category: c.Query("category"),
	}

	users, err := h.userService.Search(c.Context(), filter)

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// extractDynamicValues pulls the recognized "category-field-<id>" entries out
// of a flat submission payload. Fixed keys are skipped; unrecognized keys and
// prefixed keys with a non-numeric id are silently discarded.
func extractDynamicValues(payload map[string]interface{}) []model.DynamicValue {
	values := []model.DynamicValue{}
	for key, raw := range payload {
		if fixedFieldKeys[key] || !strings.HasPrefix(key, DynamicFieldKeyPrefix) {
			continue
		}

		fieldID, err := strconv.ParseInt(strings.TrimPrefix(key, DynamicFieldKeyPrefix), 10, 64)
		if err != nil {
			continue
		}

		values = append(values, model.DynamicValue{
			DynamicFieldID: fieldID,
			Value:          rawValueString(raw),
		})
	}
	return values
}

// rawValueString renders a submitted value the way it appeared in the JSON
// body: strings verbatim, everything else via its JSON text. No coercion
// toward the field's declared type happens here or anywhere downstream.
func rawValueString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func intValue(v interface{}) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case string:
		n, _ := strconv.Atoi(value)
		return n
	default:
		return 0
	}
}
