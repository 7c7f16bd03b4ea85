package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/Yrcd27/mirror-auth-service/internal/errors"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/domain"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/dto"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/service"
	"github.com/Yrcd27/mirror-auth-service/pkg/constant"
)

type JournalHandler struct {
	entryService *service.EntryService
}

func NewJournalHandler(entryService *service.EntryService) *JournalHandler {
	return &JournalHandler{entryService: entryService}
}

func RegisterRoutes(app *fiber.App, h *JournalHandler, requireAuth fiber.Handler) {
	journal := app.Group("/api/journal", requireAuth)
	journal.Post("/", h.Create)
	journal.Get("/", h.List)
	journal.Get("/:id", h.Get)
	journal.Put("/:id", h.Update)
	journal.Delete("/:id", h.Delete)
}

func (h *JournalHandler) Create(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	var input dto.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	entry, err := h.entryService.Create(c.Context(), userID, input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(toOutput(entry))
}

func (h *JournalHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	entries, err := h.entryService.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toOutput(entry))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *JournalHandler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	entry, err := h.entryService.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, autherror.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Journal entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.Status(fiber.StatusOK).JSON(toOutput(entry))
}

func (h *JournalHandler) Update(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	var input dto.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid input"})
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	entry, err := h.entryService.Update(c.Context(), userID, c.Params("id"), input)
	if err != nil {
		if errors.Is(err, autherror.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Journal entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.Status(fiber.StatusOK).JSON(toOutput(entry))
}

func (h *JournalHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals(constant.LocalsUserID).(string)

	if err := h.entryService.Delete(c.Context(), userID, c.Params("id")); err != nil {
		if errors.Is(err, autherror.ErrEntryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Journal entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Journal entry deleted"})
}

func toOutput(entry *domain.Entry) dto.EntryOutput {
	return dto.EntryOutput{
		ID:        entry.ID,
		Title:     entry.Title,
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}
