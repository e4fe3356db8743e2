package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aslammaududy/cv-checker/internal/models"
	"github.com/aslammaududy/cv-checker/internal/repositories"
)

// failedRunMessage is returned for failed evaluations instead of the
// internal error, which stays in the logs.
const failedRunMessage = "Evaluation failed. Please re-upload your documents and submit a new evaluation."

type ResultHandler struct {
	evalRepo repositories.EvaluationRepository
}

func NewResultHandler(evalRepo repositories.EvaluationRepository) *ResultHandler {
	return &ResultHandler{
		evalRepo: evalRepo,
	}
}

// HandleGetResult handles GET /result/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	evalID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation ID format",
		})
	}

	evaluation, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluation not found",
		})
	}

	response := models.ResultResponse{
		ID:     evaluation.ID.String(),
		Status: string(evaluation.Status),
	}

	if evaluation.Status == models.StatusCompleted && evaluation.Result != nil {
		var result models.EvaluationResult
		if err := json.Unmarshal([]byte(*evaluation.Result), &result); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Stored result is unreadable",
			})
		}
		response.Result = &result
	}

	if evaluation.Status == models.StatusFailed {
		response.Message = failedRunMessage
	}

	return c.JSON(response)
}
