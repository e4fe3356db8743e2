package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aslammaududy/cv-checker/internal/models"
	"github.com/aslammaududy/cv-checker/internal/repositories"
	"github.com/aslammaududy/cv-checker/internal/services"
)

type EvaluationHandler struct {
	evalRepo repositories.EvaluationRepository
	worker   services.Worker
}

func NewEvaluationHandler(
	evalRepo repositories.EvaluationRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo: evalRepo,
		worker:   worker,
	}
}

// HandleEvaluate handles POST /evaluate. It only marks the record queued and
// enqueues the async work; the response returns immediately.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "valid user_id is required",
		})
	}

	evaluation, err := h.evalRepo.FindByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No uploaded documents found for this user",
		})
	}

	if evaluation.Status == models.StatusQueued || evaluation.Status == models.StatusProcessing {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "An evaluation is already in progress for this user",
		})
	}

	if err := h.evalRepo.UpdateStatus(evaluation.ID, models.StatusQueued); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to queue evaluation",
		})
	}

	h.worker.EnqueueJob(evaluation.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     evaluation.ID.String(),
		Status: string(models.StatusQueued),
	})
}
