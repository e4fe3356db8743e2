package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aslammaududy/cv-checker/internal/models"
	"github.com/aslammaududy/cv-checker/internal/repositories"
	"github.com/aslammaududy/cv-checker/internal/services"
)

type UploadHandler struct {
	evalRepo       repositories.EvaluationRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	evalRepo repositories.EvaluationRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		evalRepo:       evalRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. Both documents are required; a
// re-upload replaces the file paths on the user's existing evaluation and
// resets it to uploaded.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "valid user_id is required",
		})
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv file is required",
		})
	}

	projectFile, err := c.FormFile("project")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "project file is required",
		})
	}

	for _, file := range []struct {
		name string
		size int64
	}{{"cv", cvFile.Size}, {"project", projectFile.Size}} {
		if file.size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s file too large. Max size: %d bytes", file.name, h.maxFileSize),
			})
		}
	}

	cvPath, err := h.storageService.SaveFile(cvFile, "cv")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save cv file: %v", err),
		})
	}

	projectPath, err := h.storageService.SaveFile(projectFile, "project")
	if err != nil {
		h.storageService.DeleteFile(cvPath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save project file: %v", err),
		})
	}

	evaluation, err := h.evalRepo.FindByUserID(userID)
	if err == nil {
		if err := h.evalRepo.UpdateFiles(evaluation.ID, cvPath, projectPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update evaluation record",
			})
		}
	} else {
		evaluation = &models.Evaluation{
			ID:          uuid.New(),
			UserID:      userID,
			CVPath:      cvPath,
			ProjectPath: projectPath,
			Status:      models.StatusUploaded,
		}

		if err := h.evalRepo.Create(evaluation); err != nil {
			h.storageService.DeleteFile(cvPath)
			h.storageService.DeleteFile(projectPath)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create evaluation record",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:     evaluation.ID.String(),
		UserID: userID.String(),
		Status: string(models.StatusUploaded),
	})
}
