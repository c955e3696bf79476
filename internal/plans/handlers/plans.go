package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/calibrate"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/preview"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/models"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/repository"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/plans/service"
)

// ============================================================
// Plans Handler
// ============================================================

type PlansHandler struct {
	repo    *repository.Repository
	storage *service.FileStorage
}

func NewPlansHandler(repo *repository.Repository, storage *service.FileStorage) *PlansHandler {
	return &PlansHandler{repo: repo, storage: storage}
}

type createProjectRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type saveRequest struct {
	Document string        `json:"document"`
	Elements plan.Elements `json:"elements"`
}

type saveResponse struct {
	Preview string `json:"preview"`
	SavedAt string `json:"saved_at"`
}

// ============================================================
// Project CRUD
// ============================================================

// CreateProject creates an empty project.
func (h *PlansHandler) CreateProject(c fiber.Ctx) error {
	var req createProjectRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	project := models.Project{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.repo.CreateProject(context.Background(), project); err != nil {
		log.Printf("[PLANS] create project: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create project"})
	}

	created, err := h.repo.GetProject(context.Background(), project.ID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load project"})
	}
	return c.Status(http.StatusCreated).JSON(created)
}

func (h *PlansHandler) ListProjects(c fiber.Ctx) error {
	projects, err := h.repo.ListProjects(context.Background())
	if err != nil {
		log.Printf("[PLANS] list projects: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list projects"})
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return c.JSON(projects)
}

func (h *PlansHandler) GetProject(c fiber.Ctx) error {
	project, err := h.repo.GetProject(context.Background(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load project"})
	}
	return c.JSON(project)
}

func (h *PlansHandler) DeleteProject(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.repo.DeleteProject(context.Background(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete project"})
	}
	if err := h.storage.Remove(id); err != nil {
		log.Printf("[PLANS] remove project files: %v", err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// ============================================================
// Plan document & elements
// ============================================================

// GetPlan serves the project's plan document.
func (h *PlansHandler) GetPlan(c fiber.Ctx) error {
	data, err := os.ReadFile(h.storage.PlanPath(c.Params("id")))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "plan not found"})
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.Send(data)
}

// GetElements serves the persisted per-kind element arrays, used by
// the editor to seed its collections.
func (h *PlansHandler) GetElements(c fiber.Ctx) error {
	data, err := os.ReadFile(h.storage.ElementsPath(c.Params("id")))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no elements persisted"})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// GetPreview serves the raster preview of the last save.
func (h *PlansHandler) GetPreview(c fiber.Ctx) error {
	data, err := os.ReadFile(h.storage.PreviewPath(c.Params("id")))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "no preview"})
	}
	c.Set("Content-Type", "image/png")
	return c.Send(data)
}

// UploadPlan stores an initial plan document for a project.
func (h *PlansHandler) UploadPlan(c fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := h.repo.GetProject(context.Background(), projectID); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required in multipart/form-data"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	if err := h.storage.Save(projectID, h.storage.PlanPath(projectID), data); err != nil {
		log.Printf("[PLANS] store plan: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store plan"})
	}
	return c.JSON(fiber.Map{"status": "stored"})
}

// SavePlan is the save endpoint: it persists the regenerated document
// and the structured element arrays, renders a fresh preview and
// records a revision. The artifacts are staged together; a failed
// write leaves the previous save in place and records no revision.
func (h *PlansHandler) SavePlan(c fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := h.repo.GetProject(context.Background(), projectID); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}

	var req saveRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Document == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "document required"})
	}

	elementsJSON, err := json.Marshal(req.Elements)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid elements"})
	}

	// the saved document calibrates the preview canvas
	cal := calibrate.FromSVG([]byte(req.Document), 0)
	previewPNG, err := preview.Render(req.Elements, cal.CanvasWidth, cal.CanvasHeight, cal.WallStroke)
	if err != nil {
		log.Printf("[PLANS] render preview: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render preview"})
	}

	err = h.storage.SaveSet(projectID, map[string][]byte{
		h.storage.PlanPath(projectID):     []byte(req.Document),
		h.storage.ElementsPath(projectID): elementsJSON,
		h.storage.PreviewPath(projectID):  previewPNG,
	})
	if err != nil {
		log.Printf("[PLANS] store plan: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store plan"})
	}

	savedAt := time.Now().UTC().Format(time.RFC3339)
	rev := models.Revision{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		SavedAt:   savedAt,
		Preview:   "preview.png",
	}
	if err := h.repo.AddRevision(context.Background(), rev); err != nil {
		log.Printf("[PLANS] add revision: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record revision"})
	}

	return c.JSON(saveResponse{Preview: rev.Preview, SavedAt: savedAt})
}
