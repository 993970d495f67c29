package audit

import (
	"errors"

	"license-auditor/core/logger"
	"license-auditor/core/reconcile"
	"license-auditor/feature/history"
	"license-auditor/feature/inventory"
	"license-auditor/feature/license"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// inputErrors are failures caused by the uploaded files rather than the server.
var inputErrors = []error{
	license.ErrMissingSection,
	license.ErrUnsupportedLayout,
	reconcile.ErrUnknownObjectType,
	reconcile.ErrInvalidRange,
	inventory.ErrUnsupportedRow,
	inventory.ErrInvalidObjectID,
	inventory.ErrUnsupportedFormat,
	inventory.ErrNoSheets,
	inventory.ErrSheetNotFound,
}

// Handler handles HTTP requests for audits.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the audit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/audit")
	group.Post("/", h.HandleAudit)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleAudit runs an audit on the multipart fields "license" and "objects".
// The optional form value "sheet" selects the inventory sheet.
func (h *Handler) HandleAudit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	licenseFile, err := c.FormFile("license")
	if err != nil {
		return badRequest(c, "missing form file \"license\"")
	}
	objectsFile, err := c.FormFile("objects")
	if err != nil {
		return badRequest(c, "missing form file \"objects\"")
	}

	licenseReader, err := licenseFile.Open()
	if err != nil {
		return internalError(c, l, err)
	}
	defer licenseReader.Close()

	objectsReader, err := objectsFile.Open()
	if err != nil {
		return internalError(c, l, err)
	}
	defer objectsReader.Close()

	outcome, err := h.service.Upload(c.Context(), UploadRequest{
		LicenseName: licenseFile.Filename,
		License:     licenseReader,
		ObjectsName: objectsFile.Filename,
		Objects:     objectsReader,
		Sheet:       c.FormValue("sheet"),
	})
	if err != nil {
		if isInputError(err) {
			l.Info("Rejected audit input", zap.Error(err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return internalError(c, l, err)
	}

	return c.JSON(outcome)
}

// HandleListRuns lists recorded runs, newest first. Query "limit" caps the result.
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	repo := h.service.History()
	if repo == nil {
		return historyDisabled(c)
	}

	limit := c.QueryInt("limit", h.service.cfg.HistoryLimit)
	runs, err := repo.List(c.Context(), limit)
	if err != nil {
		return internalError(c, logger.WithRayID(h.service.logger, c), err)
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// HandleGetRun returns one run with its violations.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	repo := h.service.History()
	if repo == nil {
		return historyDisabled(c)
	}

	run, err := repo.Get(c.Context(), c.Params("id"))
	if errors.Is(err, history.ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return internalError(c, logger.WithRayID(h.service.logger, c), err)
	}
	return c.JSON(run)
}

func isInputError(err error) bool {
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func historyDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "audit history is disabled"})
}

func internalError(c *fiber.Ctx, l *zap.Logger, err error) error {
	l.Error("Audit request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
