package integrity

import (
	"object-signer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/bucket", h.HandleBucketCheck)
	group.Get("/audit", h.HandleAuditCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the bucket and audit table checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if bucket, err := h.service.CheckBucket(c.UserContext()); err != nil {
		report["bucket"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["bucket"] = bucket
	}

	if audit, err := h.service.CheckAudit(c.UserContext()); err != nil {
		report["audit"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["audit"] = audit
	}

	return c.JSON(report)
}

// HandleBucketCheck checks the configured bucket.
// @Summary Check Bucket
// @Description Checks that the configured bucket exists and the credentials can reach it.
// @Tags integrity
// @Produce json
// @Success 200 {object} integrity.BucketReport "Bucket Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckBucket(c.UserContext())
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// HandleAuditCheck checks the audit table schema.
// @Summary Check Audit Table
// @Description Checks that the presign audit table has the expected columns.
// @Tags integrity
// @Produce json
// @Success 200 {object} integrity.AuditReport "Audit Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/audit [get]
func (h *Handler) HandleAuditCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckAudit(c.UserContext())
	if err != nil {
		l.Error("Audit check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}
