package presign

import (
	"net/url"
	"strconv"
	"time"

	"object-signer/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for presigned URLs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the presign routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/presign")
	group.Get("/*", h.HandlePresign)
}

// HandlePresign returns a presigned download URL for an object key.
// @Summary Presign Object Download
// @Description Returns a time-limited URL granting read access to the object. The key may contain slashes. No request is made to the storage provider.
// @Tags presign
// @Produce json
// @Param key path string true "Object key"
// @Param expires_in query int false "Lifetime in seconds (default 86400, max 604800)"
// @Success 200 {object} presign.SignedURL "Signed URL"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /presign/{key} [get]
func (h *Handler) HandlePresign(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed object key"})
	}

	var expiry time.Duration
	if raw := c.Query("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 || seconds > int(MaxExpiry/time.Second) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expires_in must be between 1 and 604800 seconds"})
		}
		expiry = time.Duration(seconds) * time.Second
	}

	ctx := WithRayID(c.UserContext(), logger.RayID(c))
	signed, err := h.service.Sign(ctx, key, expiry)
	if err != nil {
		if IsInvalidInput(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate presigned URL"})
	}

	l.Debug("Issued presigned URL",
		zap.String("key", signed.Key),
		zap.Time("expires_at", signed.ExpiresAt))

	return c.JSON(signed)
}
