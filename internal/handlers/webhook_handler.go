package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"growthledger/internal/catalog"
	"growthledger/internal/repositories"
	"growthledger/internal/services"
)

// SourceGleam tags ledger entries created from gleam deliveries.
const SourceGleam = "gleam"

// WebhookHandler handles growth-action deliveries from the gleam campaign
// platform: catalog lookup, user resolution, then the idempotent apply.
type WebhookHandler struct {
	ledgerService *services.LedgerService
	userService   *services.UserService
	actions       catalog.Catalog
	validate      *validator.Validate
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(ledgerService *services.LedgerService, userService *services.UserService, actions catalog.Catalog) *WebhookHandler {
	return &WebhookHandler{
		ledgerService: ledgerService,
		userService:   userService,
		actions:       actions,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the webhook routes with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/gleam", h.HandleGleamEvent)
}

// GleamEvent is the subset of the gleam entry webhook this service consumes.
type GleamEvent struct {
	Campaign struct {
		Key  string `json:"key" validate:"required"`
		Name string `json:"name"`
	} `json:"campaign"`
	Entry struct {
		ID     int64  `json:"id" validate:"required"`
		Action string `json:"action" validate:"required"`
	} `json:"entry"`
	User struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"`
	} `json:"user"`
}

// EventKey composes the globally unique external event key for the delivery.
// Campaign keys are slugs and cannot contain the separator, so keys from
// distinct campaigns or entries can never collide.
func (e *GleamEvent) EventKey() string {
	return fmt.Sprintf("%s:%d", e.Campaign.Key, e.Entry.ID)
}

// HandleGleamEvent processes one delivery. Gleam retries until it sees a 2xx,
// so every recognized outcome — applied, duplicate, zero-value action, user
// not yet signed up — responds success-shaped; only malformed payloads and
// storage failures are reported as errors.
func (h *WebhookHandler) HandleGleamEvent(c *fiber.Ctx) error {
	deliveryID := uuid.New().String()

	var event GleamEvent
	if err := c.BodyParser(&event); err != nil {
		log.Printf("[%s] Error parsing gleam payload: %v", deliveryID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(&event); err != nil {
		log.Printf("[%s] Invalid gleam payload: %v", deliveryID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid gleam payload",
			"error":   err.Error(),
		})
	}

	// Unknown or zero-value actions never reach the ledger.
	points := h.actions.Points(event.Entry.Action)
	if points <= 0 {
		log.Printf("[%s] Ignoring action %q worth %d points", deliveryID, event.Entry.Action, points)
		return c.JSON(fiber.Map{
			"status": "ignored",
			"action": event.Entry.Action,
		})
	}

	user, err := h.userService.FindByEmail(event.User.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Lenient policy: the signup may simply not have landed
			// yet, so skip the award rather than bounce the delivery.
			log.Printf("[%s] No user for %s, skipping award", deliveryID, event.User.Email)
			return c.JSON(fiber.Map{
				"status": "skipped",
				"reason": "unknown user",
			})
		}
		log.Printf("[%s] Error resolving user %s: %v", deliveryID, event.User.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not resolve user",
		})
	}

	reason := fmt.Sprintf("gleam action: %s", event.Entry.Action)
	result, err := h.ledgerService.ApplyEvent(user.ID, points, reason, SourceGleam, event.EventKey(), c.Body())
	if err != nil {
		log.Printf("[%s] Error applying event %s: %v", deliveryID, event.EventKey(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not record event",
		})
	}

	if !result.Applied {
		log.Printf("[%s] Duplicate delivery of event %s", deliveryID, event.EventKey())
		return c.JSON(fiber.Map{
			"status": "duplicate",
			"total":  result.Total,
		})
	}

	log.Printf("[%s] Awarded %d points to user %d for event %s", deliveryID, points, user.ID, event.EventKey())
	return c.JSON(fiber.Map{
		"status": "applied",
		"points": points,
		"total":  result.Total,
	})
}
