package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"growthledger/internal/repositories"
	"growthledger/internal/services"
)

// UserHandler handles HTTP requests for the user directory and point totals.
type UserHandler struct {
	userService   *services.UserService
	ledgerService *services.LedgerService
	validate      *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, ledgerService *services.LedgerService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ledgerService: ledgerService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id/points", h.HandleGetPoints)
}

// CreateUserRequest is the request body for user creation.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleCreateUser finds or creates a user by email. Repeating the request
// for the same email (in any casing) returns the same user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	user, created, err := h.userService.FindOrCreate(req.Email)
	if err != nil {
		log.Printf("Error finding or creating user %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create user",
		})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(user)
}

// HandleGetPoints returns the user's current point total.
func (h *UserHandler) HandleGetPoints(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user id",
		})
	}

	total, err := h.ledgerService.GetTotal(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error computing total for user %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute total",
		})
	}

	return c.JSON(fiber.Map{
		"user_id": id,
		"total":   total,
	})
}
