package handler

import (
	"go-marketplace-toko/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.CreateUser(getCaller(c), &req)
	if err != nil {
		return respondError(c, "CreateUser", err, "Gagal menambahkan user.")
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    user,
	})
}

// GetUsers returns all users
// GET /api/v1/admin/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(getCaller(c))
	if err != nil {
		return respondError(c, "GetAllUsers", err, "Failed to fetch users")
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetAssignable returns users that can own a store
// GET /api/v1/admin/users/assignable
func (h *UserHandler) GetAssignable(c *fiber.Ctx) error {
	users, err := h.userService.GetAssignableUsers(getCaller(c))
	if err != nil {
		return respondError(c, "GetAssignableUsers", err, "Failed to fetch users")
	}
	return c.JSON(fiber.Map{"data": users})
}
