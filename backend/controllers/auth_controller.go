package controllers

import (
	"log"

	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	base
	Users *services.UserService
}

func NewAuthController(users *services.UserService, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{base: base{Logger: logger, Cfg: cfg}, Users: users}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@example.com"`
	Password string `json:"password" validate:"required" example:"password123"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := parseBody(c, &input); err != nil {
		return ac.fail(c, err)
	}

	user, err := ac.Users.Login(c.UserContext(), input.Email, input.Password, c.IP())
	if err != nil {
		return ac.fail(c, err)
	}

	token, err := utils.GenerateToken(user, ac.Cfg)
	if err != nil {
		return ac.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"token": token, "user": user})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	return utils.OK(c, fiber.Map{"user": currentUser(c)})
}

// Refresh issues a new token for the authenticated user.
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	user := currentUser(c)
	token, err := utils.GenerateToken(user, ac.Cfg)
	if err != nil {
		return ac.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"token": token, "user": user})
}

// ChangePassword godoc
// @Summary Change own password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/change-password [post]
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var input ChangePasswordRequest
	if err := parseBody(c, &input); err != nil {
		return ac.fail(c, err)
	}
	if err := ac.Users.ChangePassword(c.UserContext(), currentUser(c), input.CurrentPassword, input.NewPassword); err != nil {
		return ac.fail(c, err)
	}
	return utils.Message(c, "Password changed")
}
