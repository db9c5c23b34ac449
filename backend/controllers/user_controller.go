package controllers

import (
	"log"
	"time"

	"courseplatform/backend/apperr"
	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	base
	Users *services.UserService
}

func NewUserController(users *services.UserService, cfg *config.Config, logger *log.Logger) *UserController {
	return &UserController{base: base{Logger: logger, Cfg: cfg}, Users: users}
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [get]
func (uc *UserController) List(c *fiber.Ctx) error {
	users, err := uc.Users.List(c.UserContext())
	if err != nil {
		return uc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"users": users})
}

// Create godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param input body services.CreateUserInput true "User data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [post]
func (uc *UserController) Create(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := parseBody(c, &input); err != nil {
		return uc.fail(c, err)
	}
	user, err := uc.Users.Create(c.UserContext(), input)
	if err != nil {
		return uc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"user": user})
}

func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return uc.fail(c, err)
	}
	var input services.UserUpdate
	if err := parseBody(c, &input); err != nil {
		return uc.fail(c, err)
	}
	user, err := uc.Users.Update(c.UserContext(), id, input)
	if err != nil {
		return uc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"user": user})
}

func (uc *UserController) ResetPassword(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return uc.fail(c, err)
	}
	var input ResetPasswordRequest
	if err := parseBody(c, &input); err != nil {
		return uc.fail(c, err)
	}
	if err := uc.Users.ResetPassword(c.UserContext(), id, input.NewPassword); err != nil {
		return uc.fail(c, err)
	}
	return utils.Message(c, "Password reset")
}

func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return uc.fail(c, err)
	}
	if err := uc.Users.Delete(c.UserContext(), id); err != nil {
		return uc.fail(c, err)
	}
	return utils.Message(c, "User deleted")
}

// Logins возвращает историю входов пользователя за период
// (по умолчанию последний месяц)
func (uc *UserController) Logins(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return uc.fail(c, err)
	}

	end := time.Now()
	start := end.AddDate(0, -1, 0)
	if v := c.Query("start_date"); v != "" {
		if start, err = time.Parse("2006-01-02", v); err != nil {
			return uc.fail(c, apperr.BadRequest("Invalid start_date format. Use YYYY-MM-DD"))
		}
	}
	if v := c.Query("end_date"); v != "" {
		if end, err = time.Parse("2006-01-02", v); err != nil {
			return uc.fail(c, apperr.BadRequest("Invalid end_date format. Use YYYY-MM-DD"))
		}
	}

	logins, err := uc.Users.LoginHistory(c.UserContext(), id, start, end.AddDate(0, 0, 1))
	if err != nil {
		return uc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{
		"logins": logins,
		"period": fiber.Map{"start": start.Format("2006-01-02"), "end": end.Format("2006-01-02")},
	})
}
