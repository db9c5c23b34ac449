package controllers

import (
	"errors"
	"log"

	"courseplatform/backend/access"
	"courseplatform/backend/apperr"
	"courseplatform/backend/config"
	"courseplatform/backend/middleware"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// base carries what every controller needs to answer errors.
type base struct {
	Logger *log.Logger
	Cfg    *config.Config
}

// fail renders err through the shared error envelope.
func (b base) fail(c *fiber.Ctx, err error) error {
	return RenderError(c, err, b.Logger, b.Cfg)
}

// RenderError maps the error taxonomy to HTTP statuses. Internal errors are
// logged and hidden in production.
func RenderError(c *fiber.Ctx, err error, logger *log.Logger, cfg *config.Config) error {
	var (
		notFound   *apperr.NotFoundError
		invalid    *apperr.ValidationError
		badRequest *apperr.BadRequestError
		conflict   *apperr.ConflictError
		forbidden  *apperr.ForbiddenError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return utils.Unauthorized(c, "Authentication required")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return utils.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, access.ErrNoCourseAccess):
		return utils.Forbidden(c, "No access to this course")
	case errors.Is(err, access.ErrInsufficientRole):
		return utils.Forbidden(c, "Insufficient permissions for this operation")
	case errors.As(err, &forbidden):
		return utils.Forbidden(c, forbidden.Message)
	case errors.As(err, &notFound):
		return utils.NotFound(c, notFound.Error())
	case errors.As(err, &invalid):
		if len(invalid.Fields) > 0 {
			return utils.ValidationError(c, invalid.Fields)
		}
		return utils.Error(c, fiber.StatusUnprocessableEntity, invalid.Error())
	case errors.As(err, &badRequest):
		return utils.BadRequest(c, badRequest.Message)
	case errors.As(err, &conflict):
		return utils.Conflict(c, conflict.Message)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.Conflict(c, "Resource already exists")
	case errors.As(err, &fiberErr):
		return utils.Error(c, fiberErr.Code, fiberErr.Message)
	}

	requestID, _ := c.Locals("requestid").(string)
	logger.Printf("%s %s %s internal error: %v", requestID, c.Method(), c.Path(), err)
	if cfg.IsProduction() {
		return utils.InternalServerError(c, "Internal server error")
	}
	return utils.InternalServerError(c, err.Error())
}

// ErrorHandler is the fiber app error handler.
func ErrorHandler(logger *log.Logger, cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return RenderError(c, err, logger, cfg)
	}
}

// parseBody decodes the request body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.BadRequest("Cannot parse request body")
	}
	if errs := utils.ValidateStruct(dst); errs != nil {
		return apperr.InvalidFields(errs)
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}
