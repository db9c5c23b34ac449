package controllers

import (
	"log"

	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ModulesController struct {
	base
	Content *services.ContentService
}

func NewModulesController(content *services.ContentService, cfg *config.Config, logger *log.Logger) *ModulesController {
	return &ModulesController{base: base{Logger: logger, Cfg: cfg}, Content: content}
}

// ListByCourse godoc
// @Summary Modules of a course
// @Tags modules
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /modules/course/{courseId} [get]
func (mc *ModulesController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return mc.fail(c, err)
	}
	modules, err := mc.Content.ListModules(c.UserContext(), currentUser(c), courseID)
	if err != nil {
		return mc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"modules": modules})
}

func (mc *ModulesController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return mc.fail(c, err)
	}
	module, err := mc.Content.GetModule(c.UserContext(), currentUser(c), id)
	if err != nil {
		return mc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"module": module})
}

func (mc *ModulesController) Create(c *fiber.Ctx) error {
	var input services.ModuleInput
	if err := parseBody(c, &input); err != nil {
		return mc.fail(c, err)
	}
	module, err := mc.Content.CreateModule(c.UserContext(), currentUser(c), input)
	if err != nil {
		return mc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"module": module})
}

func (mc *ModulesController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return mc.fail(c, err)
	}
	var input services.ModuleUpdate
	if err := parseBody(c, &input); err != nil {
		return mc.fail(c, err)
	}
	module, err := mc.Content.UpdateModule(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return mc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"module": module})
}

func (mc *ModulesController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return mc.fail(c, err)
	}
	if err := mc.Content.DeleteModule(c.UserContext(), currentUser(c), id); err != nil {
		return mc.fail(c, err)
	}
	return utils.Message(c, "Module deleted")
}

func (mc *ModulesController) Reorder(c *fiber.Ctx) error {
	var input services.ReorderInput
	if err := parseBody(c, &input); err != nil {
		return mc.fail(c, err)
	}
	if err := mc.Content.ReorderModules(c.UserContext(), currentUser(c), input.Orders); err != nil {
		return mc.fail(c, err)
	}
	return utils.Message(c, "Order updated")
}
