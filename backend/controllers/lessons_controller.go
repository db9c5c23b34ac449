package controllers

import (
	"log"

	"courseplatform/backend/config"
	"courseplatform/backend/markdown"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type LessonsController struct {
	base
	Content *services.ContentService
	Render  *services.LessonRenderer
}

func NewLessonsController(content *services.ContentService, render *services.LessonRenderer, cfg *config.Config, logger *log.Logger) *LessonsController {
	return &LessonsController{base: base{Logger: logger, Cfg: cfg}, Content: content, Render: render}
}

type PreviewRequest struct {
	ContentMD string `json:"content_md"`
}

func (lc *LessonsController) ListByTopic(c *fiber.Ctx) error {
	topicID, err := paramID(c, "topicId")
	if err != nil {
		return lc.fail(c, err)
	}
	lessons, err := lc.Content.ListLessons(c.UserContext(), currentUser(c), topicID)
	if err != nil {
		return lc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"lessons": lessons})
}

// Get godoc
// @Summary Lesson with resources
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (lc *LessonsController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return lc.fail(c, err)
	}
	lesson, err := lc.Content.GetLesson(c.UserContext(), currentUser(c), id)
	if err != nil {
		return lc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"lesson": lesson})
}

func (lc *LessonsController) Create(c *fiber.Ctx) error {
	var input services.LessonInput
	if err := parseBody(c, &input); err != nil {
		return lc.fail(c, err)
	}
	lesson, err := lc.Content.CreateLesson(c.UserContext(), currentUser(c), input)
	if err != nil {
		return lc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"lesson": lesson})
}

func (lc *LessonsController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return lc.fail(c, err)
	}
	var input services.LessonUpdate
	if err := parseBody(c, &input); err != nil {
		return lc.fail(c, err)
	}
	lesson, err := lc.Content.UpdateLesson(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return lc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"lesson": lesson})
}

func (lc *LessonsController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return lc.fail(c, err)
	}
	if err := lc.Content.DeleteLesson(c.UserContext(), currentUser(c), id); err != nil {
		return lc.fail(c, err)
	}
	return utils.Message(c, "Lesson deleted")
}

func (lc *LessonsController) Reorder(c *fiber.Ctx) error {
	var input services.ReorderInput
	if err := parseBody(c, &input); err != nil {
		return lc.fail(c, err)
	}
	if err := lc.Content.ReorderLessons(c.UserContext(), currentUser(c), input.Orders); err != nil {
		return lc.fail(c, err)
	}
	return utils.Message(c, "Order updated")
}

// Preview renders editor markdown without run buttons.
func (lc *LessonsController) Preview(c *fiber.Ctx) error {
	var input PreviewRequest
	if err := parseBody(c, &input); err != nil {
		return lc.fail(c, err)
	}
	html, err := lc.Render.HTML(input.ContentMD, markdown.ModeEdit)
	if err != nil {
		return lc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"html": html})
}
