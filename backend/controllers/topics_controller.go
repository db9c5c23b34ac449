package controllers

import (
	"log"

	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TopicsController struct {
	base
	Content *services.ContentService
}

func NewTopicsController(content *services.ContentService, cfg *config.Config, logger *log.Logger) *TopicsController {
	return &TopicsController{base: base{Logger: logger, Cfg: cfg}, Content: content}
}

func (tc *TopicsController) ListByModule(c *fiber.Ctx) error {
	moduleID, err := paramID(c, "moduleId")
	if err != nil {
		return tc.fail(c, err)
	}
	topics, err := tc.Content.ListTopics(c.UserContext(), currentUser(c), moduleID)
	if err != nil {
		return tc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"topics": topics})
}

func (tc *TopicsController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return tc.fail(c, err)
	}
	topic, err := tc.Content.GetTopic(c.UserContext(), currentUser(c), id)
	if err != nil {
		return tc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"topic": topic})
}

func (tc *TopicsController) Create(c *fiber.Ctx) error {
	var input services.TopicInput
	if err := parseBody(c, &input); err != nil {
		return tc.fail(c, err)
	}
	topic, err := tc.Content.CreateTopic(c.UserContext(), currentUser(c), input)
	if err != nil {
		return tc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"topic": topic})
}

func (tc *TopicsController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return tc.fail(c, err)
	}
	var input services.TopicUpdate
	if err := parseBody(c, &input); err != nil {
		return tc.fail(c, err)
	}
	topic, err := tc.Content.UpdateTopic(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return tc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"topic": topic})
}

func (tc *TopicsController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return tc.fail(c, err)
	}
	if err := tc.Content.DeleteTopic(c.UserContext(), currentUser(c), id); err != nil {
		return tc.fail(c, err)
	}
	return utils.Message(c, "Topic deleted")
}

func (tc *TopicsController) Reorder(c *fiber.Ctx) error {
	var input services.ReorderInput
	if err := parseBody(c, &input); err != nil {
		return tc.fail(c, err)
	}
	if err := tc.Content.ReorderTopics(c.UserContext(), currentUser(c), input.Orders); err != nil {
		return tc.fail(c, err)
	}
	return utils.Message(c, "Order updated")
}
