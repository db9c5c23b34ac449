package controllers

import (
	"log"

	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// PublicController serves the anonymous course browser.
type PublicController struct {
	base
	Public *services.PublicService
	Render *services.LessonRenderer
}

func NewPublicController(public *services.PublicService, render *services.LessonRenderer, cfg *config.Config, logger *log.Logger) *PublicController {
	return &PublicController{base: base{Logger: logger, Cfg: cfg}, Public: public, Render: render}
}

// Courses godoc
// @Summary Visible courses
// @Tags public
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /public/courses [get]
func (pc *PublicController) Courses(c *fiber.Ctx) error {
	courses, err := pc.Public.Courses(c.UserContext())
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"courses": courses})
}

func (pc *PublicController) Course(c *fiber.Ctx) error {
	course, err := pc.Public.Course(c.UserContext(), c.Params("slug"))
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"course": course})
}

func (pc *PublicController) Module(c *fiber.Ctx) error {
	page, err := pc.Public.Module(c.UserContext(), c.Params("slug"), c.Params("moduleSlug"))
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, page)
}

func (pc *PublicController) Topic(c *fiber.Ctx) error {
	page, err := pc.Public.Topic(c.UserContext(), c.Params("slug"), c.Params("moduleSlug"), c.Params("topicSlug"))
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, page)
}

// Lesson godoc
// @Summary Visible lesson with rendered content
// @Description content_html is rendered for display with hydrated live previews
// @Tags public
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /public/courses/{slug}/modules/{moduleSlug}/topics/{topicSlug}/lessons/{lessonSlug} [get]
func (pc *PublicController) Lesson(c *fiber.Ctx) error {
	page, err := pc.Public.Lesson(c.UserContext(),
		c.Params("slug"), c.Params("moduleSlug"), c.Params("topicSlug"), c.Params("lessonSlug"))
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, page)
}

func (pc *PublicController) Groups(c *fiber.Ctx) error {
	groups, err := pc.Public.Groups(c.UserContext())
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"groups": groups})
}

func (pc *PublicController) Years(c *fiber.Ctx) error {
	years, err := pc.Public.Years(c.UserContext())
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"years": years})
}

// Search godoc
// @Summary Search visible courses
// @Tags public
// @Produce json
// @Param q query string false "Text in title or description"
// @Param group query string false "Program group slug"
// @Param year query string false "Academic year"
// @Success 200 {object} utils.SuccessResponse
// @Router /public/search [get]
func (pc *PublicController) Search(c *fiber.Ctx) error {
	courses, err := pc.Public.Search(c.UserContext(), services.SearchQuery{
		Text:  c.Query("q"),
		Group: c.Query("group"),
		Year:  c.Query("year"),
	})
	if err != nil {
		return pc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"courses": courses})
}

// HighlightCSS serves the stylesheet for highlighted code blocks.
func (pc *PublicController) HighlightCSS(c *fiber.Ctx) error {
	css, err := pc.Render.Markdown.HighlightCSS()
	if err != nil {
		return pc.fail(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	c.Type("css", "utf-8")
	return c.SendString(css)
}
