package controllers

import (
	"log"

	"courseplatform/backend/apperr"
	"courseplatform/backend/config"
	"courseplatform/backend/importer"
	"courseplatform/backend/services"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	base
	Content  *services.ContentService
	Importer *importer.Importer
}

func NewCoursesController(content *services.ContentService, im *importer.Importer, cfg *config.Config, logger *log.Logger) *CoursesController {
	return &CoursesController{base: base{Logger: logger, Cfg: cfg}, Content: content, Importer: im}
}

// List godoc
// @Summary Courses of the current user
// @Description super_admin sees every course, everyone else the courses they staff
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) List(c *fiber.Ctx) error {
	courses, err := cc.Content.ListCourses(c.UserContext(), currentUser(c))
	if err != nil {
		return cc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"courses": courses})
}

// Stats returns dashboard counters over the caller's courses.
func (cc *CoursesController) Stats(c *fiber.Ctx) error {
	stats, err := cc.Content.Stats(c.UserContext(), currentUser(c))
	if err != nil {
		return cc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"stats": stats})
}

// Get godoc
// @Summary Course details
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{courseId} [get]
func (cc *CoursesController) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	course, err := cc.Content.GetCourse(c.UserContext(), currentUser(c), id)
	if err != nil {
		return cc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"course": course})
}

// Create godoc
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param input body services.CourseInput true "Course data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) Create(c *fiber.Ctx) error {
	var input services.CourseInput
	if err := parseBody(c, &input); err != nil {
		return cc.fail(c, err)
	}
	course, err := cc.Content.CreateCourse(c.UserContext(), currentUser(c), input)
	if err != nil {
		return cc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"course": course})
}

func (cc *CoursesController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	var input services.CourseUpdate
	if err := parseBody(c, &input); err != nil {
		return cc.fail(c, err)
	}
	course, err := cc.Content.UpdateCourse(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return cc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"course": course})
}

func (cc *CoursesController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	if err := cc.Content.DeleteCourse(c.UserContext(), currentUser(c), id); err != nil {
		return cc.fail(c, err)
	}
	return utils.Message(c, "Course deleted")
}

// AddStaff answers 201 for a new assignment and 200 for a role change.
func (cc *CoursesController) AddStaff(c *fiber.Ctx) error {
	id, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	var input services.StaffInput
	if err := parseBody(c, &input); err != nil {
		return cc.fail(c, err)
	}
	staff, created, err := cc.Content.AddStaff(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return cc.fail(c, err)
	}
	if created {
		return utils.Created(c, fiber.Map{"staff": staff})
	}
	return utils.OK(c, fiber.Map{"staff": staff})
}

func (cc *CoursesController) RemoveStaff(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return cc.fail(c, err)
	}
	if err := cc.Content.RemoveStaff(c.UserContext(), currentUser(c), courseID, userID); err != nil {
		return cc.fail(c, err)
	}
	return utils.Message(c, "Staff member removed")
}

func (cc *CoursesController) Reorder(c *fiber.Ctx) error {
	var input services.ReorderInput
	if err := parseBody(c, &input); err != nil {
		return cc.fail(c, err)
	}
	if err := cc.Content.ReorderCourses(c.UserContext(), currentUser(c), input.Orders); err != nil {
		return cc.fail(c, err)
	}
	return utils.Message(c, "Order updated")
}

// Import godoc
// @Summary Bulk import modules, topics and lessons
// @Description All rows are written in one transaction
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param input body importer.Payload true "Module tree"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{courseId}/import [post]
func (cc *CoursesController) Import(c *fiber.Ctx) error {
	id, err := paramID(c, "courseId")
	if err != nil {
		return cc.fail(c, err)
	}
	var payload importer.Payload
	if err := c.BodyParser(&payload); err != nil {
		return cc.fail(c, apperr.BadRequest("Cannot parse request body"))
	}
	counts, err := cc.Importer.Import(c.UserContext(), currentUser(c), id, &payload)
	if err != nil {
		return cc.fail(c, err)
	}
	return c.JSON(utils.SuccessResponse{
		Success: true,
		Message: "Import completed",
		Data:    fiber.Map{"counts": counts},
	})
}
