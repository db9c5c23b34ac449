package controllers

import (
	"log"
	"strings"

	"courseplatform/backend/apperr"
	"courseplatform/backend/config"
	"courseplatform/backend/services"
	"courseplatform/backend/storage"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ResourcesController struct {
	base
	Content *services.ContentService
	Store   *storage.Store
}

func NewResourcesController(content *services.ContentService, store *storage.Store, cfg *config.Config, logger *log.Logger) *ResourcesController {
	return &ResourcesController{base: base{Logger: logger, Cfg: cfg}, Content: content, Store: store}
}

func (rc *ResourcesController) ListByLesson(c *fiber.Ctx) error {
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return rc.fail(c, err)
	}
	resources, err := rc.Content.ListResources(c.UserContext(), currentUser(c), lessonID)
	if err != nil {
		return rc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"resources": resources})
}

// Create godoc
// @Summary Attach a resource to a lesson
// @Description Accepts JSON or multipart/form-data with an optional file part
// @Tags resources
// @Accept json
// @Accept mpfd
// @Produce json
// @Param file formData file false "Uploaded file"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /resources [post]
func (rc *ResourcesController) Create(c *fiber.Ctx) error {
	var input services.ResourceInput
	if err := parseBody(c, &input); err != nil {
		return rc.fail(c, err)
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return rc.fail(c, apperr.BadRequest("Invalid multipart form"))
		}
		if files := form.File["file"]; len(files) > 0 {
			if err := rc.Content.AuthorizeUpload(c.UserContext(), currentUser(c), input.LessonID); err != nil {
				return rc.fail(c, err)
			}
			saved, err := rc.Store.Save(files[0])
			if err != nil {
				return rc.fail(c, err)
			}
			input.FilePath = saved.Path
		}
	}

	resource, err := rc.Content.CreateResource(c.UserContext(), currentUser(c), input)
	if err != nil {
		if input.FilePath != "" {
			if rmErr := rc.Store.Remove(input.FilePath); rmErr != nil {
				rc.Logger.Printf("upload %s: %v", input.FilePath, rmErr)
			}
		}
		return rc.fail(c, err)
	}
	return utils.Created(c, fiber.Map{"resource": resource})
}

func (rc *ResourcesController) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return rc.fail(c, err)
	}
	var input services.ResourceUpdate
	if err := parseBody(c, &input); err != nil {
		return rc.fail(c, err)
	}
	resource, err := rc.Content.UpdateResource(c.UserContext(), currentUser(c), id, input)
	if err != nil {
		return rc.fail(c, err)
	}
	return utils.OK(c, fiber.Map{"resource": resource})
}

// Delete также удаляет загруженный файл ресурса
func (rc *ResourcesController) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return rc.fail(c, err)
	}
	resource, err := rc.Content.DeleteResource(c.UserContext(), currentUser(c), id)
	if err != nil {
		return rc.fail(c, err)
	}
	if resource.FilePath != nil {
		if err := rc.Store.Remove(*resource.FilePath); err != nil {
			rc.Logger.Printf("resource %d: %v", resource.ID, err)
		}
	}
	return utils.Message(c, "Resource deleted")
}

func (rc *ResourcesController) Reorder(c *fiber.Ctx) error {
	var input services.ReorderInput
	if err := parseBody(c, &input); err != nil {
		return rc.fail(c, err)
	}
	if err := rc.Content.ReorderResources(c.UserContext(), currentUser(c), input.Orders); err != nil {
		return rc.fail(c, err)
	}
	return utils.Message(c, "Order updated")
}
