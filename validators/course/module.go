package courseValidator

import (
	courseController "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		body := new(struct {
			Title         string `json:"title" validate:"required,min=2"`
			Description   string `json:"description"`
			Order         int    `json:"order" validate:"min=0"`
			HasAssessment bool   `json:"has_assessment"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			Order         int    `json:"order"`
			HasAssessment bool   `json:"has_assessment"`
		}{
			Title:         body.Title,
			Description:   body.Description,
			Order:         body.Order,
			HasAssessment: body.HasAssessment,
		}

		c.Locals("courseID", id)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		moduleID, ok := courseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}

		reqData := new(struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			HasAssessment *bool  `json:"has_assessment"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

func ModuleParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		moduleID, ok := courseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}
		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

func ListModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// ReorderModules expects the full list of module positions for a course.
// Per-item uniqueness checks happen in the controller transaction.
func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(struct {
			Modules []courseController.ReorderItem `json:"modules"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Modules) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Modules list cannot be empty!", nil)
		}

		errors := make(map[string]string)
		seenModules := make(map[uint]bool)
		seenOrders := make(map[int]bool)
		for _, item := range reqData.Modules {
			if item.ModuleID == 0 {
				errors["module_id"] = "Module ID is required!"
			}
			if item.Order < 1 {
				errors["order"] = "Order must be greater than 0!"
			}
			if seenModules[item.ModuleID] {
				errors["module_id"] = "Duplicate module in reorder list!"
			}
			if seenOrders[item.Order] {
				errors["order"] = "Duplicate order in reorder list!"
			}
			seenModules[item.ModuleID] = true
			seenOrders[item.Order] = true
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", id)
		c.Locals("validatedModuleReorder", reqData)
		return c.Next()
	}
}
