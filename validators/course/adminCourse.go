package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			Title       string `json:"title" validate:"required,min=2"`
			Description string `json:"description"`
			Author      string `json:"author" validate:"required"`
			Duration    int64  `json:"duration" validate:"min=0"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Author      string `json:"author"`
			Duration    int64  `json:"duration"`
		}{
			Title:       body.Title,
			Description: body.Description,
			Author:      body.Author,
			Duration:    body.Duration,
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Author      string `json:"author"`
			Duration    *int64 `json:"duration"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Duration != nil && *reqData.Duration < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"duration": "Duration cannot be negative!",
			})
		}

		c.Locals("courseID", id)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}
