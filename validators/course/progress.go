package courseValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func progressFieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors[fieldError.Field()] = "Failed validation: " + fieldError.Tag()
		}
	}
	return errors
}

func InitProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			CourseID uint `json:"course_id" validate:"required,min=1"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			CourseID uint `json:"course_id"`
		}{CourseID: body.CourseID}

		c.Locals("validatedInitProgress", reqData)
		return c.Next()
	}
}

// UpdateProgress validates the heartbeat envelope. Delta range and throttle
// checks stay in the progress engine where the business rules live.
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			LessonID     uint `json:"lesson_id" validate:"required,min=1"`
			WatchedDelta int  `json:"watched_delta"`
			CurrentTime  int  `json:"current_time" validate:"min=0"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			LessonID     uint `json:"lesson_id"`
			WatchedDelta int  `json:"watched_delta"`
			CurrentTime  int  `json:"current_time"`
		}{
			LessonID:     body.LessonID,
			WatchedDelta: body.WatchedDelta,
			CurrentTime:  body.CurrentTime,
		}

		c.Locals("validatedProgressUpdate", reqData)
		return c.Next()
	}
}

func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			LessonID uint `json:"lesson_id" validate:"required,min=1"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			LessonID uint `json:"lesson_id"`
		}{LessonID: body.LessonID}

		c.Locals("validatedLessonComplete", reqData)
		return c.Next()
	}
}

func ResetProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(struct {
			CourseID uint `json:"course_id" validate:"required,min=1"`
			UserID   uint `json:"user_id" validate:"required,min=1"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			CourseID uint `json:"course_id"`
			UserID   uint `json:"user_id"`
		}{CourseID: body.CourseID, UserID: body.UserID}

		c.Locals("validatedProgressReset", reqData)
		return c.Next()
	}
}
