package courseValidator

import (
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		moduleID, ok := courseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
		}

		body := new(struct {
			Title         string `json:"title" validate:"required,min=2"`
			Description   string `json:"description"`
			Type          string `json:"type" validate:"required,oneof=VIDEO ARTICLE"`
			ArticleBody   string `json:"article_body"`
			VideoURL      string `json:"video_url"`
			VideoDuration int    `json:"video_duration" validate:"min=0"`
			OrderIndex    int    `json:"order_index" validate:"min=0"`
			IsPreview     bool   `json:"is_preview"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		errors := make(map[string]string)
		if body.Type == courseModels.LessonTypeVideo {
			if body.VideoURL == "" {
				errors["video_url"] = "Video URL is required for video lessons!"
			}
			if body.VideoDuration <= 0 {
				errors["video_duration"] = "Video duration is required for video lessons!"
			}
		}
		if body.Type == courseModels.LessonTypeArticle && body.ArticleBody == "" {
			errors["article_body"] = "Article body is required for article lessons!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData := &struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			Type          string `json:"type"`
			ArticleBody   string `json:"article_body"`
			VideoURL      string `json:"video_url"`
			VideoDuration int    `json:"video_duration"`
			OrderIndex    int    `json:"order_index"`
			IsPreview     bool   `json:"is_preview"`
		}{
			Title:         body.Title,
			Description:   body.Description,
			Type:          body.Type,
			ArticleBody:   body.ArticleBody,
			VideoURL:      body.VideoURL,
			VideoDuration: body.VideoDuration,
			OrderIndex:    body.OrderIndex,
			IsPreview:     body.IsPreview,
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := courseIDParam(c, "lessonId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(struct {
			Title         string `json:"title"`
			Description   string `json:"description"`
			ArticleBody   string `json:"article_body"`
			VideoURL      string `json:"video_url"`
			VideoDuration *int   `json:"video_duration"`
			OrderIndex    *int   `json:"order_index"`
			IsPreview     *bool  `json:"is_preview"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.VideoDuration != nil && *reqData.VideoDuration < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"video_duration": "Video duration cannot be negative!",
			})
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonUpdate", reqData)
		return c.Next()
	}
}

func LessonParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := courseIDParam(c, "lessonId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}
