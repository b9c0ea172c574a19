package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func AssessmentParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "assessmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment ID!", nil)
		}
		c.Locals("assessmentID", id)
		return c.Next()
	}
}

func SubmitAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "assessmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment ID!", nil)
		}

		reqData := new(struct {
			Answers []struct {
				QuestionID        uint   `json:"question_id"`
				SelectedOptionIDs []uint `json:"selected_option_ids"`
			} `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answers cannot be empty!", nil)
		}
		for _, answer := range reqData.Answers {
			if answer.QuestionID == 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"question_id": "Question ID is required!",
				})
			}
		}

		c.Locals("assessmentID", id)
		c.Locals("validatedAssessmentSubmit", reqData)
		return c.Next()
	}
}

func CreateAssessment() fiber.Handler {
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
			Title        string `json:"title" validate:"required,min=2"`
			PassingScore int    `json:"passing_score" validate:"min=0,max=100"`
			IsMandatory  *bool  `json:"is_mandatory"`
		})
		if err := c.BodyParser(body); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(body); err != nil {
			return middleware.ValidationErrorResponse(c, progressFieldErrors(err))
		}

		reqData := &struct {
			Title        string `json:"title"`
			PassingScore int    `json:"passing_score"`
			IsMandatory  *bool  `json:"is_mandatory"`
		}{
			Title:        body.Title,
			PassingScore: body.PassingScore,
			IsMandatory:  body.IsMandatory,
		}
		if reqData.PassingScore == 0 {
			reqData.PassingScore = 70
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := courseIDParam(c, "assessmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment ID!", nil)
		}

		reqData := new(struct {
			Prompt     string `json:"prompt"`
			OrderIndex int    `json:"order_index"`
			Options    []struct {
				OptionText string `json:"option_text"`
				IsCorrect  bool   `json:"is_correct"`
			} `json:"options"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Prompt == "" {
			errors["prompt"] = "Prompt is required!"
		}
		if len(reqData.Options) < 2 {
			errors["options"] = "At least two options are required!"
		}
		hasCorrect := false
		for _, opt := range reqData.Options {
			if opt.OptionText == "" {
				errors["option_text"] = "Option text cannot be empty!"
			}
			if opt.IsCorrect {
				hasCorrect = true
			}
		}
		if len(reqData.Options) >= 2 && !hasCorrect {
			errors["options"] = "At least one option must be correct!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("assessmentID", id)
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
