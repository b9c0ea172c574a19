package controllers

import (
	"encoding/json"
	"errors"
	"math"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAssessment returns the assessment with questions and options for an
// enrolled user. Correct flags are stripped.
func GetAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	var assessment courseModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", assessmentID, false, true).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, assessment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	type QuestionWithOptions struct {
		courseModels.AssessmentQuestion
		Options []courseModels.AssessmentOption `json:"options"`
	}

	var questions []courseModels.AssessmentQuestion
	database.Database.Db.Where("assessment_id = ? AND is_deleted = ?", assessmentID, false).Order("order_index asc").Find(&questions)

	result := make([]QuestionWithOptions, len(questions))
	for i, question := range questions {
		var options []courseModels.AssessmentOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", question.ID, false).Order("order_index asc").Find(&options)
		// Don't show answers to users
		for j := range options {
			options[j].IsCorrect = false
		}
		result[i] = QuestionWithOptions{AssessmentQuestion: question, Options: options}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment fetched successfully!", fiber.Map{
		"assessment": assessment,
		"questions":  result,
	})
}

// SubmitAssessment grades an MCQ submission; a pass flips the module's
// AssessmentPassed flag and runs the completion cascade
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	db := database.Database.Db

	var assessment courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", assessmentID, false, true).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, assessment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedAssessmentSubmit").(*struct {
		Answers []struct {
			QuestionID        uint   `json:"question_id"`
			SelectedOptionIDs []uint `json:"selected_option_ids"`
		} `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var questions []courseModels.AssessmentQuestion
	db.Where("assessment_id = ? AND is_deleted = ?", assessmentID, false).Find(&questions)
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assessment has no questions!", nil)
	}

	selectedByQuestion := make(map[uint][]uint)
	for _, answer := range reqData.Answers {
		selectedByQuestion[answer.QuestionID] = answer.SelectedOptionIDs
	}

	// A question counts as correct when the selected set matches the
	// correct option set exactly
	correctQuestions := 0
	for _, question := range questions {
		var correctOptions []courseModels.AssessmentOption
		db.Where("question_id = ? AND is_correct = ? AND is_deleted = ?", question.ID, true, false).Find(&correctOptions)

		correctIDs := make(map[uint]bool)
		for _, opt := range correctOptions {
			correctIDs[opt.ID] = true
		}

		selected := selectedByQuestion[question.ID]
		if len(selected) != len(correctIDs) || len(correctIDs) == 0 {
			continue
		}
		matched := 0
		for _, id := range selected {
			if correctIDs[id] {
				matched++
			}
		}
		if matched == len(correctIDs) {
			correctQuestions++
		}
	}

	score := int(math.Round(float64(correctQuestions) / float64(len(questions)) * 100))
	status := courseModels.SubmissionFailed
	if score >= assessment.PassingScore {
		status = courseModels.SubmissionPassed
	}

	var attemptCount int64
	db.Model(&courseModels.AssessmentSubmission{}).Where("user_id = ? AND assessment_id = ? AND is_deleted = ?", userID, assessmentID, false).Count(&attemptCount)

	selectedJSON, _ := json.Marshal(selectedByQuestion)

	submission := courseModels.AssessmentSubmission{
		UserID:          userID,
		AssessmentID:    uint(assessmentID),
		SelectedOptions: string(selectedJSON),
		Score:           score,
		Status:          status,
		AttemptNumber:   int(attemptCount) + 1,
	}

	if err := db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
	}

	var cascade *CascadeResult
	if status == courseModels.SubmissionPassed {
		if err := markAssessmentPassed(db, userID, assessment.ModuleID, assessment.CourseID); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record assessment pass!", nil)
		}
		var err error
		cascade, err = runCompletionCascade(db, userID, assessment.ModuleID, assessment.CourseID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted!", fiber.Map{
		"submission": submission,
		"score":      score,
		"passed":     status == courseModels.SubmissionPassed,
		"cascade":    cascade,
	})
}

// markAssessmentPassed upserts the AssessmentPassed flag the completion
// evaluator reads for gated modules
func markAssessmentPassed(db *gorm.DB, userID, moduleID, courseID uint) error {
	var completion courseModels.ModuleCompletion
	err := db.Where("user_id = ? AND module_id = ? AND is_deleted = ?", userID, moduleID, false).First(&completion).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		completion = courseModels.ModuleCompletion{
			UserID:           userID,
			ModuleID:         moduleID,
			CourseID:         courseID,
			AssessmentPassed: true,
		}
		return db.Create(&completion).Error
	}

	if completion.AssessmentPassed {
		return nil
	}
	completion.AssessmentPassed = true
	return db.Save(&completion).Error
}

// AdminCreateAssessment creates an assessment gating a module
func AdminCreateAssessment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedAssessment").(*struct {
		Title        string `json:"title"`
		PassingScore int    `json:"passing_score"`
		IsMandatory  *bool  `json:"is_mandatory"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	assessment := courseModels.Assessment{
		CourseID:     uint(courseID),
		ModuleID:     uint(moduleID),
		Title:        reqData.Title,
		PassingScore: reqData.PassingScore,
		IsMandatory:  true,
	}
	if reqData.IsMandatory != nil {
		assessment.IsMandatory = *reqData.IsMandatory
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&assessment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	if !module.HasAssessment {
		module.HasAssessment = true
		if err := tx.Save(&module).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to flag module assessment!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment created successfully!", assessment)
}

// AdminAddQuestion adds a question with its options to an assessment
func AdminAddQuestion(c *fiber.Ctx) error {
	assessmentID := c.Locals("assessmentID").(int)

	var assessment courseModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Prompt     string `json:"prompt"`
		OrderIndex int    `json:"order_index"`
		Options    []struct {
			OptionText string `json:"option_text"`
			IsCorrect  bool   `json:"is_correct"`
		} `json:"options"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question := courseModels.AssessmentQuestion{
		AssessmentID: uint(assessmentID),
		Prompt:       reqData.Prompt,
		OrderIndex:   reqData.OrderIndex,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	for i, opt := range reqData.Options {
		option := courseModels.AssessmentOption{
			QuestionID: question.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: i,
		}
		if err := tx.Create(&option).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create options!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminPublishAssessment publishes an assessment
func AdminPublishAssessment(c *fiber.Ctx) error {
	assessmentID := c.Locals("assessmentID").(int)

	var assessment courseModels.Assessment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	assessment.IsPublished = true
	if err := database.Database.Db.Save(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment published successfully!", assessment)
}
