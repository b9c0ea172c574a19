package controllers

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InitCourseProgress creates missing progress rows for every published
// lesson of a course so the player UI has a row to update from the start
func InitCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedInitProgress").(*struct {
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	progressRows := make([]courseModels.LessonProgress, 0, len(lessons))
	for i := range lessons {
		progress, err := getOrCreateLessonProgress(db, userID, &lessons[i])
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize progress!", nil)
		}
		progressRows = append(progressRows, *progress)
	}

	// Module completion map for the course outline UI
	var completions []courseModels.ModuleCompletion
	db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).Find(&completions)

	moduleCompletionMap := make(map[uint]bool)
	for _, completion := range completions {
		moduleCompletionMap[completion.ModuleID] = completion.IsCompleted
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress initialized successfully!", fiber.Map{
		"progress":          progressRows,
		"module_completion": moduleCompletionMap,
	})
}

// UpdateVideoProgress is the video player heartbeat endpoint
func UpdateVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedProgressUpdate").(*struct {
		LessonID     uint `json:"lesson_id"`
		WatchedDelta int  `json:"watched_delta"`
		CurrentTime  int  `json:"current_time"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.LessonID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, lesson.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	progress, cascade, err := applyVideoHeartbeat(db, userID, &lesson, reqData.WatchedDelta, reqData.CurrentTime)
	if err != nil {
		switch {
		case errors.Is(err, errLessonNotVideo), errors.Is(err, errInvalidDelta):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		case errors.Is(err, errHeartbeatTooSoon):
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Heartbeat throttled, try again later.", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress": progress,
		"cascade":  cascade,
	})
}

// MarkLessonComplete force-completes a lesson of any type
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedLessonComplete").(*struct {
		LessonID uint `json:"lesson_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.LessonID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, lesson.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	progress, cascade, err := markLessonCompleted(db, userID, &lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", fiber.Map{
		"progress": progress,
		"cascade":  cascade,
	})
}

// GetVideoProgress returns the resume point for a lesson. Never fails: a
// missing record yields zero-valued defaults.
func GetVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID, err := c.ParamsInt("lessonId")
	if err != nil || lessonID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
	}

	var progress courseModels.LessonProgress
	if err := database.Database.Db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress recorded yet.", fiber.Map{
			"last_watched_time":     0,
			"is_completed":          false,
			"completion_percentage": 0,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"last_watched_time":     progress.LastWatchedTime,
		"is_completed":          progress.IsCompleted,
		"completion_percentage": progress.CompletionPercentage,
	})
}

// GetCourseProgress returns the aggregate course percentage and counts
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var cert courseModels.Certificate
	var certificate *courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, courseID, courseModels.CertificateActive, false).First(&cert).Error; err == nil {
		certificate = &cert
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress_percentage": enrollment.ProgressPercentage,
		"completed_lessons":   enrollment.CompletedLessons,
		"total_lessons":       enrollment.TotalLessons,
		"is_course_completed": enrollment.Status == courseModels.EnrollmentCompleted,
		"certificate":         certificate,
	})
}

// ResetCourseProgress wipes a user's progress for a course and reopens the
// enrollment. Admin only.
func ResetCourseProgress(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProgressReset").(*struct {
		CourseID uint `json:"course_id"`
		UserID   uint `json:"user_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", reqData.UserID, reqData.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Hard delete: the unique (user, lesson) index still holds
		// soft-deleted rows, which would collide on re-init.
		if err := tx.Unscoped().Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).Delete(&courseModels.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ? AND course_id = ?", reqData.UserID, reqData.CourseID).Delete(&courseModels.ModuleCompletion{}).Error; err != nil {
			return err
		}

		enrollment.Status = courseModels.EnrollmentActive
		enrollment.ProgressPercentage = 0
		enrollment.CompletedLessons = 0
		enrollment.CompletedAt = nil
		return tx.Save(&enrollment).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress reset successfully!", fiber.Map{
		"enrollment": enrollment,
	})
}
