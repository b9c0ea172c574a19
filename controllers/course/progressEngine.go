package controllers

import (
	"errors"
	"math"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

const (
	segmentSeconds          = 10 // video runtime bucket size
	maxHeartbeatDelta       = 15 // seconds, larger deltas are treated as forged
	minHeartbeatInterval    = 3 * time.Second
	lessonCompleteThreshold = 90.0
	certificateThreshold    = 90.0
)

var (
	errLessonNotVideo   = errors.New("heartbeats are only valid for video lessons")
	errInvalidDelta     = errors.New("watched delta out of range")
	errHeartbeatTooSoon = errors.New("heartbeat received too soon after the previous one")
)

// ProgressSummary is the aggregate result returned after every recalculation
type ProgressSummary struct {
	ProgressPercentage float64                   `json:"progress_percentage"`
	CompletedLessons   int                       `json:"completed_lessons"`
	TotalLessons       int                       `json:"total_lessons"`
	IsCourseCompleted  bool                      `json:"is_course_completed"`
	Certificate        *courseModels.Certificate `json:"certificate,omitempty"`
}

// CascadeResult carries the outcome of the completion cascade that runs
// after a lesson or assessment event
type CascadeResult struct {
	ModuleCompleted bool             `json:"module_completed"`
	Summary         *ProgressSummary `json:"summary"`
}

func segmentIndex(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds / segmentSeconds
}

func totalSegments(totalDuration int) int {
	if totalDuration <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalDuration) / float64(segmentSeconds)))
}

// getOrCreateLessonProgress lazily creates the per-user progress row on
// first contact with a lesson
func getOrCreateLessonProgress(db *gorm.DB, userID uint, lesson *courseModels.Lesson) (*courseModels.LessonProgress, error) {
	var progress courseModels.LessonProgress
	err := db.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lesson.ID, false).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = courseModels.LessonProgress{
		UserID:         userID,
		LessonID:       lesson.ID,
		CourseID:       lesson.CourseID,
		ModuleID:       lesson.ModuleID,
		TotalDuration:  lesson.VideoDuration,
		ViewedSegments: "[]",
	}
	if err := db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// applyVideoHeartbeat validates and applies a single player heartbeat. It
// returns the updated progress row and, when the heartbeat pushed the lesson
// over the completion threshold, the result of the completion cascade.
func applyVideoHeartbeat(db *gorm.DB, userID uint, lesson *courseModels.Lesson, watchedDelta, currentTime int) (*courseModels.LessonProgress, *CascadeResult, error) {
	if lesson.Type != courseModels.LessonTypeVideo {
		return nil, nil, errLessonNotVideo
	}
	if watchedDelta < 0 || watchedDelta > maxHeartbeatDelta {
		return nil, nil, errInvalidDelta
	}

	progress, err := getOrCreateLessonProgress(db, userID, lesson)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if progress.LastHeartbeatAt != nil && now.Sub(*progress.LastHeartbeatAt) < minHeartbeatInterval {
		return nil, nil, errHeartbeatTooSoon
	}

	progress.WatchedDuration += watchedDelta
	progress.LastWatchedTime = currentTime
	progress.LastHeartbeatAt = &now

	// Record the segment for the current position and for the position at
	// the start of the delta, so a heartbeat straddling a 10s boundary
	// credits both buckets. The set union keeps rewatches idempotent.
	segments := progress.Segments()
	segments[segmentIndex(currentTime)] = true
	segments[segmentIndex(currentTime-watchedDelta)] = true
	progress.SetSegments(segments)

	wasCompleted := progress.IsCompleted
	if total := totalSegments(progress.TotalDuration); total > 0 {
		pct := float64(len(segments)) / float64(total) * 100
		progress.CompletionPercentage = math.Min(100, pct)
	}
	if progress.CompletionPercentage >= lessonCompleteThreshold {
		progress.IsCompleted = true
	}

	if err := db.Save(progress).Error; err != nil {
		return nil, nil, err
	}

	var cascade *CascadeResult
	if progress.IsCompleted && !wasCompleted {
		if cascade, err = runCompletionCascade(db, userID, lesson.ModuleID, lesson.CourseID); err != nil {
			return nil, nil, err
		}
	}
	return progress, cascade, nil
}

// markLessonCompleted forces a lesson to the completed state. Valid for any
// lesson type and idempotent: repeating it changes nothing and still runs
// the cascade so downstream state can self-heal.
func markLessonCompleted(db *gorm.DB, userID uint, lesson *courseModels.Lesson) (*courseModels.LessonProgress, *CascadeResult, error) {
	progress, err := getOrCreateLessonProgress(db, userID, lesson)
	if err != nil {
		return nil, nil, err
	}

	progress.IsCompleted = true
	progress.CompletionPercentage = 100
	if err := db.Save(progress).Error; err != nil {
		return nil, nil, err
	}

	cascade, err := runCompletionCascade(db, userID, lesson.ModuleID, lesson.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return progress, cascade, nil
}

// runCompletionCascade is the single pipeline invoked after every lesson or
// assessment event: module evaluation, enrollment recalculation, then the
// certificate check inside the recalculation.
func runCompletionCascade(db *gorm.DB, userID, moduleID, courseID uint) (*CascadeResult, error) {
	moduleDone, err := checkModuleCompletion(db, userID, moduleID, courseID)
	if err != nil {
		return nil, err
	}

	summary, err := recalculateCourseProgress(db, userID, courseID)
	if err != nil {
		return nil, err
	}

	return &CascadeResult{ModuleCompleted: moduleDone, Summary: summary}, nil
}

// checkModuleCompletion decides whether a module is fully consumed. It is
// idempotent and writes nothing on the not-yet-satisfied path, so it is safe
// to call after every event.
func checkModuleCompletion(db *gorm.DB, userID, moduleID, courseID uint) (bool, error) {
	var totalLessons int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("module_id = ? AND is_deleted = ? AND is_published = ?", moduleID, false, true).
		Count(&totalLessons).Error; err != nil {
		return false, err
	}

	var completedLessons int64
	if err := db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.module_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?", userID, moduleID, true, false).
		Where("lessons.is_published = ? AND lessons.is_deleted = ?", true, false).
		Count(&completedLessons).Error; err != nil {
		return false, err
	}

	if completedLessons != totalLessons {
		return false, nil
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		return false, err
	}

	var completion courseModels.ModuleCompletion
	err := db.Where("user_id = ? AND module_id = ? AND is_deleted = ?", userID, moduleID, false).First(&completion).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	exists := err == nil

	// Assessment-gated modules stay incomplete until the submission flow
	// has flipped AssessmentPassed.
	if module.HasAssessment && !completion.AssessmentPassed {
		return false, nil
	}

	if completion.IsCompleted {
		return true, nil
	}

	now := time.Now()
	completion.UserID = userID
	completion.ModuleID = moduleID
	completion.CourseID = courseID
	completion.IsCompleted = true
	completion.CompletedAt = &now

	if exists {
		err = db.Save(&completion).Error
	} else {
		err = db.Create(&completion).Error
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// recalculateCourseProgress recomputes the enrollment percentage from lesson
// completion counts. It is the single place where course completion is
// decided, and it always ends with a certificate eligibility check.
func recalculateCourseProgress(db *gorm.DB, userID, courseID uint) (*ProgressSummary, error) {
	var totalLessons int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&totalLessons).Error; err != nil {
		return nil, err
	}

	var completedLessons int64
	if err := db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.course_id = ? AND lesson_progresses.is_completed = ? AND lesson_progresses.is_deleted = ?", userID, courseID, true, false).
		Where("lessons.is_published = ? AND lessons.is_deleted = ?", true, false).
		Count(&completedLessons).Error; err != nil {
		return nil, err
	}

	percentage := float64(0)
	if totalLessons > 0 {
		percentage = math.Round(float64(completedLessons) / float64(totalLessons) * 100)
	}

	summary := &ProgressSummary{
		ProgressPercentage: percentage,
		CompletedLessons:   int(completedLessons),
		TotalLessons:       int(totalLessons),
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, nil
		}
		return nil, err
	}

	enrollment.ProgressPercentage = percentage
	enrollment.CompletedLessons = int(completedLessons)
	enrollment.TotalLessons = int(totalLessons)

	if percentage >= 100 && totalLessons > 0 && enrollment.Status != courseModels.EnrollmentCompleted {
		now := time.Now()
		enrollment.Status = courseModels.EnrollmentCompleted
		enrollment.CompletedAt = &now
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, err
	}

	summary.IsCourseCompleted = enrollment.Status == courseModels.EnrollmentCompleted
	summary.Certificate = TryIssueCertificate(db, userID, courseID)

	return summary, nil
}
