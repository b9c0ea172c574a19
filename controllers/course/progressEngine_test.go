package controllers

import (
	"fmt"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
	return db
}

// seedCourse creates a user enrolled in a published course with one module
// holding lessonCount published video lessons
func seedCourse(t *testing.T, db *gorm.DB, lessonCount, videoDuration int) (models.User, courseModels.Course, courseModels.Module, []courseModels.Lesson) {
	t.Helper()

	user := models.User{Name: "Asha Verma", Email: fmt.Sprintf("%s@example.com", t.Name()), Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Go Fundamentals", Author: "Asha Verma", Status: "PUBLISHED", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "Basics", Order: 1}
	require.NoError(t, db.Create(&module).Error)

	lessons := make([]courseModels.Lesson, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lessons[i] = courseModels.Lesson{
			CourseID:      course.ID,
			ModuleID:      module.ID,
			Title:         fmt.Sprintf("Lesson %d", i+1),
			Type:          courseModels.LessonTypeVideo,
			VideoDuration: videoDuration,
			OrderIndex:    i + 1,
			IsPublished:   true,
		}
		require.NoError(t, db.Create(&lessons[i]).Error)
	}

	enrollment := courseModels.Enrollment{
		UserID:       user.ID,
		CourseID:     course.ID,
		Status:       courseModels.EnrollmentActive,
		TotalLessons: lessonCount,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, course, module, lessons
}

// clearThrottle backdates the last heartbeat so the next one is accepted
func clearThrottle(t *testing.T, db *gorm.DB, userID, lessonID uint) {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Update("last_heartbeat_at", past).Error)
}

func TestSegmentAccounting(t *testing.T) {
	db := setupTestDB(t)
	user, _, _, lessons := seedCourse(t, db, 2, 100)
	lesson := lessons[0]

	progress, cascade, err := applyVideoHeartbeat(db, user.ID, &lesson, 5, 5)
	require.NoError(t, err)
	assert.Nil(t, cascade)
	assert.InDelta(t, 10, progress.CompletionPercentage, 0.01)
	assert.Equal(t, 5, progress.WatchedDuration)
	assert.Equal(t, 5, progress.LastWatchedTime)

	// Rewatching the same span never inflates the percentage
	clearThrottle(t, db, user.ID, lesson.ID)
	progress, _, err = applyVideoHeartbeat(db, user.ID, &lesson, 5, 5)
	require.NoError(t, err)
	assert.InDelta(t, 10, progress.CompletionPercentage, 0.01)
	assert.Equal(t, 10, progress.WatchedDuration)

	// A heartbeat straddling a segment boundary credits both buckets
	clearThrottle(t, db, user.ID, lesson.ID)
	progress, _, err = applyVideoHeartbeat(db, user.ID, &lesson, 10, 15)
	require.NoError(t, err)
	assert.InDelta(t, 20, progress.CompletionPercentage, 0.01)
}

func TestHeartbeatValidation(t *testing.T) {
	db := setupTestDB(t)
	user, course, module, lessons := seedCourse(t, db, 1, 100)
	lesson := lessons[0]

	article := courseModels.Lesson{
		CourseID:    course.ID,
		ModuleID:    module.ID,
		Title:       "Reading",
		Type:        courseModels.LessonTypeArticle,
		ArticleBody: "text",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&article).Error)

	_, _, err := applyVideoHeartbeat(db, user.ID, &article, 5, 5)
	assert.ErrorIs(t, err, errLessonNotVideo)

	_, _, err = applyVideoHeartbeat(db, user.ID, &lesson, 16, 20)
	assert.ErrorIs(t, err, errInvalidDelta)

	_, _, err = applyVideoHeartbeat(db, user.ID, &lesson, -1, 20)
	assert.ErrorIs(t, err, errInvalidDelta)

	_, _, err = applyVideoHeartbeat(db, user.ID, &lesson, 5, 5)
	require.NoError(t, err)

	// Second heartbeat inside the throttle window
	_, _, err = applyVideoHeartbeat(db, user.ID, &lesson, 5, 10)
	assert.ErrorIs(t, err, errHeartbeatTooSoon)
}

func TestLessonCompletionAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	user, course, module, lessons := seedCourse(t, db, 1, 100)
	lesson := lessons[0]

	// Cover segments 0 through 7: 80 percent, below the threshold
	for i := 0; i < 8; i++ {
		progress, cascade, err := applyVideoHeartbeat(db, user.ID, &lesson, 5, i*10+5)
		require.NoError(t, err)
		assert.Nil(t, cascade)
		assert.False(t, progress.IsCompleted)
		clearThrottle(t, db, user.ID, lesson.ID)
	}

	// The ninth segment pushes coverage to 90 percent and completes the lesson
	progress, cascade, err := applyVideoHeartbeat(db, user.ID, &lesson, 5, 85)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
	assert.InDelta(t, 90, progress.CompletionPercentage, 0.01)

	require.NotNil(t, cascade)
	assert.True(t, cascade.ModuleCompleted)
	require.NotNil(t, cascade.Summary)
	assert.InDelta(t, 100, cascade.Summary.ProgressPercentage, 0.01)
	assert.True(t, cascade.Summary.IsCourseCompleted)

	var completion courseModels.ModuleCompletion
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, module.ID).First(&completion).Error)
	assert.True(t, completion.IsCompleted)
	assert.NotNil(t, completion.CompletedAt)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)

	// Completing the lesson again must not re-trigger the cascade
	clearThrottle(t, db, user.ID, lesson.ID)
	_, cascade, err = applyVideoHeartbeat(db, user.ID, &lesson, 5, 95)
	require.NoError(t, err)
	assert.Nil(t, cascade)
}

func TestCourseProgressAggregation(t *testing.T) {
	db := setupTestDB(t)
	user, course, _, lessons := seedCourse(t, db, 10, 100)

	for i := 0; i < 9; i++ {
		_, _, err := markLessonCompleted(db, user.ID, &lessons[i])
		require.NoError(t, err)
	}

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.InDelta(t, 90, enrollment.ProgressPercentage, 0.01)
	assert.Equal(t, 9, enrollment.CompletedLessons)
	assert.Equal(t, 10, enrollment.TotalLessons)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)

	_, cascade, err := markLessonCompleted(db, user.ID, &lessons[9])
	require.NoError(t, err)
	require.NotNil(t, cascade.Summary)
	assert.True(t, cascade.Summary.IsCourseCompleted)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)
	assert.InDelta(t, 100, enrollment.ProgressPercentage, 0.01)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
}

func TestMarkLessonCompletedIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user, _, module, lessons := seedCourse(t, db, 1, 100)

	progress, cascade, err := markLessonCompleted(db, user.ID, &lessons[0])
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
	assert.True(t, cascade.ModuleCompleted)

	// Repeating it changes nothing and leaves exactly one completion row
	progress, cascade, err = markLessonCompleted(db, user.ID, &lessons[0])
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
	assert.True(t, cascade.ModuleCompleted)

	var count int64
	db.Model(&courseModels.ModuleCompletion{}).Where("user_id = ? AND module_id = ?", user.ID, module.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var progressCount int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", user.ID, lessons[0].ID).Count(&progressCount)
	assert.Equal(t, int64(1), progressCount)
}

func TestAssessmentGatedModuleCompletion(t *testing.T) {
	db := setupTestDB(t)
	user, course, module, lessons := seedCourse(t, db, 1, 100)

	require.NoError(t, db.Model(&module).Update("has_assessment", true).Error)

	// All lessons done but the assessment gate is still closed
	_, cascade, err := markLessonCompleted(db, user.ID, &lessons[0])
	require.NoError(t, err)
	assert.False(t, cascade.ModuleCompleted)

	var completion courseModels.ModuleCompletion
	err = db.Where("user_id = ? AND module_id = ? AND is_completed = ?", user.ID, module.ID, true).First(&completion).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Passing the assessment opens the gate
	require.NoError(t, markAssessmentPassed(db, user.ID, module.ID, course.ID))
	cascade, err = runCompletionCascade(db, user.ID, module.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, cascade.ModuleCompleted)

	require.NoError(t, db.Where("user_id = ? AND module_id = ?", user.ID, module.ID).First(&completion).Error)
	assert.True(t, completion.IsCompleted)
	assert.True(t, completion.AssessmentPassed)
}

func TestTotalSegments(t *testing.T) {
	assert.Equal(t, 0, totalSegments(0))
	assert.Equal(t, 0, totalSegments(-5))
	assert.Equal(t, 1, totalSegments(1))
	assert.Equal(t, 1, totalSegments(10))
	assert.Equal(t, 2, totalSegments(11))
	assert.Equal(t, 10, totalSegments(100))
	assert.Equal(t, 11, totalSegments(101))
}
