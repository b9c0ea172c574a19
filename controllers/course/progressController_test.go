package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	user   models.User
	course courseModels.Course
	lesson courseModels.Lesson
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	config.LoadConfig()

	dsn := fmt.Sprintf("file:http_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	user := models.User{Name: "Ravi Kumar", Email: fmt.Sprintf("http_%s@example.com", t.Name()), Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Testing in Go", Author: "Ravi Kumar", Status: "PUBLISHED", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{CourseID: course.ID, Title: "Unit Tests", Order: 1}
	require.NoError(t, db.Create(&module).Error)

	lesson := courseModels.Lesson{
		CourseID:      course.ID,
		ModuleID:      module.ID,
		Title:         "Table Driven Tests",
		Type:          courseModels.LessonTypeVideo,
		VideoDuration: 100,
		IsPublished:   true,
	}
	require.NoError(t, db.Create(&lesson).Error)

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: courseModels.EnrollmentActive, TotalLessons: 1}
	require.NoError(t, db.Create(&enrollment).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/progress/update", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateVideoProgress)
	app.Get("/progress/video/:lessonId", middleware.JWTMiddleware, controllers.GetVideoProgress)
	app.Get("/certificate/verify/:certificateNumber", controllers.VerifyCertificate)

	return &testEnv{app: app, db: db, user: user, course: course, lesson: lesson, token: token}
}

func (e *testEnv) heartbeat(t *testing.T, delta, currentTime int) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(fiber.Map{
		"lesson_id":     e.lesson.ID,
		"watched_delta": delta,
		"current_time":  currentTime,
	})
	req := httptest.NewRequest(http.MethodPost, "/progress/update", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHeartbeatEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.heartbeat(t, 5, 5)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress courseModels.LessonProgress
	require.NoError(t, env.db.Where("user_id = ? AND lesson_id = ?", env.user.ID, env.lesson.ID).First(&progress).Error)
	assert.Equal(t, 5, progress.WatchedDuration)
	assert.InDelta(t, 10, progress.CompletionPercentage, 0.01)
}

func TestHeartbeatEndpointRejectsForgedDelta(t *testing.T) {
	env := newTestEnv(t)

	resp := env.heartbeat(t, 16, 20)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHeartbeatEndpointThrottles(t *testing.T) {
	env := newTestEnv(t)

	resp := env.heartbeat(t, 5, 5)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.heartbeat(t, 5, 10)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestHeartbeatEndpointRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	payload, _ := json.Marshal(fiber.Map{"lesson_id": env.lesson.ID, "watched_delta": 5, "current_time": 5})
	req := httptest.NewRequest(http.MethodPost, "/progress/update", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetVideoProgressDefaults(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/progress/video/%d", env.lesson.ID), nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			LastWatchedTime      int     `json:"last_watched_time"`
			IsCompleted          bool    `json:"is_completed"`
			CompletionPercentage float64 `json:"completion_percentage"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Data.LastWatchedTime)
	assert.False(t, body.Data.IsCompleted)
}

func TestVerifyCertificateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/certificate/verify/CERT-0-UNKNOWN", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	number := utils.GenerateCertificateNumber()
	cert := courseModels.Certificate{
		UserID:            env.user.ID,
		CourseID:          env.course.ID,
		CertificateNumber: number,
		VerificationHash:  utils.CertificateVerificationHash(number, env.user.ID, env.course.ID),
		Status:            courseModels.CertificateActive,
		IssuedAt:          time.Now(),
	}
	require.NoError(t, env.db.Create(&cert).Error)

	req = httptest.NewRequest(http.MethodGet, "/certificate/verify/"+number, nil)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			IsValid           bool   `json:"is_valid"`
			CertificateNumber string `json:"certificate_number"`
			StudentName       string `json:"student_name"`
			CourseTitle       string `json:"course_title"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Data.IsValid)
	assert.Equal(t, number, body.Data.CertificateNumber)
	assert.Equal(t, env.user.Name, body.Data.StudentName)
	assert.Equal(t, env.course.Title, body.Data.CourseTitle)
}
