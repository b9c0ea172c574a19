package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Progress tracking
	progressGroup := app.Group("/progress")
	progressGroup.Post("/init", middleware.JWTMiddleware, validators.InitProgress(), controllers.InitCourseProgress)
	progressGroup.Post("/update", middleware.JWTMiddleware, validators.UpdateProgress(), controllers.UpdateVideoProgress)
	progressGroup.Post("/complete", middleware.JWTMiddleware, validators.CompleteLesson(), controllers.MarkLessonComplete)
	progressGroup.Get("/video/:lessonId", middleware.JWTMiddleware, controllers.GetVideoProgress)
	progressGroup.Get("/course/:courseId", middleware.JWTMiddleware, controllers.GetCourseProgress)

	// Assessments
	assessmentGroup := app.Group("/assessment")
	assessmentGroup.Get("/:assessmentId", middleware.JWTMiddleware, validators.AssessmentParam(), controllers.GetAssessment)
	assessmentGroup.Post("/:assessmentId/submit", middleware.JWTMiddleware, validators.SubmitAssessment(), controllers.SubmitAssessment)

	// Certificate verification is public so employers can check a number
	app.Get("/certificate/verify/:certificateNumber", controllers.VerifyCertificate)
}
