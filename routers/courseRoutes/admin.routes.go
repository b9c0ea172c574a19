package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.AdminMiddleware)

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Put("/:courseId", validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:courseId", validators.CourseParam(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:courseId/publish", validators.CourseParam(), controllers.AdminPublishCourse)

	// Module management
	adminGroup.Post("/:courseId/module", validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:courseId/modules", validators.ListModules(), controllers.AdminListModules)
	adminGroup.Put("/:courseId/module/:moduleId", validators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:courseId/module/:moduleId", validators.ModuleParam(), controllers.AdminDeleteModule)
	adminGroup.Patch("/:courseId/modules/reorder", validators.ReorderModules(), controllers.AdminReorderModules)

	// Lesson management
	adminGroup.Post("/:courseId/module/:moduleId/lesson", validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:courseId/module/:moduleId/lessons", validators.ModuleParam(), controllers.AdminGetModuleLessons)

	lessonGroup := app.Group("/admin/lesson", middleware.JWTMiddleware, middleware.AdminMiddleware)
	lessonGroup.Put("/:lessonId", validators.UpdateLesson(), controllers.AdminUpdateLesson)
	lessonGroup.Delete("/:lessonId", validators.LessonParam(), controllers.AdminDeleteLesson)
	lessonGroup.Post("/:lessonId/publish", validators.LessonParam(), controllers.AdminPublishLesson)

	// Assessment management
	adminGroup.Post("/:courseId/module/:moduleId/assessment", validators.CreateAssessment(), controllers.AdminCreateAssessment)

	assessmentGroup := app.Group("/admin/assessment", middleware.JWTMiddleware, middleware.AdminMiddleware)
	assessmentGroup.Post("/:assessmentId/question", validators.AddQuestion(), controllers.AdminAddQuestion)
	assessmentGroup.Post("/:assessmentId/publish", validators.AssessmentParam(), controllers.AdminPublishAssessment)

	// Progress administration
	progressGroup := app.Group("/admin/progress", middleware.JWTMiddleware, middleware.AdminMiddleware)
	progressGroup.Post("/reset", validators.ResetProgress(), controllers.ResetCourseProgress)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard", middleware.JWTMiddleware, middleware.AdminMiddleware)
	dashGroup.Get("/stats", controllers.AdminDashboardStats)
}
