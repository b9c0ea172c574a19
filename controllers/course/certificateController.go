package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TryIssueCertificate issues a certificate once the user becomes eligible:
// progress at or above the threshold and a PASSED submission for every
// mandatory published assessment. It is idempotent and never propagates
// failures: a render or upload error is logged and retried on the next
// progress event.
func TryIssueCertificate(db *gorm.DB, userID, courseID uint) *courseModels.Certificate {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return nil
	}
	if enrollment.ProgressPercentage < certificateThreshold {
		return nil
	}

	// Every mandatory published assessment needs a PASSED submission
	var assessments []courseModels.Assessment
	if err := db.Where("course_id = ? AND is_mandatory = ? AND is_published = ? AND is_deleted = ?", courseID, true, true, false).Find(&assessments).Error; err != nil {
		log.Printf("[CERTIFICATE] Failed to load assessments for course %d: %v", courseID, err)
		return nil
	}
	for _, assessment := range assessments {
		var passed int64
		db.Model(&courseModels.AssessmentSubmission{}).
			Where("user_id = ? AND assessment_id = ? AND status = ? AND is_deleted = ?", userID, assessment.ID, courseModels.SubmissionPassed, false).
			Count(&passed)
		if passed == 0 {
			return nil
		}
	}

	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, courseID, courseModels.CertificateActive, false).First(&existing).Error; err == nil {
		return &existing
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil
	}
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil
	}

	now := time.Now()
	number := utils.GenerateCertificateNumber()
	hash := utils.CertificateVerificationHash(number, userID, courseID)

	artifact, err := utils.RenderCertificate(user.Name, course.Title, number, now)
	if err != nil {
		log.Printf("[CERTIFICATE] Render failed for user %d course %d: %v", userID, courseID, err)
		return nil
	}

	url, err := utils.UploadFile(fmt.Sprintf("certificates/%d/%s.png", courseID, number), artifact, "image/png")
	if err != nil {
		log.Printf("[CERTIFICATE] Upload failed for user %d course %d: %v", userID, courseID, err)
		return nil
	}

	cert := courseModels.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: number,
		VerificationHash:  hash,
		CertificateURL:    url,
		Status:            courseModels.CertificateActive,
		IssuedAt:          now,
	}

	if err := db.Create(&cert).Error; err != nil {
		// A duplicate-key failure means a concurrent request already issued
		// the certificate; return that one instead.
		if err := db.Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, courseID, courseModels.CertificateActive, false).First(&existing).Error; err == nil {
			return &existing
		}
		log.Printf("[CERTIFICATE] Insert failed for user %d course %d: %v", userID, courseID, err)
		return nil
	}

	go func(email, name, courseName, number, url string) {
		if email == "" {
			return
		}
		if err := utils.SendCertificateEmail(email, name, courseName, number, url); err != nil {
			log.Printf("[CERTIFICATE] Notification email failed: %v", err)
		}
	}(user.Email, user.Name, course.Title, number, url)

	return &cert
}

// VerifyCertificate is the public lookup endpoint for a certificate number
func VerifyCertificate(c *fiber.Ctx) error {
	number := c.Params("certificateNumber")
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	var cert courseModels.Certificate
	if err := database.Database.Db.Where("certificate_number = ? AND is_deleted = ?", number, false).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	var user models.User
	database.Database.Db.Select("name").Where("id = ?", cert.UserID).First(&user)
	var course courseModels.Course
	database.Database.Db.Select("title").Where("id = ?", cert.CourseID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"is_valid":           cert.Status == courseModels.CertificateActive,
		"certificate_number": cert.CertificateNumber,
		"student_name":       user.Name,
		"course_title":       course.Title,
		"issued_at":          cert.IssuedAt,
		"status":             cert.Status,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}
