package controllers

import (
	"testing"
	"time"

	courseModels "lms/models/course"
	"lms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setEnrollmentProgress(t *testing.T, db *gorm.DB, userID, courseID uint, pct float64) {
	t.Helper()
	require.NoError(t, db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress_percentage", pct).Error)
}

func TestTryIssueCertificateBelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	user, course, _, _ := seedCourse(t, db, 2, 100)

	setEnrollmentProgress(t, db, user.ID, course.ID, 50)

	cert := TryIssueCertificate(db, user.ID, course.ID)
	assert.Nil(t, cert)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTryIssueCertificateRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)
	_, course, _, _ := seedCourse(t, db, 1, 100)

	cert := TryIssueCertificate(db, 9999, course.ID)
	assert.Nil(t, cert)
}

func TestTryIssueCertificateBlockedByMandatoryAssessment(t *testing.T) {
	db := setupTestDB(t)
	user, course, module, _ := seedCourse(t, db, 1, 100)

	assessment := courseModels.Assessment{
		CourseID:     course.ID,
		ModuleID:     module.ID,
		Title:        "Final Exam",
		PassingScore: 70,
		IsMandatory:  true,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&assessment).Error)

	setEnrollmentProgress(t, db, user.ID, course.ID, 100)

	// Full progress but no PASSED submission for the mandatory assessment
	cert := TryIssueCertificate(db, user.ID, course.ID)
	assert.Nil(t, cert)

	// A failed attempt does not open the gate either
	failed := courseModels.AssessmentSubmission{
		UserID:       user.ID,
		AssessmentID: assessment.ID,
		Score:        40,
		Status:       courseModels.SubmissionFailed,
	}
	require.NoError(t, db.Create(&failed).Error)
	assert.Nil(t, TryIssueCertificate(db, user.ID, course.ID))
}

func TestTryIssueCertificateReturnsExisting(t *testing.T) {
	db := setupTestDB(t)
	user, course, _, _ := seedCourse(t, db, 1, 100)

	setEnrollmentProgress(t, db, user.ID, course.ID, 100)

	number := utils.GenerateCertificateNumber()
	existing := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          course.ID,
		CertificateNumber: number,
		VerificationHash:  utils.CertificateVerificationHash(number, user.ID, course.ID),
		Status:            courseModels.CertificateActive,
		IssuedAt:          time.Now(),
	}
	require.NoError(t, db.Create(&existing).Error)

	cert := TryIssueCertificate(db, user.ID, course.ID)
	require.NotNil(t, cert)
	assert.Equal(t, number, cert.CertificateNumber)
	assert.Equal(t, existing.ID, cert.ID)

	// Still exactly one certificate for the pair
	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestTryIssueCertificateIgnoresRevoked(t *testing.T) {
	db := setupTestDB(t)
	user, course, _, _ := seedCourse(t, db, 1, 100)

	setEnrollmentProgress(t, db, user.ID, course.ID, 100)

	revoked := courseModels.Certificate{
		UserID:            user.ID,
		CourseID:          course.ID,
		CertificateNumber: utils.GenerateCertificateNumber(),
		Status:            courseModels.CertificateRevoked,
		IssuedAt:          time.Now(),
	}
	require.NoError(t, db.Create(&revoked).Error)

	// A revoked certificate does not satisfy the active lookup, and the
	// unique (user, course) index blocks a second row
	cert := TryIssueCertificate(db, user.ID, course.ID)
	assert.Nil(t, cert)
}
