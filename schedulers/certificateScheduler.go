package schedulers

import (
	"log"

	courseControllers "lms/controllers/course"
	"lms/database"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeCertificateScheduler sets up the certificate retry sweep
func InitializeCertificateScheduler() {
	log.Println("[CERT-SCHEDULER] Initializing certificate scheduler...")

	c := cron.New()

	// Run hourly to retry certificates that failed to render or upload
	c.AddFunc("0 * * * *", func() {
		log.Println("[CERT-SCHEDULER] Running certificate retry sweep...")
		RetryPendingCertificates()
	})

	c.Start()
	log.Println("[CERT-SCHEDULER] Certificate scheduler started - runs hourly")
}

// RetryPendingCertificates re-attempts issuance for enrollments that crossed
// the eligibility threshold but have no active certificate. Render and upload
// failures during the progress cascade are swallowed, so this sweep is the
// retry path.
func RetryPendingCertificates() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.
		Where("is_deleted = ? AND progress_percentage >= ?", false, 90).
		Where("NOT EXISTS (SELECT 1 FROM certificates WHERE certificates.user_id = enrollments.user_id AND certificates.course_id = enrollments.course_id AND certificates.status = ? AND certificates.is_deleted = ?)", courseModels.CertificateActive, false).
		Find(&enrollments).Error; err != nil {
		log.Printf("[CERT-SCHEDULER] Error fetching eligible enrollments: %v", err)
		return
	}

	if len(enrollments) == 0 {
		return
	}
	log.Printf("[CERT-SCHEDULER] Found %d enrollments without certificates", len(enrollments))

	issued := 0
	for _, enrollment := range enrollments {
		if cert := courseControllers.TryIssueCertificate(db, enrollment.UserID, enrollment.CourseID); cert != nil {
			issued++
		}
	}

	if issued > 0 {
		log.Printf("[CERT-SCHEDULER] Issued %d certificates", issued)
	}
}
