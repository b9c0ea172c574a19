package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate statuses
const (
	CertificateActive  = "ACTIVE"
	CertificateRevoked = "REVOKED"
)

// Certificate represents an issued certificate for course completion.
// The (user_id, course_id) unique index makes issuance idempotent: a
// duplicate-key insert means another request already issued it.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique;not null"`
	VerificationHash  string    `json:"verification_hash"`
	CertificateURL    string    `json:"certificate_url"`
	Status            string    `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, REVOKED
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
