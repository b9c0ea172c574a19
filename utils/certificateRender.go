package utils

import (
	"bytes"
	"fmt"
	"time"

	"lms/config"

	"github.com/fogleman/gg"
)

const (
	certWidth  = 1400
	certHeight = 990
)

// RenderCertificate draws the completion certificate and returns it as a PNG
// buffer ready for upload
func RenderCertificate(studentName, courseName, certificateNumber string, issuedAt time.Time) ([]byte, error) {
	dc := gg.NewContext(certWidth, certHeight)

	// Background
	dc.SetRGB(0.98, 0.98, 0.96)
	dc.Clear()

	// Outer border
	dc.SetRGB(0.15, 0.35, 0.60)
	dc.SetLineWidth(10)
	dc.DrawRectangle(40, 40, certWidth-80, certHeight-80)
	dc.Stroke()

	// Inner border
	dc.SetLineWidth(2)
	dc.DrawRectangle(60, 60, certWidth-120, certHeight-120)
	dc.Stroke()

	fontPath := config.AppConfig.CertFontPath

	if err := dc.LoadFontFace(fontPath, 56); err != nil {
		return nil, fmt.Errorf("failed to load certificate font: %v", err)
	}
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored("Certificate of Completion", certWidth/2, 200, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 28); err != nil {
		return nil, err
	}
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.DrawStringAnchored("This is to certify that", certWidth/2, 320, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 48); err != nil {
		return nil, err
	}
	dc.SetRGB(0.15, 0.35, 0.60)
	dc.DrawStringAnchored(studentName, certWidth/2, 410, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 28); err != nil {
		return nil, err
	}
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.DrawStringAnchored("has successfully completed the course", certWidth/2, 490, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 40); err != nil {
		return nil, err
	}
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored(courseName, certWidth/2, 570, 0.5, 0.5)

	if err := dc.LoadFontFace(fontPath, 24); err != nil {
		return nil, err
	}
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.DrawStringAnchored(fmt.Sprintf("Issued on %s", issuedAt.Format("January 2, 2006")), certWidth/2, 700, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Certificate No: %s", certificateNumber), certWidth/2, 760, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode certificate: %v", err)
	}

	return buf.Bytes(), nil
}
