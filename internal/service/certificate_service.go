package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"study_backend/internal/config"
	"study_backend/internal/model"
	"study_backend/pkg/logger"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const mmPerInch = 25.4

type CertificateService struct {
	Storage  *StorageService
	fontPath string
}

func NewCertificateService(storage *StorageService, cfg *config.StorageConfig) *CertificateService {
	return &CertificateService{
		Storage:  storage,
		fontPath: cfg.FontPath,
	}
}

// Generate renders a landscape A4 completion certificate and archives a
// copy through the configured storage provider. The upload is best
// effort, the learner still gets the bytes when it fails.
func (s *CertificateService) Generate(ctx context.Context, user *model.User, course *model.Course) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	width, height := pdf.GetPageSize()

	titleFont, textFont := "Helvetica", "Helvetica"
	if s.fontPath != "" {
		if _, err := os.Stat(s.fontPath); err == nil {
			pdf.AddUTF8Font("Custom", "", s.fontPath)
			pdf.AddUTF8Font("Custom", "B", s.fontPath)
			titleFont, textFont = "Custom", "Custom"
		}
	}

	// Outer border, indigo.
	pdf.SetDrawColor(79, 70, 229)
	pdf.SetLineWidth(1.0)
	pdf.Rect(0.5*mmPerInch, 0.5*mmPerInch, width-mmPerInch, height-mmPerInch, "D")

	// Inner border, light indigo.
	pdf.SetDrawColor(129, 140, 248)
	pdf.SetLineWidth(0.35)
	pdf.Rect(0.6*mmPerInch, 0.6*mmPerInch, width-1.2*mmPerInch, height-1.2*mmPerInch, "D")

	centered := func(y float64, font, style string, size float64, r, g, b int, text string) {
		pdf.SetFont(font, style, size)
		pdf.SetTextColor(r, g, b)
		pdf.SetXY(0, y)
		pdf.CellFormat(width, size/2, text, "", 0, "C", false, 0, "")
	}

	centered(1.3*mmPerInch, titleFont, "B", 48, 79, 70, 229, "Certificate of Completion")
	centered(1.9*mmPerInch, textFont, "", 16, 107, 114, 128, "This is to certify that")
	centered(2.6*mmPerInch, titleFont, "B", 36, 17, 24, 39, user.Name)
	centered(3.2*mmPerInch, textFont, "", 16, 107, 114, 128, "has successfully completed the course")
	centered(3.9*mmPerInch, titleFont, "B", 28, 79, 70, 229, course.Title)

	completionDate := time.Now().Format("January 2, 2006")
	centered(4.7*mmPerInch, textFont, "", 14, 107, 114, 128, fmt.Sprintf("Completed on %s", completionDate))
	centered(5.5*mmPerInch, titleFont, "B", 25, 79, 70, 229, "StuDy Education Platform")

	// Signature line.
	pdf.SetDrawColor(209, 213, 219)
	pdf.SetLineWidth(0.35)
	pdf.Line(width/2-2*mmPerInch, 5.8*mmPerInch, width/2+2*mmPerInch, 5.8*mmPerInch)

	certID := fmt.Sprintf("%d-%d-%s", course.ID, user.ID, time.Now().Format("20060102"))
	centered(height-0.8*mmPerInch, textFont, "", 10, 209, 213, 219, fmt.Sprintf("Certificate ID: %s", certID))

	// Corner ornaments.
	pdf.SetFillColor(129, 140, 248)
	pdf.Circle(mmPerInch, mmPerInch, 0.1*mmPerInch, "F")
	pdf.Circle(width-mmPerInch, mmPerInch, 0.1*mmPerInch, "F")
	pdf.Circle(mmPerInch, height-mmPerInch, 0.1*mmPerInch, "F")
	pdf.Circle(width-mmPerInch, height-mmPerInch, 0.1*mmPerInch, "F")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	data := buf.Bytes()
	filename := fmt.Sprintf("certificates/%s.pdf", certID)
	if s.Storage != nil {
		if _, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
			logger.Log.Warn("Certificate archive upload failed",
				zap.String("certificateId", certID), zap.Error(err))
		}
	}

	return data, certID, nil
}
