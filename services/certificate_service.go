package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/sahilm23/quiz_master/configs"
	"github.com/sahilm23/quiz_master/models"
	"gorm.io/gorm"
)

// CheckAndGenerateCertificate issues a certificate for a perfect score.
// It is fire-and-forget: called in a goroutine after the result commits,
// and failures only log. The submitter's response never depends on it.
func CheckAndGenerateCertificate(db *gorm.DB, result models.Result) {
	if result.TotalQuestions == 0 || result.Score != result.TotalQuestions {
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", result.UserID).Error; err != nil {
		log.Printf("🔥 Failed to load user for certificate: %v", err)
		return
	}
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", result.QuizID).Error; err != nil {
		log.Printf("🔥 Failed to load quiz for certificate: %v", err)
		return
	}

	htmlData, err := generateCertificateHTML(user.Username, quiz.Title, result.CompletedAt)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate PDF: %v", err)
		return
	}

	uploadURL, err := uploadCertificate(pdfBytes, result.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate to Cloudinary: %v", err)
		return
	}

	if err := db.Model(&models.Result{}).
		Where("id = ?", result.ID).
		Update("certificate_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to store certificate URL for result %s: %v", result.ID, err)
		return
	}

	log.Printf("✅ Generated certificate for result %s (%s, quiz %q).", result.ID, user.Username, quiz.Title)
}

func generateCertificateHTML(username, quizTitle string, completedAt time.Time) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		Username      string
		QuizTitle     string
		CompletedDate string
	}{
		Username:      username,
		QuizTitle:     quizTitle,
		CompletedDate: completedAt.Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificate(fileBytes []byte, resultID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s", resultID),
		Folder:       "quiz_master_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
