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
	"github.com/google/uuid"
	config "github.com/mwangikelvin/referral_bridge/configs"
	"github.com/mwangikelvin/referral_bridge/database"
	"github.com/mwangikelvin/referral_bridge/models"
	"github.com/mwangikelvin/referral_bridge/workflow"
)

// GenerateCompletionReceipt renders a PDF receipt once a request reaches
// COMPLETED, uploads it, and stores the URL on the request. Best effort:
// the request is already completed, a receipt failure only logs.
func GenerateCompletionReceipt(requestID uuid.UUID) {
	var request models.ReferralRequest
	if err := database.DB.Preload("Student").Preload("Mentor").First(&request, "id = ?", requestID).Error; err != nil {
		log.Printf("🔥 Failed to load request %s for receipt: %v", requestID, err)
		return
	}
	if request.ReceiptURL != nil {
		return
	}

	htmlData, err := generateReceiptHTML(&request)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, request.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt to Cloudinary: %v", err)
		return
	}

	err = database.DB.Model(&models.ReferralRequest{}).
		Where("id = ? AND receipt_url IS NULL", request.ID).
		Update("receipt_url", uploadURL).Error
	if err != nil {
		log.Printf("🔥 Failed to store receipt URL for request %s: %v", request.ID, err)
		return
	}
	log.Printf("✅ Generated completion receipt for request %s.", request.ID)
}

func generateReceiptHTML(request *models.ReferralRequest) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		MentorName     string
		CompanyName    string
		PositionName   string
		Currency       string
		InitiationFee  int64
		FinalFee       int64
		CompletionDate string
	}{
		StudentName:    request.Student.FullName,
		MentorName:     request.Mentor.FullName,
		CompanyName:    request.CompanyName,
		PositionName:   request.PositionName,
		Currency:       request.Currency,
		InitiationFee:  request.InitiationFee.Amount,
		FinalFee:       request.FinalFee.Amount,
		CompletionDate: time.Now().Format("January 2, 2006"),
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

func uploadToCloudinary(fileBytes []byte, requestID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", requestID, uuid.New().String()),
		Folder:       "referral_bridge_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", &workflow.UploadError{Err: err}
	}

	return uploadResult.SecureURL, nil
}
