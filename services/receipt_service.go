package services

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/anjiri1684/college_crp/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

//go:embed templates/receipt.html
var receiptHTML string

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptHTML))

var ErrArchiveDisabled = errors.New("receipt archiving is not configured")

type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type Archiver interface {
	Upload(ctx context.Context, data []byte, publicID string) (string, error)
}

type receiptStore interface {
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	GetFeeRecord(ctx context.Context, id string) (*models.StudentFeeRecord, error)
	GetFeeStructure(ctx context.Context, id string) (*models.FeeStructure, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// ReceiptService renders payment receipts and optionally archives them.
type ReceiptService struct {
	store    receiptStore
	renderer PDFRenderer
	archiver Archiver
}

// NewReceiptService accepts a nil archiver; Archive then reports ErrArchiveDisabled.
func NewReceiptService(st receiptStore, renderer PDFRenderer, archiver Archiver) *ReceiptService {
	return &ReceiptService{store: st, renderer: renderer, archiver: archiver}
}

type Receipt struct {
	ReceiptNumber string
	IssuedOn      string
	StudentName   string
	StudentNumber string
	FeeName       string
	PaymentDate   string
	Method        string
	TransactionID string
	Amount        string
	AmountDue     string
	AmountPaid    string
	Balance       string
	Status        string
}

func (s *ReceiptService) Build(ctx context.Context, paymentID string) (*Receipt, error) {
	p, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, notFound("Payment", err)
	}
	r, err := s.store.GetFeeRecord(ctx, p.StudentFeeRecordID)
	if err != nil {
		return nil, notFound("Student fee record", err)
	}

	rc := &Receipt{
		ReceiptNumber: utils.ReceiptNumber(p.ID, p.PaymentDate),
		IssuedOn:      time.Now().UTC().Format("January 2, 2006"),
		StudentName:   "Unknown student",
		FeeName:       "Fee",
		PaymentDate:   p.PaymentDate.Format("January 2, 2006"),
		Method:        p.PaymentMethod,
		TransactionID: deref(p.TransactionID),
		Amount:        utils.FormatMoney(p.Amount),
		AmountDue:     utils.FormatMoney(r.AmountDue),
		AmountPaid:    utils.FormatMoney(r.AmountPaid),
		Balance:       utils.FormatMoney(r.Balance()),
		Status:        string(r.PaymentStatus),
	}
	// payments trust the supplied student id, so the student may be missing
	if st, err := s.store.GetStudent(ctx, p.StudentID); err == nil {
		rc.StudentName, rc.StudentNumber = st.Name, st.StudentID
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if fs, err := s.store.GetFeeStructure(ctx, r.FeeStructureID); err == nil {
		rc.FeeName = fmt.Sprintf("%s (%s, %s)", fs.Name, fs.FeeType, fs.AcademicYear)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return rc, nil
}

func (s *ReceiptService) RenderHTML(ctx context.Context, paymentID string) (string, *Receipt, error) {
	rc, err := s.Build(ctx, paymentID)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, rc); err != nil {
		return "", nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), rc, nil
}

func (s *ReceiptService) RenderPDF(ctx context.Context, paymentID string) ([]byte, *Receipt, error) {
	html, rc, err := s.RenderHTML(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, nil, fmt.Errorf("render receipt PDF: %w", err)
	}
	return pdf, rc, nil
}

// Archive uploads the receipt PDF and returns its URL.
func (s *ReceiptService) Archive(ctx context.Context, paymentID string) (string, error) {
	if s.archiver == nil {
		return "", ErrArchiveDisabled
	}
	pdf, rc, err := s.RenderPDF(ctx, paymentID)
	if err != nil {
		return "", err
	}
	url, err := s.archiver.Upload(ctx, pdf, rc.ReceiptNumber)
	if err != nil {
		return "", fmt.Errorf("archive receipt %s: %w", rc.ReceiptNumber, err)
	}
	log.Printf("✅ Archived receipt %s", rc.ReceiptNumber)
	return url, nil
}

// ChromeRenderer prints HTML to PDF with a headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (c ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
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

type CloudinaryArchiver struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryArchiver(cloudinaryURL, folder string) (*CloudinaryArchiver, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &CloudinaryArchiver{cld: cld, folder: folder}, nil
}

func (a *CloudinaryArchiver) Upload(ctx context.Context, data []byte, publicID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := a.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       a.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}
