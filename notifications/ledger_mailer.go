package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"sync"
	"time"

	"github.com/anjiri1684/college_crp/events"
	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/utils"
)

type Sender interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlContent string) error
}

type StudentLookup interface {
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

var overdueTmpl = template.Must(template.New("overdue").Parse(`<p>Dear {{.Name}},</p>
<p>Your fee payment was due on {{.DueDate}} and has not been settled.</p>
<p>Outstanding balance: <strong>{{.Balance}}</strong> of {{.AmountDue}}.</p>
<p>Please pay at the accounts office or online at your earliest convenience.</p>
<p>Accounts Office</p>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<p>Dear {{.Name}},</p>
<p>We have received your payment of <strong>{{.Amount}}</strong> on {{.Date}} ({{.Method}}).</p>
<p>Receipt number: {{.Receipt}}</p>
<p>Outstanding balance on this fee: <strong>{{.Balance}}</strong> ({{.Status}}).</p>
<p>Accounts Office</p>`))

// LedgerMailer e-mails the student when a payment is recorded and when a fee
// becomes overdue. Sends run in the background; Wait blocks until in-flight
// sends finish.
type LedgerMailer struct {
	sender   Sender
	students StudentLookup
	wg       sync.WaitGroup
}

var _ events.Publisher = (*LedgerMailer)(nil)

func NewLedgerMailer(sender Sender, students StudentLookup) *LedgerMailer {
	return &LedgerMailer{sender: sender, students: students}
}

func (m *LedgerMailer) Publish(ctx context.Context, e events.Event) error {
	var deliver func(context.Context, events.Event) error
	switch {
	case e.Kind == events.PaymentRecorded && e.Payment != nil:
		deliver = m.deliver
	case e.Kind == events.FeeRecordOverdue && e.FeeRecord != nil:
		deliver = m.remind
	default:
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := deliver(ctx, e); err != nil {
			log.Printf("🔥 Failed to send %s e-mail: %v", e.Kind, err)
		}
	}()
	return nil
}

func (m *LedgerMailer) Wait() {
	m.wg.Wait()
}

func (m *LedgerMailer) deliver(ctx context.Context, e events.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	student, err := m.students.GetStudent(ctx, e.Payment.StudentID)
	if err != nil {
		return fmt.Errorf("look up student %s: %w", e.Payment.StudentID, err)
	}

	html, err := RenderConfirmation(student, e.Payment, e.FeeRecord)
	if err != nil {
		return err
	}
	subject := "Payment received: " + utils.ReceiptNumber(e.Payment.ID, e.Payment.PaymentDate)
	if err := m.sender.Send(ctx, student.Email, student.Name, subject, html); err != nil {
		return err
	}
	log.Printf("✅ Payment confirmation sent to %s", student.Email)
	return nil
}

func (m *LedgerMailer) remind(ctx context.Context, e events.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	r := e.FeeRecord
	student, err := m.students.GetStudent(ctx, r.StudentID)
	if err != nil {
		return fmt.Errorf("look up student %s: %w", r.StudentID, err)
	}

	var buf bytes.Buffer
	err = overdueTmpl.Execute(&buf, struct{ Name, DueDate, Balance, AmountDue string }{
		Name:      student.Name,
		DueDate:   r.DueDate.Format(utils.DateLayout),
		Balance:   utils.FormatMoney(r.Balance()),
		AmountDue: utils.FormatMoney(r.AmountDue),
	})
	if err != nil {
		return fmt.Errorf("render overdue reminder: %w", err)
	}
	if err := m.sender.Send(ctx, student.Email, student.Name, "Fee payment overdue", buf.String()); err != nil {
		return err
	}
	log.Printf("✅ Overdue reminder sent to %s", student.Email)
	return nil
}

func RenderConfirmation(st *models.Student, p *models.Payment, r *models.StudentFeeRecord) (string, error) {
	data := struct {
		Name, Amount, Date, Method, Receipt, Balance, Status string
	}{
		Name:    st.Name,
		Amount:  utils.FormatMoney(p.Amount),
		Date:    p.PaymentDate.Format(utils.DateLayout),
		Method:  p.PaymentMethod,
		Receipt: utils.ReceiptNumber(p.ID, p.PaymentDate),
		Balance: "-",
		Status:  "-",
	}
	if r != nil {
		data.Balance = utils.FormatMoney(r.Balance())
		data.Status = string(r.PaymentStatus)
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}
