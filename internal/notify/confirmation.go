package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/bookwise-ai/bookwise/internal/booking"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// ConfirmationMailer implements booking.Notifier by rendering and sending the
// booking confirmation email.
type ConfirmationMailer struct {
	sender EmailSender
	logger *logging.Logger
}

// NewConfirmationMailer builds the mailer. The sender must not be nil; pass a
// StubEmailSender when email delivery is disabled.
func NewConfirmationMailer(sender EmailSender, logger *logging.Logger) *ConfirmationMailer {
	if sender == nil {
		panic("notify: email sender required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfirmationMailer{sender: sender, logger: logger}
}

// SendConfirmation renders both bodies and sends the email to the customer.
func (m *ConfirmationMailer) SendConfirmation(ctx context.Context, draft booking.Draft, bookingID int64) error {
	if draft.Email == "" {
		return fmt.Errorf("notify: draft has no recipient email")
	}

	htmlBody, err := renderHTML(draft, bookingID)
	if err != nil {
		return fmt.Errorf("notify: render confirmation: %w", err)
	}

	msg := EmailMessage{
		To:      draft.Email,
		ToName:  draft.Name,
		Subject: fmt.Sprintf("Booking Confirmation - ID: %d", bookingID),
		Body:    renderText(draft, bookingID),
		HTML:    htmlBody,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return err
	}
	m.logger.Info("confirmation email sent", "booking_id", bookingID, "to", draft.Email)
	return nil
}

func renderText(draft booking.Draft, bookingID int64) string {
	var b strings.Builder
	b.WriteString("Booking Confirmation\n\n")
	fmt.Fprintf(&b, "Dear %s,\n\n", draft.Name)
	b.WriteString("Thank you for your booking! Here are your booking details:\n\n")
	fmt.Fprintf(&b, "Booking ID: %d\n", bookingID)
	fmt.Fprintf(&b, "Name: %s\n", draft.Name)
	fmt.Fprintf(&b, "Email: %s\n", draft.Email)
	fmt.Fprintf(&b, "Phone: %s\n", draft.Phone)
	fmt.Fprintf(&b, "Service Type: %s\n", draft.ServiceType)
	fmt.Fprintf(&b, "Date: %s\n", draft.Date)
	fmt.Fprintf(&b, "Time: %s\n\n", draft.Time)
	b.WriteString("If you need to make any changes or have questions, please contact us.\n\n")
	b.WriteString("Best regards,\nBookwise Assistant Team\n")
	return b.String()
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px;">
      <h2 style="color: #4CAF50; text-align: center;">✅ Booking Confirmation</h2>
      <p>Dear <strong>{{.Name}}</strong>,</p>
      <p>Thank you for your booking! Here are your booking details:</p>
      <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <table style="width: 100%; border-collapse: collapse;">
          <tr><td style="padding: 8px; font-weight: bold;">Booking ID:</td><td style="padding: 8px;">{{.BookingID}}</td></tr>
          <tr style="background-color: #fff;"><td style="padding: 8px; font-weight: bold;">Name:</td><td style="padding: 8px;">{{.Name}}</td></tr>
          <tr><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;">{{.Email}}</td></tr>
          <tr style="background-color: #fff;"><td style="padding: 8px; font-weight: bold;">Phone:</td><td style="padding: 8px;">{{.Phone}}</td></tr>
          <tr><td style="padding: 8px; font-weight: bold;">Service Type:</td><td style="padding: 8px;">{{.ServiceType}}</td></tr>
          <tr style="background-color: #fff;"><td style="padding: 8px; font-weight: bold;">Date:</td><td style="padding: 8px;">{{.Date}}</td></tr>
          <tr><td style="padding: 8px; font-weight: bold;">Time:</td><td style="padding: 8px;">{{.Time}}</td></tr>
        </table>
      </div>
      <p>If you need to make any changes or have questions, please contact us.</p>
      <p style="margin-top: 30px;">Best regards,<br><strong>Bookwise Assistant Team</strong></p>
      <hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
      <p style="font-size: 12px; color: #666; text-align: center;">This is an automated confirmation email. Please do not reply to this email.</p>
    </div>
  </body>
</html>`))

func renderHTML(draft booking.Draft, bookingID int64) (string, error) {
	data := struct {
		booking.Draft
		BookingID int64
	}{Draft: draft, BookingID: bookingID}
	var b strings.Builder
	if err := confirmationHTML.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
