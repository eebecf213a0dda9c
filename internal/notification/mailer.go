package notification

import (
	"context"
	"fmt"
	"text/template"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/wneessen/go-mail"
)

var (
	guestTemplate = template.Must(template.New("guest").Parse(`Hello{{with .Contact}}{{if .Name}} {{.Name}}{{end}}{{end}},

Your booking {{.BookingID}} is confirmed.

Check-in:  {{.StartDate}}
Check-out: {{.EndDate}}
Total:     {{.TotalPrice}}

See you soon.
`))

	adminTemplate = template.Must(template.New("admin").Parse(`Booking {{.BookingID}} was confirmed.

Property:  {{.PropertyID}}
Guest:     {{.GuestID}}{{with .Contact}}
Name:      {{.Name}}
Email:     {{.Email}}
Phone:     {{.Phone}}{{end}}
Check-in:  {{.StartDate}}
Check-out: {{.EndDate}}
Total:     {{.TotalPrice}}
`))
)

// MailSender is the part of *mail.Client the Mailer uses.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// NewSMTPClient builds a go-mail client. Authentication is enabled only
// when a username is given.
func NewSMTPClient(host string, port int, username, password string) (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	return client, nil
}

// Mailer turns a confirmed booking into a guest confirmation mail (when the
// guest left an email address) and a notice to the admin address.
type Mailer struct {
	sender MailSender
	from   string
	admin  string
	log    *logger.Logger
}

func NewMailer(sender MailSender, from, admin string, log *logger.Logger) *Mailer {
	return &Mailer{sender: sender, from: from, admin: admin, log: log}
}

// Messages builds the mails for event without sending them.
func (m *Mailer) Messages(event BookingConfirmed) ([]*mail.Msg, error) {
	var msgs []*mail.Msg

	if event.Contact != nil && event.Contact.Email != "" {
		msg, err := m.compose(event.Contact.Email, "Your booking is confirmed", guestTemplate, event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	if m.admin != "" {
		msg, err := m.compose(m.admin, "New booking confirmed", adminTemplate, event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Handle sends the mails for event. It is a Handler for Consumer.
func (m *Mailer) Handle(ctx context.Context, event BookingConfirmed) error {
	msgs, err := m.Messages(event)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := m.sender.DialAndSendWithContext(ctx, msgs...); err != nil {
		return fmt.Errorf("send booking mails failed: %w", err)
	}

	m.log.Info("booking emails sent", "booking_id", event.BookingID, "messages", len(msgs))
	return nil
}

func (m *Mailer) compose(to, subject string, tpl *template.Template, event BookingConfirmed) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	if err := msg.SetBodyTextTemplate(tpl, event); err != nil {
		return nil, fmt.Errorf("render mail body failed: %w", err)
	}
	return msg, nil
}
