package mail

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Dispatcher delivers transactional emails (signup OTPs, pincode requests).
// Controllers depend on this interface so tests can substitute a fake.
type Dispatcher interface {
	Send(to, subject, htmlBody string) error
}

// SMTPDispatcher sends mail through the SMTP relay configured in the
// environment.
type SMTPDispatcher struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPDispatcher reads the SMTP configuration from the environment.
func NewSMTPDispatcher() *SMTPDispatcher {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPDispatcher{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

func (d *SMTPDispatcher) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return gomail.NewDialer(d.host, d.port, d.username, d.password).DialAndSend(m)
}
