package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/go-mail/mail"
)

type dailer interface {
	DialAndSend(m ...*mail.Message) error
}

func NewMailer(dialer dailer, from string, uiURL string) *Mailer {
	return &Mailer{
		dailer: dialer,
		from:   from,
		uiURL:  strings.TrimSuffix(uiURL, "/"),
	}
}

// Mailer e-mails notifications
type Mailer struct {
	dailer dailer
	from   string
	uiURL  string
}

func (m Mailer) Send(email string, notification model.Notification) error {
	if email == "" {
		return fmt.Errorf("user %d has no e-mail address", notification.UserID)
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", notification.Title)
	msg.SetBody("text/html", m.body(notification))
	return m.dailer.DialAndSend(msg)
}

func (m Mailer) body(notification model.Notification) string {
	body := fmt.Sprintf("Hello,<br/><br/>%s", html.EscapeString(notification.Message))
	if notification.EventID != nil {
		link := fmt.Sprintf("%s/events/%d", m.uiURL, *notification.EventID)
		body += fmt.Sprintf("<br/><br/>See the event at %s", link)
	}
	return body
}
