package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"gifty/internal/config"
	"gifty/pkg/utils"
)

type IMailService interface {
	SendGroupGiftInvite(ctx context.Context, to string, invite GroupGiftInvite) error
	SendBirthdayReminder(ctx context.Context, to string, reminder BirthdayReminder) error
}

type GroupGiftInvite struct {
	GiftID      string
	Participant string
	Organizer   string
	Title       string
	Recipient   string
	Occasion    string
	Deadline    time.Time
}

type BirthdayReminder struct {
	RecipientID string
	Name        string
	Date        time.Time
	DaysUntil   int
}

type deliverFunc func(ctx context.Context, to string, msg []byte) error

type smtpMailService struct {
	cfg      config.MailConfig
	htmlTpl  *template.Template
	textTpl  *texttemplate.Template
	deliver  deliverFunc
	now      func() time.Time
	boundary func() string
}

// NewSMTPMailService returns a mail service that fails every send with
// utils.ErrFeatureDisabled when no SMTP host is configured.
func NewSMTPMailService(cfg config.MailConfig) IMailService {
	s := &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		now:     time.Now,
	}
	s.boundary = func() string { return fmt.Sprintf("mixed_%d", s.now().UnixNano()) }
	if cfg.Enabled() {
		s.deliver = s.sendSMTP
	} else {
		s.deliver = func(context.Context, string, []byte) error { return utils.ErrFeatureDisabled }
	}
	return s
}

func (s *smtpMailService) SendGroupGiftInvite(ctx context.Context, to string, invite GroupGiftInvite) error {
	subject := fmt.Sprintf("%s invited you to chip in: %s", invite.Organizer, invite.Title)
	intro := fmt.Sprintf("Hi %s, %s is collecting contributions for a %s gift for %s. Contributions close on %s.",
		invite.Participant, invite.Organizer, strings.ToLower(invite.Occasion), invite.Recipient,
		invite.Deadline.Format("January 2, 2006"))
	return s.sendTemplated(ctx, to, subject, emailData{
		Title:     subject,
		Intro:     intro,
		ButtonURL: s.link("/group-gifting/" + invite.GiftID),
		ButtonTxt: "View group gift",
	})
}

func (s *smtpMailService) SendBirthdayReminder(ctx context.Context, to string, reminder BirthdayReminder) error {
	when := "today"
	switch {
	case reminder.DaysUntil == 1:
		when = "tomorrow"
	case reminder.DaysUntil > 1:
		when = fmt.Sprintf("in %d days", reminder.DaysUntil)
	}
	subject := fmt.Sprintf("%s's birthday is %s", reminder.Name, when)
	intro := fmt.Sprintf("%s's birthday is on %s. Find a gift they will love before the day arrives.",
		reminder.Name, reminder.Date.Format("Monday, January 2"))
	return s.sendTemplated(ctx, to, subject, emailData{
		Title:     subject,
		Intro:     intro,
		ButtonURL: s.link("/recipients/" + reminder.RecipientID),
		ButtonTxt: "Find a gift",
	})
}

type emailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #fdf2f8; color: #1f2937; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 40px 16px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 16px; overflow: hidden; box-shadow: 0 20px 60px rgba(0, 0, 0, 0.08); }
    .header { padding: 28px 32px; border-bottom: 1px solid #fce7f3; }
    .brand { font-weight: 700; font-size: 22px; color: #db2777; }
    .hero { padding: 36px 32px; }
    h1 { margin: 0 0 16px; font-size: 26px; color: #111827; }
    p { margin: 0 0 20px; line-height: 1.7; color: #4b5563; font-size: 16px; }
    .btn { display: inline-block; padding: 14px 28px; background: #db2777; color: #ffffff !important; text-decoration: none; border-radius: 12px; font-weight: 600; }
    .muted { color: #6b7280; font-size: 13px; }
    .footer { padding: 20px 32px; color: #9ca3af; font-size: 13px; text-align: center; border-top: 1px solid #fce7f3; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header"><div class="brand">{{.AppName}}</div></div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .ButtonURL}}
          <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
          <p class="muted">If the button doesn't work, open {{.ButtonURL}}</p>
        {{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}

{{if .ButtonURL}}{{.ButtonTxt}}:
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) link(path string) string {
	return strings.TrimRight(s.cfg.AppURL, "/") + path
}

func (s *smtpMailService) sendTemplated(ctx context.Context, to, subject string, data emailData) error {
	data.AppName = s.cfg.FromName
	data.Year = s.now().Year()

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return err
	}
	return s.deliver(ctx, to, s.compose(to, subject, hb.String(), tb.String()))
}

func (s *smtpMailService) compose(to, subject, htmlBody, textBody string) []byte {
	boundary := s.boundary()

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	write("Date: %s\r\n", s.now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("utf-8", name), s.cfg.From)
}

// sendSMTP uses implicit TLS on port 465 and STARTTLS when the server offers it otherwise.
func (s *smtpMailService) sendSMTP(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var conn net.Conn
	var err error
	if s.cfg.Port == 465 {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dialing smtp: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if s.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}
	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}
