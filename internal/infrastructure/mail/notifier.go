// Package mail envío de recordatorios de control a pacientes.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/pkg/config"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

var (
	_ ports.Notifier = (*SMTPNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

var recallHTML = template.Must(template.New("recall").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Recordatorio de control</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
		.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
		h1 { color: #006666; }
		p { color: #555555; }
		.date { font-weight: bold; color: #006666; }
	</style>
</head>
<body>
	<div class="container">
		<h1>{{.FranchiseName}}</h1>
		<p>Hola {{.PatientName}},</p>
		<p>Te recordamos tu control programado para el</p>
		<p class="date">{{.RecallDate.Format "02/01/2006"}}</p>
		{{if .Reason}}<p>Motivo: {{.Reason}}</p>{{end}}
		{{if .FranchisePhone}}<p>Para reprogramar llámanos al {{.FranchisePhone}}.</p>{{end}}
	</div>
</body>
</html>`))

func subject(n ports.RecallNotice) string {
	return fmt.Sprintf("%s: recordatorio de control %s", n.FranchiseName, n.RecallDate.Format("02/01/2006"))
}

func plainBody(n ports.RecallNotice) string {
	body := fmt.Sprintf("Hola %s, te recordamos tu control el %s.", n.PatientName, n.RecallDate.Format("02/01/2006"))
	if n.Reason != "" {
		body += " Motivo: " + n.Reason + "."
	}
	if n.FranchisePhone != "" {
		body += " Teléfono: " + n.FranchisePhone + "."
	}
	return body
}

// SMTPNotifier envía el recordatorio por SMTP con gomail (texto plano + HTML).
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPNotifier construye el notificador a partir de la configuración SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log.Component("mail"),
	}
}

// buildMessage arma el correo sin enviarlo.
func (s *SMTPNotifier) buildMessage(n ports.RecallNotice) (*gomail.Message, error) {
	var html bytes.Buffer
	if err := recallHTML.Execute(&html, n); err != nil {
		return nil, fmt.Errorf("render recall email: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", subject(n))
	m.SetBody("text/plain", plainBody(n))
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func (s *SMTPNotifier) SendRecall(ctx context.Context, n ports.RecallNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.buildMessage(n)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send recall email: %w", err)
	}
	s.log.Info().Str("to", n.To).Time("recall_date", n.RecallDate).Msg("recordatorio enviado")
	return nil
}

// LogNotifier registra el recordatorio sin enviarlo (SMTP no configurado).
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("mail")}
}

func (l *LogNotifier) SendRecall(_ context.Context, n ports.RecallNotice) error {
	l.log.Info().
		Str("to", n.To).
		Str("subject", subject(n)).
		Str("body", plainBody(n)).
		Msg("recordatorio (SMTP deshabilitado)")
	return nil
}
