package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/pkg/config"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func notice() ports.RecallNotice {
	return ports.RecallNotice{
		To:             "ana@example.com",
		PatientName:    "Ana",
		FranchiseName:  "Clínica Norte",
		FranchisePhone: "555-0101",
		RecallDate:     time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Reason:         "Control de seguimiento",
	}
}

func TestLogNotifier_RegistraSinEnviar(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.FromWriter(&buf))

	require.NoError(t, n.SendRecall(context.Background(), notice()))
	out := buf.String()
	assert.Contains(t, out, `"to":"ana@example.com"`)
	assert.Contains(t, out, "20/11/2026")
	assert.Contains(t, out, `"component":"mail"`)
}

func TestSMTPNotifier_ArmaMensaje(t *testing.T) {
	s := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.local", Port: 25, From: "no-reply@clinic.local"}, logger.Nop())
	m, err := s.buildMessage(notice())
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@clinic.local"}, m.GetHeader("From"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "text/html")
}

func TestSMTPNotifier_ContextoCancelado(t *testing.T) {
	s := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.local", Port: 25}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.SendRecall(ctx, notice()), context.Canceled)
}

func TestPlainBody_SinMotivo(t *testing.T) {
	n := notice()
	n.Reason = ""
	assert.NotContains(t, plainBody(n), "Motivo")
}
