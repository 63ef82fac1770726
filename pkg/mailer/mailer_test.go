package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSelectsDriver(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default console", Options{}, false},
		{"smtp", Options{Driver: DriverSMTP, Host: "smtp.example.com", Port: 587}, false},
		{"smtp without host", Options{Driver: DriverSMTP}, true},
		{"sendgrid", Options{Driver: DriverSendgrid, SendgridAPIKey: "SG.key"}, false},
		{"sendgrid without key", Options{Driver: DriverSendgrid}, true},
		{"unknown", Options{Driver: "pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opts, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestConsoleMailerLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewConsoleMailer(zap.New(core))

	err := m.Send(context.Background(), Message{To: "a@b.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "a@b.com", logs.All()[0].ContextMap()["to"])
}

func TestMessageValidation(t *testing.T) {
	m := NewConsoleMailer(nil)
	assert.Error(t, m.Send(context.Background(), Message{Subject: "x"}))
	assert.Error(t, m.Send(context.Background(), Message{To: "a@b.com"}))
}

func TestSendgridPrepare(t *testing.T) {
	s := NewSendgridMailer(Options{From: "noreply@eduelevate.com", FromName: "EduElevate", SendgridAPIKey: "k"}).(*sendgridMailer)
	m := s.prepare(Message{To: "a@b.com", Subject: "Welcome", HTML: "<p>hi</p>"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Welcome", m.Personalizations[0].Subject)
	assert.Equal(t, "a@b.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@eduelevate.com", m.From.Address)
}
