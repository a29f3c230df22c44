package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/cmlabs-hris/vms-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(cfg config.SMTPConfig, fn sendMailFunc) *emailServiceImpl {
	return &emailServiceImpl{cfg: cfg, sendMail: fn}
}

func TestSend_SkipsWhenNotConfigured(t *testing.T) {
	called := false
	svc := newTestService(config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	err := svc.Send(context.Background(), "bob@x.com", "New Visitor Registered", "hello")
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestSend_BuildsMessage(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "desk@example.com", FromName: "Front Desk"}
	svc := newTestService(cfg, func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	})

	require.NoError(t, svc.Send(context.Background(), "bob@x.com", "New Visitor Registered", "Visitor Alice is here"))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"bob@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: New Visitor Registered\r\n")
	assert.Contains(t, string(gotMsg), "From: Front Desk <desk@example.com>\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nVisitor Alice is here")
}

func TestSend_PropagatesFailure(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587}
	svc := newTestService(cfg, func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	})

	err := svc.Send(context.Background(), "bob@x.com", "s", "b")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSend_RejectsHeaderInjection(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587}
	svc := newTestService(cfg, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail must not be called")
		return nil
	})

	err := svc.Send(context.Background(), "bob@x.com\r\nBcc: eve@x.com", "s", "b")
	assert.Error(t, err)
}
