package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestSendPasswordResetEmail(t *testing.T) {
	rec := &recordingSender{}
	svc := NewEmailService(rec, Config{FromName: "CS Department", ResetURL: "https://dept.example/admin/reset-password"}, zerolog.Nop())

	require.NoError(t, svc.SendPasswordResetEmail(context.Background(), "a@example.edu", "<Ann>", "tok123"))
	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "a@example.edu", msg.ToEmail)
	assert.Contains(t, msg.Text, "https://dept.example/admin/reset-password?token=tok123")
	assert.Contains(t, msg.HTML, "&lt;Ann&gt;")
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSMTPSender_NoCredentialsLogs(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.invalid", Port: 587}, zerolog.Nop())
	assert.NoError(t, s.Send(context.Background(), Message{ToEmail: "a@b.c", Subject: "x"}))
}

func TestSendGridSender(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender("sg-key", "CS Department", "noreply@dept.example", zerolog.Nop())
	s.host = srv.URL

	err := s.Send(context.Background(), Message{ToEmail: "a@b.c", ToName: "A", Subject: "Hi", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "noreply@dept.example", got["from"].(map[string]any)["email"])
}

func TestSendGridSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSendGridSender("bad", "x", "x@y.z", zerolog.Nop())
	s.host = srv.URL
	assert.Error(t, s.Send(context.Background(), Message{ToEmail: "a@b.c", HTML: "x"}))
}
