package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/require"
)

func TestBuildAcceptURL(t *testing.T) {
	u, err := BuildAcceptURL("https://app.example.com", "abc-123")
	require.NoError(t, err)
	require.Equal(t, "https://app.example.com/accept-invite?token=abc-123", u)

	u, err = BuildAcceptURL("http://localhost:5173/", "a b")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5173/accept-invite?token=a+b", u)

	for _, bad := range []string{"", "app.example.com", "/relative", "ftp://x.y"} {
		_, err := BuildAcceptURL(bad, "t")
		require.Error(t, err, bad)
	}
}

func TestInviteLink(t *testing.T) {
	require.Equal(t, "/accept-invite?token=abc", InviteLink("abc"))
}

func TestBuildInvite(t *testing.T) {
	tests := []struct {
		kind        string
		vars        InviteVars
		wantSubject string
		wantText    string
	}{
		{InviteAttorneyOwner, InviteVars{TenantName: "Smith Law"}, "You're invited to join Smith Law on Legacy LA", "invited you to join Smith Law"},
		{InviteAttorneyOwner, InviteVars{}, "You're invited to join your firm on Legacy LA", "A Legacy LA team member invited you"},
		{InviteClientOwner, InviteVars{ClientLabel: "Doe Household", Inviter: "amy@firm.com"}, "You're invited to access Doe Household on Legacy LA", "amy@firm.com invited you to access Doe Household"},
		{"delegate", InviteVars{}, "You're invited to Legacy Louisiana", "invited you to delegate on Legacy Louisiana"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			tt.vars.AcceptURL = "https://app.example.com/accept-invite?token=x"
			m, err := BuildInvite(tt.kind, "to@example.com", tt.vars)
			require.NoError(t, err)
			require.Equal(t, "to@example.com", m.To)
			require.Equal(t, tt.wantSubject, m.Subject)
			require.Contains(t, m.Text, tt.wantText)
			require.Contains(t, m.Text, tt.vars.AcceptURL)
			require.Contains(t, m.HTML, `href="https://app.example.com/accept-invite?token=x"`)
		})
	}
}

func TestBuildInviteEscapesHTML(t *testing.T) {
	m, err := BuildInvite(InviteAttorneyOwner, "to@example.com", InviteVars{TenantName: "<b>Evil</b>", AcceptURL: "https://x.y"})
	require.NoError(t, err)
	require.NotContains(t, m.HTML, "<b>Evil</b>")
	require.Contains(t, m.HTML, "&lt;b&gt;Evil&lt;/b&gt;")
}

func TestSMTPSender(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Username: "noreply@example.com"})
	var sent bytes.Buffer
	var dialer *mail.Dialer
	s.dial = func(d *mail.Dialer, m *mail.Message) error {
		dialer = d
		_, err := m.WriteTo(&sent)
		return err
	}

	err := s.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", Text: "plain", HTML: "<p>rich</p>"})
	require.NoError(t, err)
	require.Equal(t, 587, dialer.Port)
	require.False(t, dialer.SSL)
	out := sent.String()
	require.Contains(t, out, "From: noreply@example.com")
	require.Contains(t, out, "multipart/alternative")
	require.Contains(t, out, "plain")

	require.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrMissingRecipient)
	require.ErrorIs(t, s.Send(context.Background(), Message{To: "a@example.com"}), ErrMissingSubject)

	s.dial = func(*mail.Dialer, *mail.Message) error { return errors.New("refused") }
	require.ErrorContains(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "x"}), "refused")
}

func TestSMTPSenderSSLOnImplicitPort(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 465, From: "f@example.com"})
	require.True(t, s.dialer().SSL)

	s = NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 2525, From: "f@example.com", TLSMode: "ssl"})
	require.True(t, s.dialer().SSL)
}

func TestFromConfig(t *testing.T) {
	require.IsType(t, LogSender{}, FromConfig(SMTPConfig{}))
	require.IsType(t, &SMTPSender{}, FromConfig(SMTPConfig{Host: "smtp.example.com"}))
	require.NoError(t, LogSender{}.Send(context.Background(), Message{To: "a@example.com", Subject: "s"}))
}
