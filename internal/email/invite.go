package email

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	"net/url"
	"strings"
	texttpl "text/template"
)

// BuildAcceptURL returns base + /accept-invite?token=tok. base must be an
// absolute http(s) URL.
func BuildAcceptURL(base, tok string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("email: base URL must be absolute (ex: https://app.example.com), got %q", base)
	}
	u = u.JoinPath("accept-invite")
	q := url.Values{}
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// InviteLink is the relative link returned to API callers.
func InviteLink(tok string) string {
	return "/accept-invite?token=" + url.QueryEscape(tok)
}

type InviteVars struct {
	Inviter     string
	AcceptURL   string
	TenantName  string
	ClientLabel string
	RoleLabel   string
}

const (
	InviteAttorneyOwner = "attorney_owner"
	InviteClientOwner   = "client_owner"
)

type inviteTemplate struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmltpl.Template
}

const textFooter = `Click the link below to accept the invite and set your password:
{{.AcceptURL}}

If you were not expecting this invitation you can ignore this email.
`

const htmlFooter = `<p><a href="{{.AcceptURL}}">Accept your invitation</a> to set your password and activate your access.</p>
<p>If you were not expecting this invitation you can ignore this email.</p>
`

func mustInvite(subject, textIntro, htmlIntro string) inviteTemplate {
	return inviteTemplate{
		subject: texttpl.Must(texttpl.New("subject").Parse(subject)),
		text:    texttpl.Must(texttpl.New("text").Parse("Hello,\n\n" + textIntro + "\n" + textFooter)),
		html:    htmltpl.Must(htmltpl.New("html").Parse("<p>Hello,</p>\n" + htmlIntro + "\n" + htmlFooter)),
	}
}

var inviteTemplates = map[string]inviteTemplate{
	InviteAttorneyOwner: mustInvite(
		`You're invited to join {{.TenantName}} on Legacy LA`,
		`{{.Inviter}} invited you to join {{.TenantName}} on Legacy Louisiana.`,
		`<p>{{.Inviter}} invited you to join <strong>{{.TenantName}}</strong> on Legacy Louisiana.</p>`,
	),
	InviteClientOwner: mustInvite(
		`You're invited to access {{.ClientLabel}} on Legacy LA`,
		`{{.Inviter}} invited you to access {{.ClientLabel}} on Legacy Louisiana.`,
		`<p>{{.Inviter}} invited you to access <strong>{{.ClientLabel}}</strong> on Legacy Louisiana.</p>`,
	),
	"": mustInvite(
		`You're invited to Legacy Louisiana`,
		`{{.Inviter}} invited you to {{.RoleLabel}} on Legacy Louisiana.`,
		`<p>{{.Inviter}} invited you to {{.RoleLabel}} on Legacy Louisiana.</p>`,
	),
}

// BuildInvite renders the invite email for inviteType. Unknown types use the
// generic template.
func BuildInvite(inviteType, to string, v InviteVars) (Message, error) {
	if v.Inviter == "" {
		v.Inviter = "A Legacy LA team member"
	}
	if v.TenantName == "" {
		v.TenantName = "your firm"
	}
	if v.ClientLabel == "" {
		v.ClientLabel = "your estate workspace"
	}
	if v.RoleLabel == "" {
		v.RoleLabel = inviteType
	}
	if v.RoleLabel == "" {
		v.RoleLabel = "Legacy Louisiana"
	}

	t, ok := inviteTemplates[inviteType]
	if !ok {
		t = inviteTemplates[""]
	}
	var subj, text, html bytes.Buffer
	if err := t.subject.Execute(&subj, v); err != nil {
		return Message{}, fmt.Errorf("email: render subject: %w", err)
	}
	if err := t.text.Execute(&text, v); err != nil {
		return Message{}, fmt.Errorf("email: render text: %w", err)
	}
	if err := t.html.Execute(&html, v); err != nil {
		return Message{}, fmt.Errorf("email: render html: %w", err)
	}
	return Message{To: to, Subject: subj.String(), Text: text.String(), HTML: html.String()}, nil
}
