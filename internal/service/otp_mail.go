package service

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/Masterminds/sprig/v3"
	"github.com/Payphone-Digital/helpdesk/pkg/mailer"
)

var otpEmailTemplate = template.Must(template.New("otp").Funcs(sprig.HtmlFuncMap()).Parse(`<div style="font-family: Arial, sans-serif; max-width: 480px;">
  <h2>{{ .AppName | upper }} verification code</h2>
  <p>Hello {{ .Email | trim }},</p>
  <p>Use the code below to finish creating your account.</p>
  <p style="font-size: 28px; letter-spacing: 6px;"><strong>{{ .Code }}</strong></p>
  <p>This code expires in {{ .Minutes }} {{ if eq .Minutes 1 }}minute{{ else }}minutes{{ end }}.</p>
  <p>If you did not request it, you can ignore this email.</p>
</div>`))

type otpEmailData struct {
	AppName string
	Email   string
	Code    string
	Minutes int
}

func (s *OtpService) composeMessage(email, code string) (mailer.Message, error) {
	data := otpEmailData{
		AppName: s.cfg.AppName,
		Email:   email,
		Code:    code,
		Minutes: int(math.Ceil(s.cfg.TTL.Minutes())),
	}

	var body bytes.Buffer
	if err := otpEmailTemplate.Execute(&body, data); err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		From:    s.cfg.From,
		To:      []string{email},
		Subject: fmt.Sprintf("%s - Your OTP Code", s.cfg.AppName),
		HTML:    body.String(),
	}, nil
}
