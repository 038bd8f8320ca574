package smtp

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
)

// verificationTmpl renders the verification email: the 6-digit code for
// manual entry plus a one-click confirmation link carrying the token.
var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Confirm your email - {{.Brand}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f7f7f7; }
    .container { background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
    .header { text-align: center; margin-bottom: 30px; }
    .logo { font-size: 32px; font-weight: bold; color: #6366f1; margin-bottom: 10px; }
    .title { font-size: 24px; margin-bottom: 20px; color: #1f2937; }
    .code-container { background: #f8fafc; border: 2px dashed #e2e8f0; border-radius: 8px; padding: 20px; text-align: center; margin: 20px 0; }
    .verification-code { font-size: 32px; font-weight: bold; color: #6366f1; letter-spacing: 4px; margin: 10px 0; }
    .button { display: inline-block; background: #6366f1; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: 500; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="logo">{{.Brand}}</div>
      <h1 class="title">Confirm your email</h1>
    </div>

    <p>Hi <strong>{{.FirstName}}</strong>,</p>

    <p>Welcome to {{.Brand}}! To finish signing up, you need to confirm your email address.</p>

    <div class="code-container">
      <p><strong>Your verification code:</strong></p>
      <div class="verification-code">{{.Code}}</div>
      <p style="font-size: 14px; color: #6b7280;">This code expires in {{.ExpiryMinutes}} minutes</p>
    </div>

    <p style="text-align: center;">
      <strong>Or click the button below to confirm automatically:</strong>
    </p>

    <div style="text-align: center;">
      <a href="{{.VerifyURL}}" class="button">Confirm email</a>
    </div>

    <p style="font-size: 14px; color: #6b7280; text-align: center; margin-top: 30px;">
      This email was sent to confirm your {{.Brand}} registration.<br>
      If you did not sign up, you can ignore it.
    </p>
  </div>
</body>
</html>
`))

type templateData struct {
	Brand         string
	FirstName     string
	Code          string
	VerifyURL     string
	ExpiryMinutes int
}

func renderVerificationEmail(brand, baseURL, firstName, code, token string, expiry time.Duration) (string, error) {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(token))

	var b strings.Builder
	err := verificationTmpl.Execute(&b, templateData{
		Brand:         brand,
		FirstName:     firstName,
		Code:          code,
		VerifyURL:     verifyURL,
		ExpiryMinutes: int(expiry.Minutes()),
	})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return b.String(), nil
}
