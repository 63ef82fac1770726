// Package template renders the transactional emails sent to users.
package template

import (
	"bytes"
	"fmt"
	"html/template"

	"anoa.com/eduelevate/pkg/mailer"
)

const layout = `<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #161d29;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px; text-align: center;">
<h2>{{.Title}}</h2>
{{.Body}}
<p style="font-size: 14px; color: #999;">If you have any questions, reach us at <a href="mailto:info@eduelevate.com">info@eduelevate.com</a>.</p>
</div></body></html>`

var (
	layoutTmpl = template.Must(template.New("layout").Parse(layout))

	otpTmpl = template.Must(template.New("otp").Parse(
		`<p>Thank you for registering with EduElevate. Use the following OTP to verify your account:</p>
<h1>{{.OTP}}</h1>
<p>This OTP is valid for {{.Minutes}} minutes.</p>`))

	enrollmentTmpl = template.Must(template.New("enrollment").Parse(
		`<p>Dear {{.Name}},</p>
<p>You have successfully registered for the course <b>"{{.Course}}"</b>. Log in to your dashboard to start learning.</p>`))

	passwordUpdatedTmpl = template.Must(template.New("password_updated").Parse(
		`<p>Hey {{.Name}},</p>
<p>Your password has been successfully updated for the email <b>{{.Email}}</b>.</p>
<p>If you did not request this change, please contact us immediately.</p>`))

	resetLinkTmpl = template.Must(template.New("reset_link").Parse(
		`<p>Click the link below to reset your password. The link expires in {{.Minutes}} minutes.</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>`))

	paymentTmpl = template.Must(template.New("payment").Parse(
		`<p>Dear {{.Name}},</p>
<p>We have received a payment of <b>₹{{.Amount}}</b>.</p>
<p>Payment ID: <b>{{.PaymentID}}</b></p>
<p>Order ID: <b>{{.OrderID}}</b></p>`))
)

func render(to, subject string, body *template.Template, data any) (mailer.Message, error) {
	var inner bytes.Buffer
	if err := body.Execute(&inner, data); err != nil {
		return mailer.Message{}, fmt.Errorf("render %s: %w", body.Name(), err)
	}

	var out bytes.Buffer
	err := layoutTmpl.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: subject, Body: template.HTML(inner.String())})
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render layout: %w", err)
	}

	return mailer.Message{To: to, Subject: subject, HTML: out.String()}, nil
}

func OTPVerification(email, otp string, validMinutes int) (mailer.Message, error) {
	return render(email, "Verification Email from EduElevate", otpTmpl, map[string]any{
		"OTP":     otp,
		"Minutes": validMinutes,
	})
}

func CourseEnrollment(email, name, courseName string) (mailer.Message, error) {
	return render(email, fmt.Sprintf("Successfully Enrolled into %s", courseName), enrollmentTmpl, map[string]any{
		"Name":   name,
		"Course": courseName,
	})
}

func PasswordUpdated(email, name string) (mailer.Message, error) {
	return render(email, "Password for your account has been updated", passwordUpdatedTmpl, map[string]any{
		"Name":  name,
		"Email": email,
	})
}

func PasswordResetLink(email, url string, validMinutes int) (mailer.Message, error) {
	return render(email, "Password Reset Link", resetLinkTmpl, map[string]any{
		"URL":     url,
		"Minutes": validMinutes,
	})
}

// PaymentSuccess takes the amount in paise.
func PaymentSuccess(email, name string, amountPaise int64, orderID, paymentID string) (mailer.Message, error) {
	return render(email, "Payment Received", paymentTmpl, map[string]any{
		"Name":      name,
		"Amount":    fmt.Sprintf("%d.%02d", amountPaise/100, amountPaise%100),
		"OrderID":   orderID,
		"PaymentID": paymentID,
	})
}
