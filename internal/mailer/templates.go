package mailer

import (
	"fmt"
	"html"
	"net/url"
	"time"
)

// PasswordReset renders the reset-link email.
func PasswordReset(appName, toName, toEmail, resetURL, token string, ttl time.Duration) Message {
	link := resetURL + "?token=" + url.QueryEscape(token)
	minutes := int(ttl.Minutes())

	text := fmt.Sprintf(
		"مرحباً %s،\n\nتلقينا طلباً لإعادة تعيين كلمة المرور لحسابك في %s.\n"+
			"لإعادة التعيين افتح الرابط التالي خلال %d دقيقة:\n%s\n\n"+
			"إذا لم تطلب ذلك فتجاهل هذه الرسالة.",
		toName, appName, minutes, link)

	body := fmt.Sprintf(
		`<div dir="rtl"><p>مرحباً %s،</p><p>تلقينا طلباً لإعادة تعيين كلمة المرور لحسابك في %s.</p>`+
			`<p><a href="%s">إعادة تعيين كلمة المرور</a> (صالح لمدة %d دقيقة)</p>`+
			`<p>إذا لم تطلب ذلك فتجاهل هذه الرسالة.</p></div>`,
		html.EscapeString(toName), html.EscapeString(appName), html.EscapeString(link), minutes)

	return Message{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: appName + " - إعادة تعيين كلمة المرور",
		Text:    text,
		HTML:    body,
	}
}
