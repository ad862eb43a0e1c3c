package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

type welcomeCopy struct {
	Subject   string
	Branch    string
	Heading   string
	Greeting  string
	Intro     string
	Expect    string
	Items     []string
	TipTitle  string
	Tip       string
	CTA       string
	Follow    string
	Rights    string
	OptOut    string
	OptOutSub string
}

var welcomeCopies = map[string]welcomeCopy{
	"tr": {
		Subject:  "🎉 IEEE ESTU Bültenine Hoş Geldiniz!",
		Branch:   "Eskişehir Teknik Üniversitesi Öğrenci Kolu",
		Heading:  "Hoş Geldiniz! 🎉",
		Greeting: "Merhaba,",
		Intro:    "IEEE ESTU bültenine abone olduğunuz için teşekkür ederiz! Artık teknoloji ve mühendislik dünyasından en güncel haberler, etkinlikler ve fırsatlar sizinle olacak.",
		Expect:   "Neler Bekleyebilirsiniz?",
		Items: []string{
			"🎯 Yaklaşan workshop ve seminer duyuruları",
			"🏆 Yarışma ve proje fırsatları",
			"📚 Teknik blog yazıları ve kaynaklar",
			"🤝 Networking etkinlikleri",
			"🎓 Kariyer gelişim fırsatları",
		},
		TipTitle:  "💡 İpucu:",
		Tip:       "Web sitemizi ziyaret ederek tüm etkinliklerimizi inceleyebilir ve hemen katılabilirsiniz!",
		CTA:       "Web Sitemizi Ziyaret Edin",
		Follow:    "Sosyal medyada takip edin:",
		Rights:    "Tüm hakları saklıdır.",
		OptOut:    "Bu e-postayı almak istemiyorsanız, lütfen bizimle iletişime geçin.",
		OptOutSub: "Bülten Aboneliğinden Çık",
	},
	"en": {
		Subject:  "🎉 Welcome to IEEE ESTU Newsletter!",
		Branch:   "Eskisehir Technical University Student Branch",
		Heading:  "Welcome! 🎉",
		Greeting: "Hello,",
		Intro:    "Thank you for subscribing to the IEEE ESTU newsletter! You'll now receive the latest news, events, and opportunities from the world of technology and engineering.",
		Expect:   "What to Expect?",
		Items: []string{
			"🎯 Upcoming workshop and seminar announcements",
			"🏆 Competition and project opportunities",
			"📚 Technical blog posts and resources",
			"🤝 Networking events",
			"🎓 Career development opportunities",
		},
		TipTitle:  "💡 Tip:",
		Tip:       "Visit our website to explore all our events and join right away!",
		CTA:       "Visit Our Website",
		Follow:    "Follow us on social media:",
		Rights:    "All rights reserved.",
		OptOut:    "If you no longer wish to receive these emails, please contact us.",
		OptOutSub: "Unsubscribe from Newsletter",
	},
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
  </head>
  <body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;margin:0 auto;padding:20px;">
    <div style="background:linear-gradient(135deg,#00629B 0%,#004f7c 100%);padding:40px 20px;text-align:center;border-radius:10px 10px 0 0;">
      <h1 style="color:white;margin:0;font-size:28px;">IEEE ESTU</h1>
      <p style="color:#E0F2FE;margin:10px 0 0 0;">{{.Copy.Branch}}</p>
    </div>
    <div style="background:white;padding:40px 30px;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 10px 10px;">
      <h2 style="color:#00629B;margin-top:0;">{{.Copy.Heading}}</h2>
      <p>{{.Copy.Greeting}}</p>
      <p>{{.Copy.Intro}}</p>
      <h3 style="color:#00629B;font-size:18px;margin-top:30px;">{{.Copy.Expect}}</h3>
      <ul style="padding-left:20px;">
        {{range .Copy.Items}}<li style="margin-bottom:10px;">{{.}}</li>
        {{end}}
      </ul>
      <div style="background:#F3F4F6;padding:20px;border-radius:8px;margin:30px 0;">
        <p style="margin:0;font-weight:600;color:#00629B;">{{.Copy.TipTitle}}</p>
        <p style="margin:10px 0 0 0;font-size:14px;">{{.Copy.Tip}}</p>
      </div>
      <div style="text-align:center;margin-top:30px;">
        <a href="{{.SiteURL}}" style="display:inline-block;background:#00629B;color:white;padding:12px 30px;text-decoration:none;border-radius:6px;font-weight:600;">{{.Copy.CTA}}</a>
      </div>
      <div style="margin-top:40px;padding-top:20px;border-top:1px solid #e5e7eb;">
        <p style="font-size:14px;color:#6B7280;margin:0;">{{.Copy.Follow}}</p>
        <div style="margin-top:15px;">
          <a href="https://www.instagram.com/ieee.estu/" style="color:#00629B;text-decoration:none;margin-right:15px;">Instagram</a>
          <a href="https://www.linkedin.com/company/ieee-estu/" style="color:#00629B;text-decoration:none;margin-right:15px;">LinkedIn</a>
          <a href="https://twitter.com/ieeeestu" style="color:#00629B;text-decoration:none;margin-right:15px;">Twitter</a>
          <a href="https://medium.com/@ieee-estu" style="color:#00629B;text-decoration:none;">Medium</a>
        </div>
      </div>
    </div>
    <div style="text-align:center;padding:20px;font-size:12px;color:#9CA3AF;">
      <p>© {{.Year}} IEEE ESTU. {{.Copy.Rights}}</p>
      <p style="margin-top:10px;"><a href="mailto:ieee.estu@gmail.com?subject={{.Copy.OptOutSub}}" style="color:#00629B;">{{.Copy.OptOut}}</a></p>
    </div>
  </body>
</html>`))

// RenderWelcome, locale'e göre hoş geldin emailinin konu ve HTML'ini üretir.
// "tr" dışındaki her locale İngilizce şablonu alır.
func RenderWelcome(locale, siteURL string) (subject, html string, err error) {
	c, ok := welcomeCopies[locale]
	if !ok {
		c = welcomeCopies["en"]
	}
	if siteURL == "" {
		siteURL = "https://ieeeestu.org"
	}

	var buf bytes.Buffer
	err = welcomeTemplate.Execute(&buf, struct {
		Copy    welcomeCopy
		SiteURL string
		Year    int
	}{c, siteURL, time.Now().Year()})
	if err != nil {
		return "", "", fmt.Errorf("failed to render welcome email: %w", err)
	}

	return c.Subject, buf.String(), nil
}
