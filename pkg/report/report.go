// Package report renders the forecast report email.
package report

import (
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Subject is the fixed subject line for every report email.
const Subject = "Your Marketing Forecast Report"

// Services mirrors the widget's service-selection block.
type Services struct {
	EmailsPerMonth int     `json:"emailsPerMonth"`
	SocialChannels string  `json:"socialChannels"`
	Maintenance    bool    `json:"maintenance"`
	SEO            bool    `json:"seo"`
	AdSpend        float64 `json:"adSpend"`
}

// Request is the inbound report payload: the usage-event fields plus the
// profit figures the widget computed client-side.
type Request struct {
	UserName         string   `json:"userName"`
	UserEmail        string   `json:"userEmail"`
	Company          string   `json:"company"`
	EquipmentTypes   []string `json:"equipmentTypes"`
	SaleValue        float64  `json:"saleValue"`
	Margin           float64  `json:"margin"`
	MonthlySpend     float64  `json:"monthlySpend"`
	ProjectedNetGain float64  `json:"projectedNetGain"`
	CurrentProfit    float64  `json:"currentProfit"`
	ProjectedProfit  float64  `json:"projectedProfit"`
	Services         Services `json:"services"`
}

// Currency formats a dollar amount rounded to whole units with thousands
// separators: 1234.6 -> "$1,235".
func Currency(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// Percent renders a percentage without trailing zeros: 12.5 -> "12.5%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// YesNo renders a boolean selection the way the widget displays it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"currency": Currency,
	"percent":  Percent,
	"yesno":    YesNo,
	"join":     func(s []string) string { return strings.Join(s, ", ") },
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 640px; margin: 0 auto;">
  <h1 style="color: #1a3c6e;">Your Marketing Forecast</h1>
  <p>Hi {{.UserName}},</p>
  <p>Here is the forecast you generated{{if .Company}} for {{.Company}}{{end}}.</p>

  <h2>Your Business</h2>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><td><strong>Equipment types</strong></td><td>{{join .EquipmentTypes}}</td></tr>
    <tr><td><strong>Average sale value</strong></td><td>{{currency .SaleValue}}</td></tr>
    <tr><td><strong>Margin</strong></td><td>{{percent .Margin}}</td></tr>
    <tr><td><strong>Monthly marketing spend</strong></td><td>{{currency .MonthlySpend}}</td></tr>
  </table>

  <h2>Selected Services</h2>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><td><strong>Emails per month</strong></td><td>{{.Services.EmailsPerMonth}}</td></tr>
    <tr><td><strong>Social channels</strong></td><td>{{.Services.SocialChannels}}</td></tr>
    <tr><td><strong>Website maintenance</strong></td><td>{{yesno .Services.Maintenance}}</td></tr>
    <tr><td><strong>SEO</strong></td><td>{{yesno .Services.SEO}}</td></tr>
    <tr><td><strong>Ad spend</strong></td><td>{{currency .Services.AdSpend}}</td></tr>
  </table>

  <h2>Forecast</h2>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><td><strong>Current monthly profit</strong></td><td>{{currency .CurrentProfit}}</td></tr>
    <tr><td><strong>Projected monthly profit</strong></td><td>{{currency .ProjectedProfit}}</td></tr>
    <tr><td><strong>Projected net gain</strong></td><td>{{currency .ProjectedNetGain}}</td></tr>
  </table>

  <p style="margin-top: 24px;">Questions? Just reply to this email.</p>
</body>
</html>`))

// Render produces the HTML email body for a report request.
func Render(req Request) (string, error) {
	var sb strings.Builder
	if err := reportTmpl.Execute(&sb, req); err != nil {
		return "", err
	}
	return sb.String(), nil
}
