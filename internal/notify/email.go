// Package notify renders transactional emails and hands them to the mail
// relay through a Redis command channel.
package notify

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

// Email is the payload published on EmailChannel.
type Email struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

//go:embed templates/welcome.html
var templateFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templateFS, "templates/welcome.html"))

// WelcomeSubject is the subject line of the talent network welcome email.
const WelcomeSubject = "Welcome to the Talent Network"

// FirstName returns the first word of fullName.
func FirstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// RenderWelcome renders the welcome email body for a new talent profile.
func RenderWelcome(brand, firstName string, departments []string, siteURL string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Brand       string
		FirstName   string
		Departments []string
		SiteURL     string
	}{brand, firstName, departments, siteURL})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
