package talent

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"

	"jobmate/directory-service/internal/listing"
)

// JoinRequest is the text part of the sign-up form.
type JoinRequest struct {
	FullName    string   `form:"full_name" validate:"required,max=200"`
	Email       string   `form:"email" validate:"required,email,max=320"`
	LinkedInURL string   `form:"linkedin_url" validate:"omitempty,url,max=500"`
	Location    string   `form:"location" validate:"omitempty,max=200"`
	Departments []string `form:"-" validate:"required,min=1,dive,department"`

	// Honeypot. Hidden from people, filled in by bots.
	CompanyURL string `form:"company_url" validate:"-"`
}

var (
	formDecoder = form.NewDecoder()
	validate    = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return listing.IsDepartmentTag(fl.Field().String())
	})
	return v
}

// DecodeJoinRequest reads the text fields of a submitted form. departments
// is a JSON array of department tags.
func DecodeJoinRequest(values map[string][]string) (JoinRequest, error) {
	var req JoinRequest
	if err := formDecoder.Decode(&req, values); err != nil {
		return req, &ValidationError{Msg: "Invalid form submission."}
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.LinkedInURL = strings.TrimSpace(req.LinkedInURL)
	req.Location = strings.TrimSpace(req.Location)

	if raw := strings.TrimSpace(first(values["departments"])); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Departments); err != nil {
			return req, &ValidationError{Msg: MsgDepartmentsFormat}
		}
	}
	return req, nil
}

// IsSpam reports whether the honeypot field was filled in.
func (r JoinRequest) IsSpam() bool {
	return strings.TrimSpace(r.CompanyURL) != ""
}

// Validate checks r and returns a *ValidationError naming the first problem.
func (r JoinRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Msg: "Invalid form submission."}
	}

	fe := verrs[0]
	field, _, _ := strings.Cut(fe.StructField(), "[")
	switch field {
	case "FullName":
		if fe.Tag() == "max" {
			return &ValidationError{Msg: MsgFieldTooLong}
		}
		return &ValidationError{Msg: MsgFullNameRequired}
	case "Email":
		return &ValidationError{Msg: MsgEmailInvalid}
	case "LinkedInURL":
		return &ValidationError{Msg: MsgLinkedInInvalid}
	case "Departments":
		return &ValidationError{Msg: MsgDepartmentsInvalid}
	default:
		return &ValidationError{Msg: MsgFieldTooLong}
	}
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
