package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/form"
)

// URL query keys. department and company may repeat.
const (
	ParamDepartment = "department"
	ParamCompany    = "company"
	ParamSearch     = "q"
	ParamPage       = "page"
)

// queryParams mirrors the raw query string. Page stays a string so a
// non-numeric value degrades to the default instead of failing the decode.
type queryParams struct {
	Department []string `form:"department"`
	Company    []string `form:"company"`
	Q          string   `form:"q"`
	Page       string   `form:"page"`
}

var decoder = form.NewDecoder()

// ParseQuery turns URL query values into a valid FilterState. The returned
// state is always usable; a non-nil *ValidationError only lists the
// parameters that were replaced by defaults.
func ParseQuery(values url.Values) (FilterState, error) {
	verr := &ValidationError{}

	var p queryParams
	if err := decoder.Decode(&p, values); err != nil {
		verr.add("decode: %v", err)
		p = queryParams{
			Department: values[ParamDepartment],
			Company:    values[ParamCompany],
			Q:          values.Get(ParamSearch),
			Page:       values.Get(ParamPage),
		}
	}

	for _, d := range p.Department {
		if d == "" {
			verr.add("empty %s value dropped", ParamDepartment)
		}
	}
	for _, c := range p.Company {
		if c == "" {
			verr.add("empty %s value dropped", ParamCompany)
		}
	}

	page := 1
	if raw := strings.TrimSpace(p.Page); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.add("%s=%q is not an integer", ParamPage, raw)
		case n < 1:
			verr.add("%s=%d is below 1", ParamPage, n)
		default:
			page = n
		}
	}

	f := NewFilter(p.Department, p.Company, p.Q, page)
	if len(verr.Problems) > 0 {
		return f, verr
	}
	return f, nil
}

// ParseRawQuery parses a query string (with or without the leading '?').
func ParseRawQuery(raw string) (FilterState, error) {
	values, perr := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	f, err := ParseQuery(values)
	if perr != nil {
		verr := &ValidationError{}
		if ve, ok := err.(*ValidationError); ok {
			verr = ve
		}
		verr.add("query string: %v", perr)
		return f, verr
	}
	return f, err
}

// ParseLocation parses the query part of a path?query location.
func ParseLocation(location string) (FilterState, error) {
	_, query, _ := strings.Cut(location, "?")
	return ParseRawQuery(query)
}

// Encode serializes f as a query string without the leading '?'. Defaults are
// omitted: empty sets, empty search and page 1 produce no parameters, so the
// default state encodes to "".
func Encode(f FilterState) string {
	f = f.Normalize()

	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, d := range f.Departments {
		add(ParamDepartment, d)
	}
	for _, c := range f.Companies {
		add(ParamCompany, c)
	}
	if f.Search != "" {
		add(ParamSearch, f.Search)
	}
	if f.Page > 1 {
		add(ParamPage, strconv.Itoa(f.Page))
	}
	return b.String()
}

// Values is Encode as url.Values, for callers building requests.
func Values(f FilterState) url.Values {
	v, _ := url.ParseQuery(Encode(f))
	return v
}

// Location joins path and the encoded state: "/jobs" or "/jobs?q=go".
func Location(path string, f FilterState) string {
	qs := Encode(f)
	if qs == "" {
		return path
	}
	return path + "?" + qs
}
