package listing

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

// ─── Intents ─────────────────────────────────────────────────────────────────

// IntentKind names a user action the view can emit.
type IntentKind int

const (
	IntentSetDepartments IntentKind = iota + 1
	IntentSetCompanies
	IntentSetSearch
	IntentSetPage
)

func (k IntentKind) String() string {
	switch k {
	case IntentSetDepartments:
		return "set-departments"
	case IntentSetCompanies:
		return "set-companies"
	case IntentSetSearch:
		return "set-search"
	case IntentSetPage:
		return "set-page"
	default:
		return fmt.Sprintf("intent(%d)", int(k))
	}
}

// Intent is a requested change to the filter. Only the field matching Kind is
// read: Values for the two set kinds, Text for search, Page for paging.
type Intent struct {
	Kind   IntentKind
	Values []string
	Text   string
	Page   int
}

// Apply returns the state the intent asks for. Set and search intents reset
// the page; a page intent changes nothing else.
func (i Intent) Apply(f FilterState) FilterState {
	switch i.Kind {
	case IntentSetDepartments:
		return f.WithDepartments(i.Values)
	case IntentSetCompanies:
		return f.WithCompanies(i.Values)
	case IntentSetSearch:
		return f.WithSearch(i.Text)
	case IntentSetPage:
		return f.WithPage(i.Page)
	default:
		return f
	}
}

// ─── View model ──────────────────────────────────────────────────────────────

// Choice is one checkbox of the department or company filter. Intent toggles
// the choice; Href is the location the toggled state lives at.
type Choice struct {
	Value    string
	Label    string
	Selected bool
	Intent   Intent
	Href     string
}

// Pagination is hidden when there is at most one page.
type Pagination struct {
	Visible  bool
	Current  int
	Total    int
	HasPrev  bool
	HasNext  bool
	Prev     Intent
	Next     Intent
	PrevHref string
	NextHref string
}

// Label renders "Page X of Y".
func (p Pagination) Label() string {
	return fmt.Sprintf("Page %d of %d", p.Current, p.Total)
}

// View is everything needed to draw the listing. It holds no state of its
// own; build a new one whenever the inputs change.
type View struct {
	Filter      FilterState
	Search      string
	Departments []Choice
	Companies   []Choice
	Items       []Posting
	TotalCount  int
	Loading     bool
	Notice      string
	Error       string
	Pagination  Pagination
	Location    string
	BasePath    string
}

// EmptyText is shown in place of result cards when the page has no items.
const EmptyText = "No jobs found matching your filters."

// Empty reports whether the empty-state text should be shown.
func (v View) Empty() bool { return len(v.Items) == 0 }

// EmptyText exposes the empty-state text to templates.
func (v View) EmptyText() string { return EmptyText }

// BuildView derives the view for (f, r, loading, companies). basePath is the
// listing route used for every generated link.
func BuildView(basePath string, f FilterState, r ResultPage, loading bool, companies []CompanyOption) View {
	f = f.Normalize()

	v := View{
		Filter:     f,
		Search:     f.Search,
		Items:      r.Items,
		TotalCount: r.TotalCount,
		Loading:    loading,
		Location:   Location(basePath, f),
		BasePath:   basePath,
	}
	if v.Items == nil {
		v.Items = []Posting{}
	}

	v.Departments = make([]Choice, 0, len(DepartmentTags))
	for _, tag := range DepartmentTags {
		next := f.ToggleDepartment(tag)
		v.Departments = append(v.Departments, Choice{
			Value:    tag,
			Label:    tag,
			Selected: f.HasDepartment(tag),
			Intent:   Intent{Kind: IntentSetDepartments, Values: next.Departments},
			Href:     Location(basePath, next),
		})
	}

	v.Companies = make([]Choice, 0, len(companies))
	for _, c := range companies {
		next := f.ToggleCompany(c.Slug)
		v.Companies = append(v.Companies, Choice{
			Value:    c.Slug,
			Label:    c.Name,
			Selected: f.HasCompany(c.Slug),
			Intent:   Intent{Kind: IntentSetCompanies, Values: next.Companies},
			Href:     Location(basePath, next),
		})
	}

	total := r.TotalPages()
	p := Pagination{
		Visible: total > 1,
		Current: f.Page,
		Total:   total,
		HasPrev: f.Page > 1,
		HasNext: f.Page < total,
	}
	if p.HasPrev {
		p.Prev = Intent{Kind: IntentSetPage, Page: f.Page - 1}
		p.PrevHref = Location(basePath, f.WithPage(f.Page-1))
	}
	if p.HasNext {
		p.Next = Intent{Kind: IntentSetPage, Page: f.Page + 1}
		p.NextHref = Location(basePath, f.WithPage(f.Page+1))
	}
	v.Pagination = p

	return v
}

// WithLoadError returns v carrying the page-level message for err.
func (v View) WithLoadError(err *LoadError) View {
	if err != nil {
		v.Error = err.Message()
	}
	return v
}

// ─── HTML ────────────────────────────────────────────────────────────────────

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("jobs.html").Funcs(template.FuncMap{
	"date": func(p Posting) string {
		if p.CreatedAt.IsZero() {
			return ""
		}
		return p.CreatedAt.Format("Jan 2, 2006")
	},
}).ParseFS(templateFS, "templates/jobs.html"))

// RenderHTML writes the listing page for v.
func RenderHTML(w io.Writer, v View) error {
	return pageTemplate.Execute(w, v)
}
