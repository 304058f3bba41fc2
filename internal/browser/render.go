package browser

import (
	"fmt"
	"io"
	"strings"

	"jobmate/directory-service/internal/listing"
)

// Render writes v as plain text.
func Render(w io.Writer, v listing.View) {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", v.Location)
	if v.Error != "" {
		fmt.Fprintf(&b, "! %s\n", v.Error)
	}
	if v.Notice != "" {
		fmt.Fprintf(&b, "~ %s\n", v.Notice)
	}
	if v.Search != "" {
		fmt.Fprintf(&b, "search: %q\n", v.Search)
	}

	b.WriteString("departments:")
	for _, c := range v.Departments {
		b.WriteString(" " + choice(c))
	}
	b.WriteByte('\n')
	if len(v.Companies) > 0 {
		b.WriteString("companies:")
		for _, c := range v.Companies {
			b.WriteString(" " + choice(c))
		}
		b.WriteByte('\n')
	}

	if v.Loading {
		b.WriteString("loading...\n")
	}

	b.WriteByte('\n')
	if v.Empty() {
		fmt.Fprintf(&b, "  %s\n", v.EmptyText())
	}
	for i, p := range v.Items {
		n := (v.Filter.Page-1)*listing.PageSize + i + 1
		fmt.Fprintf(&b, "%4d. %s | %s", n, p.Title, p.CompanyName)
		if p.Location != "" {
			fmt.Fprintf(&b, " | %s", p.Location)
		}
		if p.DepartmentTag != "" {
			fmt.Fprintf(&b, " [%s]", p.DepartmentTag)
		}
		b.WriteByte('\n')
	}

	if v.Pagination.Visible {
		fmt.Fprintf(&b, "\n%s", v.Pagination.Label())
		if v.Pagination.HasPrev {
			b.WriteString("  (prev)")
		}
		if v.Pagination.HasNext {
			b.WriteString("  (next)")
		}
		b.WriteByte('\n')
	}

	_, _ = io.WriteString(w, b.String())
}

func choice(c listing.Choice) string {
	if c.Selected {
		return "[x]" + c.Value
	}
	return "[ ]" + c.Value
}
