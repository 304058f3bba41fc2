package listing

import (
	"time"

	"github.com/google/uuid"
)

// DemoPostings returns a small fixed catalogue for STORE_DRIVER=memory.
func DemoPostings(now time.Time) []Posting {
	type row struct{ title, company, slug, dept, location string }
	rows := []row{
		{"Senior Backend Engineer", "Acme Robotics", "acme-robotics", "Engineering", "Remote, US"},
		{"Frontend Engineer", "Acme Robotics", "acme-robotics", "Engineering", "Boston, MA"},
		{"Product Manager, Platform", "Acme Robotics", "acme-robotics", "Product", "Boston, MA"},
		{"Data Engineer", "Brightline Health", "brightline-health", "Data", "New York, NY"},
		{"Account Executive", "Brightline Health", "brightline-health", "Sales", "Remote, US"},
		{"Product Designer", "Cobalt Finance", "cobalt-finance", "Design", "London, UK"},
		{"Site Reliability Engineer", "Cobalt Finance", "cobalt-finance", "Engineering", "Remote, EU"},
		{"Financial Controller", "Cobalt Finance", "cobalt-finance", "Finance", "London, UK"},
		{"Customer Success Manager", "Driftwood Labs", "driftwood-labs", "Customer Success", "Austin, TX"},
		{"Head of People", "Driftwood Labs", "driftwood-labs", "People", "Austin, TX"},
		{"Growth Marketing Lead", "Evergreen Energy", "evergreen-energy", "Marketing", "Denver, CO"},
		{"Operations Analyst", "Evergreen Energy", "evergreen-energy", "Operations", "Remote, US"},
	}

	out := make([]Posting, 0, len(rows))
	for i, r := range rows {
		out = append(out, Posting{
			ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.slug+"/"+r.title)).String(),
			Title:         r.title,
			CompanyName:   r.company,
			CompanySlug:   r.slug,
			DepartmentTag: r.dept,
			Location:      r.location,
			URL:           "https://jobs.example.com/" + r.slug,
			CreatedAt:     now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}
