package listing

// DepartmentTags is the fixed set of department tags postings are filed under.
// The talent network sign-up validates interests against the same list.
var DepartmentTags = []string{
	"Engineering",
	"Product",
	"Design",
	"Data",
	"Marketing",
	"Sales",
	"Customer Success",
	"Operations",
	"Finance",
	"People",
	"Legal",
}

var departmentSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(DepartmentTags))
	for _, t := range DepartmentTags {
		m[t] = struct{}{}
	}
	return m
}()

// IsDepartmentTag reports whether tag is one of DepartmentTags (case-sensitive).
func IsDepartmentTag(tag string) bool {
	_, ok := departmentSet[tag]
	return ok
}
