package returns

import (
	"regexp"
	"strings"
)

var categoriesPattern = regexp.MustCompile(`(?i)categories such as ([^.\n]+)`)

// defaultForbiddenCategories applies when the policy text does not name
// any non-returnable categories.
var defaultForbiddenCategories = []string{"hygiene", "personal care", "intimate apparel"}

// ForbiddenCategoriesFromPolicy pulls the list of non-returnable product
// categories out of the returns-policy markdown. The policy names them in
// a "categories such as a, b and c" sentence.
func ForbiddenCategoriesFromPolicy(policyText string) []string {
	m := categoriesPattern.FindStringSubmatch(policyText)
	if m == nil {
		return append([]string(nil), defaultForbiddenCategories...)
	}

	raw := strings.ReplaceAll(m[1], " and ", ",")
	raw = strings.ReplaceAll(raw, " or ", ",")

	var out []string
	for _, part := range strings.Split(raw, ",") {
		c := strings.ToLower(strings.TrimSpace(part))
		c = strings.Trim(c, `"'`)
		if c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultForbiddenCategories...)
	}
	return out
}
