package envelope

import "strings"

// MaskEmail hides all but the first two characters of the local part,
// keeping the domain: "jordan@example.com" -> "jo***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}
	visible := local
	if len(visible) > 2 {
		visible = visible[:2]
	}
	return visible + "***@" + domain
}
