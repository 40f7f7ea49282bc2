package service

// AdminList is the deployment-time admin allow-list. Membership is an
// exact, case-sensitive string match; no domain or pattern matching.
type AdminList struct {
	emails map[string]struct{}
}

// NewAdminList builds the gate from configuration. An empty list admits
// nobody.
func NewAdminList(emails []string) *AdminList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return &AdminList{emails: set}
}

// IsAdmin reports whether email is byte-identical to a listed entry.
func (a *AdminList) IsAdmin(email string) bool {
	_, ok := a.emails[email]
	return ok
}
