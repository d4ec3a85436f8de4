package nav

// Package nav derives the console navigation menu and landing pages from a
// session's role and permission claims. It is the single source of truth for
// the role-matching rule used by both the sidebar and the route guards.

import (
	"github.com/efiling/console/internal/domain/auth"
)

// Entry is one navigation menu item. Roles and Permissions, when set,
// restrict visibility beyond the tier gate: an entry is visible iff it
// declares no restriction, or the session holds at least one listed role,
// or at least one listed permission.
type Entry struct {
	Name        string
	Href        string
	Icon        string
	Roles       []auth.Role
	Permissions []string
}

// tier groups entries for one console audience. A tier contributes its
// entries when the session holds any of the tier roles. Tier order and the
// declaration order of entries within a tier are fixed; they are never
// sorted.
type tier struct {
	Roles   []auth.Role
	Entries []Entry
}

// Menu tiers, in fixed audience order: applicant portal, back office,
// administration.
var tiers = []tier{
	{
		Roles: []auth.Role{auth.RoleExternalUser, auth.RoleExternalInstitutional},
		Entries: []Entry{
			{Name: "Dashboard", Href: "/portal/dashboard", Icon: "layout-dashboard"},
			{Name: "New Submission", Href: "/portal/submit", Icon: "upload"},
			{Name: "My Documents", Href: "/portal/documents", Icon: "file-text"},
			{Name: "Institutional Docs", Href: "/portal/institutional-documents", Icon: "building"},
		},
	},
	{
		Roles: []auth.Role{auth.RoleBackOffice},
		Entries: []Entry{
			{Name: "Dashboard", Href: "/backoffice/dashboard", Icon: "layout-dashboard"},
			{Name: "Pending Approvals", Href: "/backoffice/approvals", Icon: "check-circle"},
			{Name: "Digital Signatures", Href: "/backoffice/signatures", Icon: "file-check"},
			{Name: "Share Documents", Href: "/backoffice/share-document", Icon: "share"},
			{Name: "Document Types", Href: "/backoffice/document-types", Icon: "folder-tree"},
		},
	},
	{
		Roles: []auth.Role{auth.RoleAdministrator},
		Entries: []Entry{
			{Name: "Dashboard", Href: "/admin/dashboard", Icon: "layout-dashboard"},
			{Name: "User Management", Href: "/admin/users", Icon: "user-cog"},
			{Name: "Institutions", Href: "/admin/institutions", Icon: "building"},
			{Name: "Document Types", Href: "/backoffice/document-types", Icon: "folder-tree"},
			{Name: "Forms Management", Href: "/admin/forms", Icon: "file-text"},
			{Name: "Workflows", Href: "/admin/workflows", Icon: "git-branch"},
			{Name: "System Settings", Href: "/admin/settings", Icon: "settings"},
		},
	},
}

// Visible reports whether the session may see the entry. An entry with no
// declared roles or permissions is visible to everyone who reached its tier.
func (e Entry) Visible(s *auth.Session) bool {
	if len(e.Roles) == 0 && len(e.Permissions) == 0 {
		return true
	}
	if s.HasAnyRole(e.Roles...) {
		return true
	}
	for _, p := range e.Permissions {
		if s.HasPermission(p) {
			return true
		}
	}
	return false
}

// Menu returns the navigation entries for the session, tiers concatenated in
// fixed order. A session qualifying for multiple tiers sees the union;
// entries identical in name and href are emitted once.
func Menu(s *auth.Session) []Entry {
	if !s.IsAuthenticated() {
		return nil
	}

	type key struct{ name, href string }
	seen := make(map[key]struct{})

	var out []Entry
	for _, t := range tiers {
		if !s.HasAnyRole(t.Roles...) {
			continue
		}
		for _, e := range t.Entries {
			if !e.Visible(s) {
				continue
			}
			k := key{e.Name, e.Href}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// DefaultLanding returns the post-login destination for the session's most
// privileged role. Non-privileged and unknown role sets land on the portal
// dashboard.
func DefaultLanding(s *auth.Session) string {
	switch {
	case s.HasRole(auth.RoleAdministrator):
		return "/admin/dashboard"
	case s.HasRole(auth.RoleBackOffice):
		return "/backoffice/dashboard"
	default:
		return "/portal/dashboard"
	}
}
