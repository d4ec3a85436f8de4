package authroles

import (
	domainauth "github.com/efiling/console/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to console role claims by simple string
// membership rules. A user in more than one mapped group accumulates every
// matching role.
type StaticRoleMapper struct {
	AdminGroup         string
	BackOfficeGroup    string
	ExternalGroup      string
	InstitutionalGroup string
}

func (m StaticRoleMapper) Map(groups []string) []domainauth.Role {
	var roles []domainauth.Role
	for _, g := range groups {
		switch {
		case m.AdminGroup != "" && g == m.AdminGroup:
			roles = appendRole(roles, domainauth.RoleAdministrator)
		case m.BackOfficeGroup != "" && g == m.BackOfficeGroup:
			roles = appendRole(roles, domainauth.RoleBackOffice)
		case m.ExternalGroup != "" && g == m.ExternalGroup:
			roles = appendRole(roles, domainauth.RoleExternalUser)
		case m.InstitutionalGroup != "" && g == m.InstitutionalGroup:
			roles = appendRole(roles, domainauth.RoleExternalInstitutional)
		}
	}
	return roles
}

func appendRole(roles []domainauth.Role, role domainauth.Role) []domainauth.Role {
	for _, r := range roles {
		if r == role {
			return roles
		}
	}
	return append(roles, role)
}
