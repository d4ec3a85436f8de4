package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/efiling/console/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	mapper := StaticRoleMapper{
		AdminGroup:         "efiling-admins",
		BackOfficeGroup:    "efiling-backoffice",
		ExternalGroup:      "efiling-external",
		InstitutionalGroup: "efiling-institutional",
	}

	tests := []struct {
		name   string
		groups []string
		want   []domainauth.Role
	}{
		{
			name:   "admin group",
			groups: []string{"efiling-admins"},
			want:   []domainauth.Role{domainauth.RoleAdministrator},
		},
		{
			name:   "multiple groups accumulate roles",
			groups: []string{"efiling-backoffice", "efiling-admins"},
			want:   []domainauth.Role{domainauth.RoleBackOffice, domainauth.RoleAdministrator},
		},
		{
			name:   "duplicate groups map once",
			groups: []string{"efiling-external", "efiling-external"},
			want:   []domainauth.Role{domainauth.RoleExternalUser},
		},
		{
			name:   "unmapped groups yield nothing",
			groups: []string{"some-other-team"},
			want:   nil,
		},
		{
			name:   "no groups",
			groups: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.Map(tt.groups))
		})
	}
}

func TestStaticRoleMapper_EmptyConfigMapsNothing(t *testing.T) {
	mapper := StaticRoleMapper{}
	assert.Nil(t, mapper.Map([]string{"", "efiling-admins"}))
}
