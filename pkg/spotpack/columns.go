package spotpack

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the logical meaning of a CSV column.
type Role string

const (
	RoleID      Role = "id"
	RoleName    Role = "name"
	RoleLat     Role = "lat"
	RoleLng     Role = "lng"
	RoleAddress Role = "address"
	RoleURL     Role = "url"
	RolePhoto   Role = "photo"
	RoleMemo    Role = "memo"
)

// matcher reports whether a lowercased header name fills a role.
type matcher func(h string) bool

func oneOf(names ...string) matcher {
	return func(h string) bool { return slices.Contains(names, h) }
}

func containsAll(subs ...string) matcher {
	return func(h string) bool {
		for _, s := range subs {
			if !strings.Contains(h, s) {
				return false
			}
		}
		return true
	}
}

var columnRoles = []struct {
	role     Role
	matchers []matcher
}{
	{RoleID, []matcher{oneOf("id", "coordinate_id")}},
	{RoleName, []matcher{oneOf("name", "location name")}},
	{RoleLat, []matcher{oneOf("latitude", "lat")}},
	{RoleLng, []matcher{oneOf("longitude", "lng", "lon")}},
	{RoleAddress, []matcher{containsAll("address")}},
	{RoleURL, []matcher{containsAll("detail", "url")}},
	{RolePhoto, []matcher{containsAll("photo")}},
	{RoleMemo, []matcher{oneOf("memo", "description", "note")}},
}

// Columns maps each detected role to the header that fills it.
type Columns map[Role]string

// DetectColumns picks, for every role, the first header that matches it.
func DetectColumns(headers []string) Columns {
	cols := Columns{}
	for _, cr := range columnRoles {
		for _, h := range headers {
			lh := strings.ToLower(h)
			if slices.ContainsFunc(cr.matchers, func(m matcher) bool { return m(lh) }) {
				cols[cr.role] = h
				break
			}
		}
	}
	return cols
}

// Value returns the raw value of role in fields; absent roles read as "".
func (c Columns) Value(fields map[string]string, role Role) string {
	h, ok := c[role]
	if !ok {
		return ""
	}
	return fields[h]
}

func (c Columns) String() string {
	parts := []string{}
	for _, cr := range columnRoles {
		if h, ok := c[cr.role]; ok {
			parts = append(parts, fmt.Sprintf("%s=%q", cr.role, h))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=-", cr.role))
	}
	return strings.Join(parts, " ")
}
