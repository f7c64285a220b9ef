package domain

import (
	"sort"
)

const (
	RoleAdmin = "admin"
)

type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

type Roles map[string]struct{}

func NewRoles(roles ...string) Roles {
	set := make(Roles, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (r Roles) Has(role string) bool {
	_, ok := r[role]
	return ok
}

func (r Roles) List() []string {
	list := make([]string, 0, len(r))
	for role := range r {
		list = append(list, role)
	}
	sort.Strings(list)
	return list
}

type Claims struct {
	Subject string
	Roles   Roles
}

func (c Claims) HasRole(role string) bool {
	return c.Roles.Has(role)
}

type Session struct {
	Sub   string   `json:"sub"`
	Roles []string `json:"roles"`
}
