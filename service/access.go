package service

import (
	"strings"

	"bff-gateway/domain"
)

type AccessPolicy struct {
	securePrefix       string
	adminPrefix        string
	adminEnforced      bool
	authenticatedPaths map[string]bool
}

func NewAccessPolicy(securePrefix string, adminPrefix string, adminEnforced bool, authenticatedPaths ...string) AccessPolicy {
	paths := make(map[string]bool, len(authenticatedPaths))
	for _, path := range authenticatedPaths {
		paths[path] = true
	}
	return AccessPolicy{
		securePrefix:       securePrefix,
		adminPrefix:        adminPrefix,
		adminEnforced:      adminEnforced,
		authenticatedPaths: paths,
	}
}

func (p AccessPolicy) Access(path string) domain.Access {
	switch {
	case underNamespace(path, p.adminPrefix) && p.adminEnforced:
		return domain.AccessAdmin
	case underNamespace(path, p.securePrefix), p.authenticatedPaths[path]:
		return domain.AccessAuthenticated
	default:
		return domain.AccessPublic
	}
}

func underNamespace(path string, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
