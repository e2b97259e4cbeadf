package keycloak

import "strings"

const (
	realmsSeparator = "/realms/"
	fallbackRealm   = "master"
)

// SplitAuthServerURL derives the base URL and realm from a legacy
// "{base}/realms/{realm}" setting. When the separator is missing the whole
// URL is taken as the base, the realm falls back to "master" and ok is false.
func SplitAuthServerURL(authServerURL string) (base, realm string, ok bool) {
	u := strings.TrimSpace(authServerURL)
	idx := strings.Index(u, realmsSeparator)
	if idx < 0 {
		return strings.TrimRight(u, "/"), fallbackRealm, false
	}

	base = strings.TrimRight(u[:idx], "/")
	realm = u[idx+len(realmsSeparator):]
	if slash := strings.IndexByte(realm, '/'); slash >= 0 {
		realm = realm[:slash]
	}
	if realm == "" {
		return base, fallbackRealm, false
	}
	return base, realm, true
}

// ResolveEndpoint picks the provider base URL and realm. Explicit settings
// win; missing values come from the legacy authServerURL. fellBack is true
// when the realm ended up as "master" because nothing named one.
func ResolveEndpoint(baseURL, realm, authServerURL string) (base, resolvedRealm string, fellBack bool) {
	base, resolvedRealm = strings.TrimRight(strings.TrimSpace(baseURL), "/"), strings.TrimSpace(realm)
	if base != "" && resolvedRealm != "" {
		return base, resolvedRealm, false
	}

	legacyBase, legacyRealm, ok := SplitAuthServerURL(authServerURL)
	if base == "" {
		base = legacyBase
	}
	if resolvedRealm == "" {
		resolvedRealm = legacyRealm
		fellBack = !ok
	}
	return base, resolvedRealm, fellBack
}
