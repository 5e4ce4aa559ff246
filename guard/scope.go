package guard

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.com/navguard/navguard"
)

// ScopeService decides which destinations are guarded at all. Trusted
// hosts resume without a check, blocked hosts never resume, everything
// else goes through the engine.
type ScopeService struct {
	trusted []string
	blocked []string
}

// NewScopeService with optional initial host lists
func NewScopeService(trusted, blocked []string) *ScopeService {
	s := &ScopeService{
		trusted: make([]string, 0),
		blocked: make([]string, 0),
	}
	s.AddTrusted(trusted)
	s.AddBlocked(blocked)
	return s
}

// AddTrusted hosts (matched by lowercased hostname)
func (s *ScopeService) AddTrusted(hosts []string) {
	s.trusted = append(s.trusted, mapFunction(hosts, strings.ToLower)...)
}

// AddBlocked hosts
func (s *ScopeService) AddBlocked(hosts []string) {
	s.blocked = append(s.blocked, mapFunction(hosts, strings.ToLower)...)
}

// Check a destination. Blocked wins over trusted; unparseable destinations
// default to guarded so the engine still gets a say.
func (s *ScopeService) Check(rawURL string) navguard.Scope {
	lowered := strings.ToLower(strings.TrimSpace(rawURL))

	host := lowered
	if strings.HasPrefix(lowered, "http") || strings.HasPrefix(lowered, "//") {
		candidate := lowered
		if strings.HasPrefix(lowered, "//") {
			candidate = "http:" + lowered
		}
		u, err := url.Parse(candidate)
		if err != nil {
			log.Warn().Err(err).Str("uri", lowered).Msg("failed to parse URI, treating as guarded")
			return navguard.ScopeGuarded
		}
		host = u.Hostname()
	}

	if includeFunction(s.blocked, host) {
		return navguard.ScopeBlocked
	}
	if includeFunction(s.trusted, host) {
		return navguard.ScopeTrusted
	}
	return navguard.ScopeGuarded
}

func mapFunction(vs []string, f func(string) string) []string {
	vsm := make([]string, len(vs))
	for i, v := range vs {
		vsm[i] = f(v)
	}
	return vsm
}

func indexFunction(vs []string, t string) int {
	for i, v := range vs {
		if v == t {
			return i
		}
	}
	return -1
}

func includeFunction(vs []string, t string) bool {
	return indexFunction(vs, t) >= 0
}
