// Package linkpolicy rejects links whose pages are known to be unextractable.
package linkpolicy

import "strings"

// DefaultSkipDomains covers mobile redirect pages and proxies whose body
// cannot be downloaded.
var DefaultSkipDomains = []string{
	"n.news",
	"news.ifm.kr",
	"www.dnews.co.kr",
}

type Policy struct {
	skip []string
}

// New builds a policy from substrings; empty entries are ignored.
// A nil slice falls back to DefaultSkipDomains.
func New(skip []string) *Policy {
	if skip == nil {
		skip = DefaultSkipDomains
	}
	p := &Policy{}
	for _, s := range skip {
		if s = strings.TrimSpace(s); s != "" {
			p.skip = append(p.skip, s)
		}
	}
	return p
}

// Allowed reports whether link is worth fetching.
func (p *Policy) Allowed(link string) bool {
	if strings.TrimSpace(link) == "" {
		return false
	}
	for _, s := range p.skip {
		if strings.Contains(link, s) {
			return false
		}
	}
	return true
}
