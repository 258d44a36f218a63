package parser

import "strings"

// Registry resolves a free-text bank-name hint to a bank-specific parser. The
// bank set is small, known, and rarely extended, so it is a closed table
// dispatched through one resolution function rather than open-ended plugins.
type Registry struct {
	parsers []*BankParser
}

// NewRegistry builds the registry with every supported bank, in the order the
// specs are declared. Substring resolution depends on that order.
func NewRegistry() *Registry {
	parsers := make([]*BankParser, 0, len(bankSpecs))
	for _, spec := range bankSpecs {
		parsers = append(parsers, &BankParser{spec: spec})
	}
	return &Registry{parsers: parsers}
}

// Resolve matches a bank-name hint against the known banks: first an exact
// case-insensitive comparison, then a bidirectional substring test in
// registration order. No match means the caller should use the fallback; an
// unknown bank is not an error.
func (r *Registry) Resolve(bankName string) (*BankParser, bool) {
	needle := strings.ToLower(strings.TrimSpace(bankName))
	if needle == "" {
		return nil, false
	}

	for _, p := range r.parsers {
		if strings.ToLower(p.spec.name) == needle {
			return p, true
		}
	}

	for _, p := range r.parsers {
		canonical := strings.ToLower(p.spec.name)
		if strings.Contains(needle, canonical) || strings.Contains(canonical, needle) {
			return p, true
		}
	}

	return nil, false
}

// SupportedBanks returns the canonical bank names for UI and configuration
// use outside this core.
func (r *Registry) SupportedBanks() []string {
	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		names = append(names, p.spec.name)
	}
	return names
}
