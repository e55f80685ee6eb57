package validation

import "github.com/deppfellow/fnguard/internal/errs"

// violationSet groups failed rules by property, keeping the order in which
// properties were first reported so error output is deterministic.
type violationSet struct {
	order []string
	info  map[string]map[string]string
}

func newViolationSet() *violationSet {
	return &violationSet{info: make(map[string]map[string]string)}
}

func (s *violationSet) add(property, rule, message string) {
	rules, ok := s.info[property]
	if !ok {
		rules = make(map[string]string)
		s.info[property] = rules
		s.order = append(s.order, property)
	}

	// First message for a rule wins (e.g. a slice element failing twice).
	if _, exists := rules[rule]; !exists {
		rules[rule] = message
	}
}

func (s *violationSet) merge(violations []errs.Violation) {
	for _, v := range violations {
		for rule, message := range v.Info {
			s.add(v.Property, rule, message)
		}
	}
}

func (s *violationSet) list() []errs.Violation {
	if len(s.order) == 0 {
		return nil
	}

	out := make([]errs.Violation, 0, len(s.order))
	for _, property := range s.order {
		out = append(out, errs.Violation{
			Property: property,
			Info:     s.info[property],
		})
	}
	return out
}
