package schedule

// CompletionSet holds the YYYY-MM-DD keys of completed days for one plan.
type CompletionSet map[string]struct{}

func NewCompletionSet(dates ...string) CompletionSet {
	s := make(CompletionSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s CompletionSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s CompletionSet) Add(date string) {
	s[date] = struct{}{}
}

func (s CompletionSet) Remove(date string) {
	delete(s, date)
}

// Toggle flips the mark for date and reports whether it is now set.
func (s CompletionSet) Toggle(date string) bool {
	if s.Has(date) {
		delete(s, date)
		return false
	}
	s[date] = struct{}{}
	return true
}

func (s CompletionSet) Len() int {
	return len(s)
}

func (s CompletionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
