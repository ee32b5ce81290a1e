package catalog

// DefaultMaxEdits is the edit budget used by FindByText.
const DefaultMaxEdits = 1

// Matcher performs approximate prefix matching with a bounded number of
// single-rune insertions, deletions or substitutions.
//
// A pattern matches a field when it can be aligned with some prefix of the
// field, starting at the field's first rune, within MaxEdits edits. Leading
// runes of the field cannot be skipped, so "oundation" does not match
// "Foundation" while "Foundatin" and "Fondation" do.
type Matcher struct {
	MaxEdits int
}

// Match reports whether pattern matches a prefix of field.
func (m Matcher) Match(pattern, field string) bool {
	p := []rune(pattern)
	f := []rune(field)
	budget := m.MaxEdits
	if budget < 0 {
		budget = 0
	}

	// prev[i] is the cost of aligning p[:i] with f[:j] for the current j.
	prev := make([]int, len(p)+1)
	cur := make([]int, len(p)+1)
	for i := range prev {
		prev[i] = i
	}
	if prev[len(p)] <= budget {
		return true
	}

	// Field runes consumed before any pattern rune would be a leading skip.
	unreachable := budget + 1
	for j := 1; j <= len(f); j++ {
		cur[0] = unreachable
		rowMin := cur[0]
		for i := 1; i <= len(p); i++ {
			cost := 1
			if p[i-1] == f[j-1] {
				cost = 0
			}
			best := prev[i-1] + cost
			if v := prev[i] + 1; v < best {
				best = v
			}
			if v := cur[i-1] + 1; v < best {
				best = v
			}
			if best > unreachable {
				best = unreachable
			}
			cur[i] = best
			if best < rowMin {
				rowMin = best
			}
		}
		if cur[len(p)] <= budget {
			return true
		}
		if rowMin > budget {
			return false
		}
		prev, cur = cur, prev
	}
	return false
}

// Match reports whether pattern matches a prefix of field within DefaultMaxEdits.
func Match(pattern, field string) bool {
	return Matcher{MaxEdits: DefaultMaxEdits}.Match(pattern, field)
}
