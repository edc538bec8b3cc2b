package router

import (
	"strconv"
	"strings"
)

// Callback tokens are `_`-delimited strings of the form <action>_<args...>.
// Arguments may themselves contain the delimiter (course and review IDs), so
// bindings with trailing fixed-shape arguments parse greedily from the right
// and treat everything between the action prefix and the fixed suffix as one
// opaque argument.

// matchFunc tests a token against one binding's pattern and extracts its
// arguments. Bindings are tried in registration order; the first match wins,
// so patterns sharing a prefix with a less specific variant must be
// registered first.
type matchFunc func(token string) ([]string, bool)

type callbackBinding struct {
	name   string
	match  matchFunc
	handle func(req *request, args []string) (*Response, error)
}

// matchExact matches a literal token with no arguments.
func matchExact(literal string) matchFunc {
	return func(token string) ([]string, bool) {
		if token == literal {
			return nil, true
		}
		return nil, false
	}
}

// matchPrefix matches <prefix><rest> and yields rest as a single argument,
// delimiters and all.
func matchPrefix(prefix string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok || rest == "" {
			return nil, false
		}
		return []string{rest}, true
	}
}

// matchPaginated matches <prefix><arg>_p_<page> where arg may contain the
// delimiter. The page suffix is found from the right so the argument stays
// intact.
func matchPaginated(prefix string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			return nil, false
		}
		i := strings.LastIndex(rest, "_p_")
		if i <= 0 {
			return nil, false
		}
		page := rest[i+len("_p_"):]
		if _, err := strconv.Atoi(page); err != nil {
			return nil, false
		}
		return []string{rest[:i], page}, true
	}
}

// matchExactPaginated matches <literal>_p_<page> with no other arguments.
func matchExactPaginated(literal string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, literal+"_p_")
		if !ok || rest == "" {
			return nil, false
		}
		if _, err := strconv.Atoi(rest); err != nil {
			return nil, false
		}
		return []string{rest}, true
	}
}

// matchRating matches <prefix><dimension>_<1-5>: a known dimension word
// followed by a single rating digit.
func matchRating(prefix string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			return nil, false
		}
		dim, value, ok := strings.Cut(rest, "_")
		if !ok {
			return nil, false
		}
		if len(value) != 1 || value[0] < '1' || value[0] > '5' {
			return nil, false
		}
		return []string{dim, value}, true
	}
}

// matchIDRating matches <prefix><id>_<dimension>_<1-5> where id may contain
// the delimiter: the rating digit and dimension are fixed-width suffix
// components parsed from the right, the rest is the id.
func matchIDRating(prefix string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			return nil, false
		}
		j := strings.LastIndex(rest, "_")
		if j <= 0 {
			return nil, false
		}
		value := rest[j+1:]
		if len(value) != 1 || value[0] < '1' || value[0] > '5' {
			return nil, false
		}
		head := rest[:j]
		i := strings.LastIndex(head, "_")
		if i <= 0 {
			return nil, false
		}
		return []string{head[:i], head[i+1:], value}, true
	}
}

// matchDirectionID matches <prefix><up|down>_<id> where id may contain the
// delimiter. The direction is a known word right after the prefix.
func matchDirectionID(prefix string) matchFunc {
	return func(token string) ([]string, bool) {
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			return nil, false
		}
		direction, id, ok := strings.Cut(rest, "_")
		if !ok || id == "" {
			return nil, false
		}
		if direction != "up" && direction != "down" {
			return nil, false
		}
		return []string{direction, id}, true
	}
}
