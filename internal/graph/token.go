package graph

import (
	"strconv"
	"strings"
)

// ParseToken parses a compact precedence token such as "205FS+3" or "130-2"
// into an edge ending at successorID.
//
// The token is a predecessor id, an optional relationship code (FS, SS, FF,
// SF; FS when absent) and an optional signed lag introduced by the first '+'
// or '-'. It reports false for tokens without a leading id.
func ParseToken(token string, successorID int) (Edge, bool) {
	s := strings.TrimLeft(token, " \t\r\n")

	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return Edge{}, false
	}
	pred, err := strconv.Atoi(s[:i])
	if err != nil {
		return Edge{}, false
	}

	e := Edge{PredID: pred, SuccID: successorID, Type: FS}
	rest := s[i:]

	code := strings.TrimLeft(rest, " ")
	if len(code) >= 2 {
		if t, ok := ParseRelType(code[:2]); ok {
			e.Type = t
			rest = code[2:]
		}
	}

	if k := strings.IndexAny(rest, "+-"); k >= 0 {
		sign := 1.0
		if rest[k] == '-' {
			sign = -1
		}
		j := k + 1
		for j < len(rest) && rest[j] == ' ' {
			j++
		}
		start := j
		for j < len(rest) && isDigit(rest[j]) {
			j++
		}
		if j > start {
			if v, err := strconv.ParseFloat(rest[start:j], 64); err == nil && v != 0 {
				e.Lag = sign * v
			}
		}
	}

	return e, true
}

// ParseTokens splits a predecessor list on commas and semicolons and parses
// each piece. Pieces that do not parse are skipped.
func ParseTokens(list string, successorID int) []Edge {
	pieces := strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' })
	var edges []Edge
	for _, p := range pieces {
		if e, ok := ParseToken(p, successorID); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
