package join

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseTarget parses a target expression.
//
//	natural  := natural number
//	location := natural "." natural  // source . column
//	single   := location
//	left     := location "-"
//	right    := "-" location
//	interval := location "-" location
//	range    := interval | right | left | single
//	target   := range {"," range}
func ParseTarget(value string) (Target, error) {
	parts, err := splitList(value)
	if err != nil {
		return nil, fmt.Errorf("parse target %q: %w", value, err)
	}
	target := make(Target, 0, len(parts))
	for _, part := range parts {
		r, err := parseRange(part, parseLocation)
		if err != nil {
			return nil, fmt.Errorf("parse target %q: %w", value, err)
		}
		target = append(target, r)
	}
	return target, nil
}

// ParseColumns parses a target over one source, where a location is a bare
// column number. Every range is addressed to source 1, so the result can be
// passed to SelectColumns with a single row.
//
//	column   := natural
//	range    := column "-" column | "-" column | column "-" | column
//	columns  := range {"," range}
func ParseColumns(value string) (Target, error) {
	parts, err := splitList(value)
	if err != nil {
		return nil, fmt.Errorf("parse columns %q: %w", value, err)
	}
	target := make(Target, 0, len(parts))
	for _, part := range parts {
		r, err := parseRange(part, parseColumn)
		if err != nil {
			return nil, fmt.Errorf("parse columns %q: %w", value, err)
		}
		target = append(target, r)
	}
	return target, nil
}

// ParseJoinKey parses a join key expression.
//
//	natural  := natural number
//	location := natural "." natural  // source . column
//	relation := location "=" location
//	joinkey  := relation {"," relation}
func ParseJoinKey(value string) (JoinKey, error) {
	parts, err := splitList(value)
	if err != nil {
		return nil, fmt.Errorf("parse join key %q: %w", value, err)
	}
	key := make(JoinKey, 0, len(parts))
	for _, part := range parts {
		rel, err := parseRelation(part)
		if err != nil {
			return nil, fmt.Errorf("parse join key %q: %w", value, err)
		}
		key = append(key, rel)
	}
	return key, nil
}

func splitList(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("%w: empty element at position %d", ErrSyntax, i+1)
		}
	}
	return parts, nil
}

func parseRange(s string, parseLoc func(string) (Location, error)) (Range, error) {
	switch strings.Count(s, "-") {
	case 0:
		loc, err := parseLoc(s)
		if err != nil {
			return nil, err
		}
		return Single{Loc: loc}, nil
	case 1:
		left, right, _ := strings.Cut(s, "-")
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		switch {
		case left == "" && right == "":
			return nil, fmt.Errorf("%w: invalid range %q", ErrSyntax, s)
		case left == "":
			loc, err := parseLoc(right)
			if err != nil {
				return nil, err
			}
			return Right{Loc: loc}, nil
		case right == "":
			loc, err := parseLoc(left)
			if err != nil {
				return nil, err
			}
			return Left{Loc: loc}, nil
		}
		return parseInterval(s, left, right, parseLoc)
	default:
		return nil, fmt.Errorf("%w: invalid range %q", ErrSyntax, s)
	}
}

func parseInterval(s, left, right string, parseLoc func(string) (Location, error)) (Interval, error) {
	l, err := parseLoc(left)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	r, err := parseLoc(right)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	return Interval{Left: l, Right: r}, nil
}

func parseRelation(s string) (JoinKeyRelation, error) {
	if strings.Count(s, "=") != 1 {
		return JoinKeyRelation{}, fmt.Errorf("%w: invalid relation %q", ErrSyntax, s)
	}
	left, right, _ := strings.Cut(s, "=")
	rel, err := parseInterval(s, strings.TrimSpace(left), strings.TrimSpace(right), parseLocation)
	if err != nil {
		return JoinKeyRelation{}, err
	}
	if rel.Left.Src == rel.Right.Src {
		return JoinKeyRelation{}, fmt.Errorf("%w: relation %q has the same source on both sides", ErrValidation, s)
	}
	return rel, nil
}

func parseLocation(s string) (Location, error) {
	srcText, colText, ok := strings.Cut(s, ".")
	if !ok {
		return Location{}, fmt.Errorf("%w: invalid location %q", ErrSyntax, s)
	}
	src, err := parseNatural(srcText)
	if err != nil {
		return Location{}, fmt.Errorf("%w: invalid location %q: source %v", ErrSyntax, s, err)
	}
	col, err := parseNatural(colText)
	if err != nil {
		return Location{}, fmt.Errorf("%w: invalid location %q: column %v", ErrSyntax, s, err)
	}
	return Location{Src: src, Col: col}, nil
}

func parseColumn(s string) (Location, error) {
	col, err := parseNatural(s)
	if err != nil {
		return Location{}, fmt.Errorf("%w: invalid column %q: %v", ErrSyntax, s, err)
	}
	return Location{Src: 1, Col: col}, nil
}

// parseNatural accepts decimal digits only and rejects zero.
func parseNatural(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("is empty")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%q is not a number", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%q is not a natural number", s)
	}
	return n, nil
}
