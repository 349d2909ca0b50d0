package ui

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePicks parses answers like "1,3 5-7" or "all" against n options and
// returns 0-based indexes without duplicates.
func ParsePicks(input string, n int) ([]int, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return nil, nil
	}
	if input == "all" || input == "*" {
		res := make([]int, n)
		for i := range res {
			res[i] = i
		}
		return res, nil
	}

	seen := map[int]bool{}
	res := []int{}
	add := func(i int) error {
		if i < 1 || i > n {
			return fmt.Errorf("%d is not between 1 and %d", i, n)
		}
		if !seen[i-1] {
			seen[i-1] = true
			res = append(res, i-1)
		}
		return nil
	}
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		from, to, isRange := strings.Cut(f, "-")
		a, err := strconv.Atoi(from)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", from)
		}
		if !isRange {
			if err := add(a); err != nil {
				return nil, err
			}
			continue
		}
		b, err := strconv.Atoi(to)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", to)
		}
		if b < a {
			return nil, fmt.Errorf("range %s goes backwards", f)
		}
		for i := a; i <= b; i++ {
			if err := add(i); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}
