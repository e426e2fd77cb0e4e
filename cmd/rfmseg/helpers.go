package main

import (
	"fmt"
	"strings"

	"rfmseg/internal/rfm"
)

// parseKey accepts "422" as well as "4-2-2" or "4,2,2".
func parseKey(s string) (rfm.ScoreTriple, error) {
	key := strings.NewReplacer("-", "", ",", "", " ", "").Replace(s)
	t, err := rfm.ParseScoreTriple(key)
	if err != nil {
		return t, fmt.Errorf("classify %q: %w", s, err)
	}
	return t, nil
}
