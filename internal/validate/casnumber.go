// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

// Package validate implements the chemical identifier checks exposed by
// the unauthenticated validation endpoints: CAS registry numbers, EC
// numbers and empirical formulas.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var casNumberRe = regexp.MustCompile(`^([0-9]{2,7})-([0-9]{2})-([0-9])$`)

// IsCASNumber reports whether s is a well-formed CAS registry number
// with a correct check digit. The check digit is the weighted sum of
// the preceding digits (rightmost weight 1, increasing leftwards)
// modulo 10.
func IsCASNumber(s string) error {
	s = normalizeIdentifier(s)
	matches := casNumberRe.FindStringSubmatch(s)
	if matches == nil {
		return fmt.Errorf("invalid CAS number format: %q", s)
	}

	digits := matches[1] + matches[2]
	sum := 0
	weight := 1
	for i := len(digits) - 1; i >= 0; i-- {
		sum += weight * int(digits[i]-'0')
		weight++
	}

	check := int(matches[3][0] - '0')
	if sum%10 != check {
		return fmt.Errorf("invalid CAS number checksum: %q", s)
	}
	return nil
}

// normalizeIdentifier trims surrounding whitespace. Identifiers are
// checked as-is otherwise; internal spaces are format errors.
func normalizeIdentifier(s string) string {
	return strings.TrimSpace(s)
}
