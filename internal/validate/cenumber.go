// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package validate

import (
	"fmt"
	"regexp"
)

var ceNumberRe = regexp.MustCompile(`^([0-9]{3})-([0-9]{3})-([0-9])$`)

// IsCENumber reports whether s is a well-formed EC (European
// Community) number with a correct check digit. The check digit is the
// weighted sum of the six digits (leftmost weight 1, increasing
// rightwards) modulo 11; a remainder of 10 never yields a valid number.
func IsCENumber(s string) error {
	s = normalizeIdentifier(s)
	matches := ceNumberRe.FindStringSubmatch(s)
	if matches == nil {
		return fmt.Errorf("invalid CE number format: %q", s)
	}

	digits := matches[1] + matches[2]
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += (i + 1) * int(digits[i]-'0')
	}

	check := int(matches[3][0] - '0')
	if sum%11 != check {
		return fmt.Errorf("invalid CE number checksum: %q", s)
	}
	return nil
}
