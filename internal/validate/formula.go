// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	formulaTokenRe = regexp.MustCompile(`^([A-Z][a-z]?)([0-9]*)`)

	// knownElements are the element symbols accepted in empirical
	// formulas.
	knownElements = map[string]bool{
		"H": true, "He": true, "Li": true, "Be": true, "B": true, "C": true,
		"N": true, "O": true, "F": true, "Ne": true, "Na": true, "Mg": true,
		"Al": true, "Si": true, "P": true, "S": true, "Cl": true, "Ar": true,
		"K": true, "Ca": true, "Sc": true, "Ti": true, "V": true, "Cr": true,
		"Mn": true, "Fe": true, "Co": true, "Ni": true, "Cu": true, "Zn": true,
		"Ga": true, "Ge": true, "As": true, "Se": true, "Br": true, "Kr": true,
		"Rb": true, "Sr": true, "Y": true, "Zr": true, "Nb": true, "Mo": true,
		"Tc": true, "Ru": true, "Rh": true, "Pd": true, "Ag": true, "Cd": true,
		"In": true, "Sn": true, "Sb": true, "Te": true, "I": true, "Xe": true,
		"Cs": true, "Ba": true, "La": true, "Ce": true, "Pr": true, "Nd": true,
		"Pm": true, "Sm": true, "Eu": true, "Gd": true, "Tb": true, "Dy": true,
		"Ho": true, "Er": true, "Tm": true, "Yb": true, "Lu": true, "Hf": true,
		"Ta": true, "W": true, "Re": true, "Os": true, "Ir": true, "Pt": true,
		"Au": true, "Hg": true, "Tl": true, "Pb": true, "Bi": true, "Po": true,
		"At": true, "Rn": true, "Fr": true, "Ra": true, "Ac": true, "Th": true,
		"Pa": true, "U": true, "Np": true, "Pu": true, "Am": true, "Cm": true,
		"Bk": true, "Cf": true, "Es": true, "Fm": true, "Md": true, "No": true,
		"Lr": true,
	}
)

// SortEmpiricalFormula parses an empirical formula and rewrites it in
// Hill order: carbon first, hydrogen second, every other element
// alphabetically. Without carbon all elements sort alphabetically.
// Counts of repeated elements are summed.
func SortEmpiricalFormula(formula string) (string, error) {
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return "", fmt.Errorf("empty formula")
	}

	counts := make(map[string]int)
	var order []string

	rest := formula
	for rest != "" {
		matches := formulaTokenRe.FindStringSubmatch(rest)
		if matches == nil {
			return "", fmt.Errorf("invalid formula at %q", rest)
		}

		element := matches[1]
		if !knownElements[element] {
			return "", fmt.Errorf("unknown element %q in formula %q", element, formula)
		}

		count := 1
		if matches[2] != "" {
			n, err := strconv.Atoi(matches[2])
			if err != nil || n == 0 {
				return "", fmt.Errorf("invalid count for element %q in formula %q", element, formula)
			}
			count = n
		}

		if counts[element] == 0 {
			order = append(order, element)
		}
		counts[element] += count

		rest = rest[len(matches[0]):]
	}

	sort.Slice(order, func(i, j int) bool {
		return hillLess(order[i], order[j], counts["C"] > 0)
	})

	var b strings.Builder
	for _, element := range order {
		b.WriteString(element)
		if counts[element] > 1 {
			b.WriteString(strconv.Itoa(counts[element]))
		}
	}
	return b.String(), nil
}

// hillLess orders element symbols per the Hill convention. When the
// formula contains carbon, C and H come first; otherwise the order is
// purely alphabetical.
func hillLess(a, b string, hasCarbon bool) bool {
	if hasCarbon {
		rank := func(e string) int {
			switch e {
			case "C":
				return 0
			case "H":
				return 1
			default:
				return 2
			}
		}
		if rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
	}
	return a < b
}
