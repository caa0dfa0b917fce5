// Chimithèque API - Laboratory Inventory Management Backend
// Copyright 2026 the Chimithèque contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chimitheque/chimitheque-api

package validate

import "testing"

func TestIsCASNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "water", input: "7732-18-5", wantErr: false},
		{name: "ethanol", input: "64-17-5", wantErr: false},
		{name: "formaldehyde", input: "50-00-0", wantErr: false},
		{name: "surrounding whitespace trimmed", input: "  7732-18-5 ", wantErr: false},
		{name: "wrong check digit", input: "7732-18-4", wantErr: true},
		{name: "missing hyphens", input: "7732185", wantErr: true},
		{name: "first group too short", input: "1-18-5", wantErr: true},
		{name: "first group too long", input: "12345678-18-5", wantErr: true},
		{name: "letters", input: "77a2-18-5", wantErr: true},
		{name: "internal space", input: "7732 -18-5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsCASNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsCASNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIsCENumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "ethanol", input: "200-578-6", wantErr: false},
		{name: "water", input: "231-791-2", wantErr: false},
		{name: "surrounding whitespace trimmed", input: " 200-578-6\t", wantErr: false},
		{name: "wrong check digit", input: "200-578-5", wantErr: true},
		{name: "check digit too long", input: "200-578-66", wantErr: true},
		{name: "missing hyphens", input: "2005786", wantErr: true},
		{name: "letters", input: "20a-578-6", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsCENumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("IsCENumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSortEmpiricalFormula(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "water already ordered", input: "H2O", want: "H2O"},
		{name: "water reversed", input: "OH2", want: "H2O"},
		{name: "ethanol", input: "C2H6O", want: "C2H6O"},
		{name: "glucose", input: "C6H12O6", want: "C6H12O6"},
		{name: "acetic acid condensed", input: "CH3COOH", want: "C2H4O2"},
		{name: "carbon pulls hydrogen second", input: "O2HC", want: "CHO2"},
		{name: "no carbon sorts alphabetically", input: "NaCl", want: "ClNa"},
		{name: "single element", input: "Fe", want: "Fe"},
		{name: "count of one omitted", input: "H1O1H1", want: "H2O"},
		{name: "two letter elements", input: "MgSO4", want: "MgO4S"},
		{name: "unknown element", input: "Xx2O", wantErr: true},
		{name: "lowercase start", input: "h2O", wantErr: true},
		{name: "zero count", input: "H0O", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "stray punctuation", input: "H2-O", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SortEmpiricalFormula(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SortEmpiricalFormula(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("SortEmpiricalFormula(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
