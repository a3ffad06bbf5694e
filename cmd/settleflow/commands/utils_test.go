// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies lenient amount parsing

package commands

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{
			name:  "plain digits",
			input: "500000",
			want:  500000,
		},
		{
			name:  "comma separated",
			input: "5,00,000",
			want:  500000,
		},
		{
			name:  "rupee sign",
			input: "₹460,000",
			want:  460000,
		},
		{
			name:  "decimal truncates",
			input: "1234.99",
			want:  1234,
		},
		{
			name:  "surrounding whitespace",
			input: "  75000  ",
			want:  75000,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "five lakh",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseAmount(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseAmount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
