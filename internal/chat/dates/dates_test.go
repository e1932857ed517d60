package dates

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{name: "full date", input: "2024-05-15", want: KindFull},
		{name: "year and month", input: "2024-05", want: KindYearMonth},
		{name: "year only", input: "2024", want: KindYearOnly},
		{name: "day out of range", input: "2024-05-40", want: KindInvalid},
		{name: "month out of range", input: "2024-13-01", want: KindInvalid},
		{name: "not a leap day", input: "2023-02-29", want: KindInvalid},
		{name: "leap day", input: "2024-02-29", want: KindFull},
		{name: "free text", input: "next tuesday", want: KindInvalid},
		{name: "slash separators", input: "15/05/2024", want: KindInvalid},
		{name: "empty", input: "", want: KindInvalid},
		{name: "year month with bad month still partial", input: "2024-13", want: KindYearMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already canonical", input: "2024-05-15", want: "2024-05-15"},
		{name: "first of month", input: "2024-01-01", want: "2024-01-01"},
		{name: "invalid day", input: "2024-05-40", wantErr: true},
		{name: "partial date rejected", input: "2024-05", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Normalize must be idempotent on its own output.
func TestNormalizeStable(t *testing.T) {
	inputs := []string{"2024-05-15", "2000-02-29", "1999-12-31"}
	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", in, err)
		}
		second, err := Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", first, err)
		}
		if first != second {
			t.Errorf("Normalize not stable: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestSplitYearMonth(t *testing.T) {
	year, month := SplitYearMonth("2024-05")
	if year != "2024" || month != "05" {
		t.Errorf("SplitYearMonth(2024-05) = %q, %q", year, month)
	}
}
