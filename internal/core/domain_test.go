package core

import (
	"testing"
	"time"
)

func TestParseOrderDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2023-06-15", "2023-06-15", true},
		{"2023-06-15 13:45:00", "2023-06-15", true},
		{"06/15/2023", "2023-06-15", true},
		{"6/5/2023", "2023-06-05", true},
		{"2023/06/15", "2023-06-15", true},
		{"Jun 15, 2023", "2023-06-15", true},
		{" 2023-06-15 ", "2023-06-15", true}, // surrounding whitespace
		{"", "", false},
		{"not a date", "", false},
		{"15th of June", "", false},
	}
	for i, tc := range cases {
		got, err := ParseOrderDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d (%q): expected error", i, tc.in)
			}
			continue
		}
		if got.Format(DateLayout) != tc.want {
			t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, got.Format(DateLayout), tc.want)
		}
		if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
			t.Fatalf("case %d (%q): time-of-day not truncated: %v", i, tc.in, got)
		}
	}
}

func TestValidateDatasetName(t *testing.T) {
	if err := ValidateDatasetName("q1 sales"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateDatasetName("   "); err != ErrEmptyDatasetName {
		t.Fatalf("expected ErrEmptyDatasetName, got %v", err)
	}
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateDatasetName(string(long)); err == nil {
		t.Fatalf("expected error for over-long name")
	}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
