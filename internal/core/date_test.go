package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-03-08", NewDate(2024, 3, 8), true},
		{"2024-12-31", NewDate(2024, 12, 31), true},
		{"2024-02-29", NewDate(2024, 2, 29), true}, // leap year
		{"2023-02-29", Date{}, false},
		{"2024-13-01", Date{}, false},
		{"2024-00-01", Date{}, false},
		{"2024-01-32", Date{}, false},
		{"2024-01", Date{}, false},
		{"not-a-date", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error", tc.in)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Fatalf("round-trip mismatch: %q -> %q", tc.in, got.String())
		}
	}
}

func TestDateAddMonthsClamping(t *testing.T) {
	cases := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{"plain month step", NewDate(2024, 1, 15), 1, NewDate(2024, 2, 15)},
		{"jan 31 to leap feb", NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)},
		{"jan 31 to non-leap feb", NewDate(2023, 1, 31), 1, NewDate(2023, 2, 28)},
		{"jan 31 two steps keeps 31", NewDate(2024, 1, 31), 2, NewDate(2024, 3, 31)},
		{"may 31 to june clamps to 30", NewDate(2024, 5, 31), 1, NewDate(2024, 6, 30)},
		{"year rollover", NewDate(2024, 11, 10), 3, NewDate(2025, 2, 10)},
		{"twelve months", NewDate(2024, 2, 29), 12, NewDate(2025, 2, 28)},
		{"zero months", NewDate(2024, 7, 4), 0, NewDate(2024, 7, 4)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddMonths(tc.n); got != tc.want {
				t.Errorf("%v.AddMonths(%d) = %v, want %v", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2024, 3, 8)
	b := NewDate(2024, 3, 9)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !b.After(a) {
		t.Fatalf("expected %v after %v", b, a)
	}
	if !a.Equal(NewDate(2024, 3, 8)) {
		t.Fatalf("expected %v equal to itself", a)
	}
	if NewDate(2023, 12, 31).After(NewDate(2024, 1, 1)) {
		t.Fatalf("year boundary ordering broken")
	}
}

func TestDateMonthKey(t *testing.T) {
	if got := NewDate(2024, 3, 8).MonthKey(); got != "2024-03" {
		t.Fatalf("MonthKey = %q, want %q", got, "2024-03")
	}
}
