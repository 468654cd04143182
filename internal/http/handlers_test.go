package http

import "testing"

func TestEnrollmentStatus(t *testing.T) {
	cases := []struct {
		workshop string
		batch    string
		want     string
		ok       bool
	}{
		{"Active", "Active", "Active", true},
		{"Upcoming", "Upcoming", "Upcoming", true},
		{"Active", "Upcoming", "", false},
		{"Upcoming", "Active", "", false},
		{"Completed", "Active", "", false},
		{"Cancelled", "Active", "", false},
		{"Active", "Completed", "", false},
		{"Active", "Cancelled", "", false},
		{"Completed", "Completed", "", false},
	}
	for _, tc := range cases {
		got, ok := enrollmentStatus(tc.workshop, tc.batch)
		if got != tc.want || ok != tc.ok {
			t.Errorf("enrollmentStatus(%q, %q) = (%q, %v), want (%q, %v)",
				tc.workshop, tc.batch, got, ok, tc.want, tc.ok)
		}
	}
}

func TestQuoteColorHex(t *testing.T) {
	blue := "Blue"
	hex := quoteColorHex(&blue)
	if hex == nil || *hex != "#0000FF" {
		t.Fatalf("expected #0000FF, got %v", hex)
	}

	if quoteColorHex(nil) != nil {
		t.Fatal("nil color should stay nil")
	}

	unknown := "Magenta"
	if quoteColorHex(&unknown) != nil {
		t.Fatal("unknown radio value should map to nil")
	}
}

func TestIdentifierPatterns(t *testing.T) {
	emails := []string{"student@example.com", "a.b@c.d"}
	for _, identifier := range emails {
		if !emailPattern.MatchString(identifier) {
			t.Errorf("expected %q to match the email pattern", identifier)
		}
	}

	phones := []string{"+33612345678", "0612345678", "33612345678"}
	for _, identifier := range phones {
		if !phonePattern.MatchString(identifier) {
			t.Errorf("expected %q to match the phone pattern", identifier)
		}
	}

	neither := []string{"not-an-identifier", "123", "@example.com", "+123456789012345"}
	for _, identifier := range neither {
		if emailPattern.MatchString(identifier) || phonePattern.MatchString(identifier) {
			t.Errorf("expected %q to match neither pattern", identifier)
		}
	}
}

func TestValidAnswer(t *testing.T) {
	for _, answer := range []string{"A", "B", "C", "D"} {
		if !validAnswer(answer) {
			t.Errorf("expected %q to be accepted", answer)
		}
	}
	for _, answer := range []string{"", "E", "a", "AB"} {
		if validAnswer(answer) {
			t.Errorf("expected %q to be rejected", answer)
		}
	}
}

func TestParseDate(t *testing.T) {
	raw := "2025-11-03"
	parsed, err := parseDate(&raw)
	if err != nil || parsed == nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got := formatDate(parsed); got == nil || *got != raw {
		t.Fatalf("round trip mismatch: %v", got)
	}

	if parsed, err := parseDate(nil); err != nil || parsed != nil {
		t.Fatalf("nil date should stay nil, got %v %v", parsed, err)
	}

	bad := "03/11/2025"
	if _, err := parseDate(&bad); err == nil {
		t.Fatal("expected parse failure for non ISO date")
	}
}
