package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in, region, want string
	}{
		{"+39 333 123 4567", "IT", "+393331234567"},
		{"333 1234567", "IT", "+393331234567"},
		{"  not a phone ", "IT", "not a phone"},
		{"", "IT", ""},
	}
	for _, tc := range cases {
		if got := NormalizeE164(tc.in, tc.region); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWhatsAppDigits(t *testing.T) {
	if got := WhatsAppDigits("+39 333-123 4567", ""); got != "393331234567" {
		t.Fatalf("unexpected digits %q", got)
	}
	if got := WhatsAppDigits("(12) 34", "IT"); got != "1234" {
		t.Fatalf("expected digit fallback, got %q", got)
	}
}
