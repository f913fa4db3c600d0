package outreach

import (
	"bytes"
	"testing"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"Ciao Mario!":            "Ciao%20Mario!",
		"a+b=c&d":                "a%2Bb%3Dc%26d",
		"(test)*'~":              "(test)*'~",
		"riga1\nriga2":           "riga1%0Ariga2",
		"caffè":                  "caff%C3%A8",
		"📎 *Allegato:* http://x": "%F0%9F%93%8E%20*Allegato%3A*%20http%3A%2F%2Fx",
	}
	for in, want := range tests {
		if got := EncodeURIComponent(in); got != want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWhatsAppLink(t *testing.T) {
	got := WhatsAppLink("+39 333 123 4567", "Ciao Mario", "IT")
	want := "https://wa.me/393331234567?text=Ciao%20Mario"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := WhatsAppLink("333 123 4567", "", "IT"); got != "https://wa.me/393331234567" {
		t.Fatalf("unexpected link without text: %q", got)
	}
}

func TestMailtoLink(t *testing.T) {
	got := MailtoLink(" mario@example.test ", "Offerta", "Gentile Mario,\nsaluti")
	want := "mailto:mario@example.test?subject=Offerta&body=Gentile%20Mario%2C%0Asaluti"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := MailtoLink("a@b.test", "", ""); got != "mailto:a@b.test" {
		t.Fatalf("unexpected bare link %q", got)
	}
}

func TestQRCodeIsPNG(t *testing.T) {
	png, err := QRCode("https://wa.me/393331234567", 0)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected PNG signature")
	}
}
