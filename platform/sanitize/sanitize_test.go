package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	if got := StripHTML(" <b>Mario</b> &lt;script&gt;x&lt;/script&gt; "); got != "Mario x" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	if got := Line("Mario \n\t Rossi"); got != "Mario Rossi" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTextPtrBlankIsNil(t *testing.T) {
	blank := "  <i></i> "
	if TextPtr(&blank) != nil {
		t.Fatal("expected nil for blank input")
	}
	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}
