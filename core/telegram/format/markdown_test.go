package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("send_to *addr* [x]", MarkdownV1, "")
	if err != nil {
		t.Fatalf("EscapeMarkdown: %v", err)
	}
	want := `send\_to \*addr\* \[x]`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("a.b-c!", MarkdownV2, "")
	if err != nil {
		t.Fatalf("EscapeMarkdown: %v", err)
	}
	want := `a\.b\-c\!`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3, ""); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}
