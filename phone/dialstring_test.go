package phone

import "testing"

func TestDialStringStartsWithPlus(t *testing.T) {
	d := NewDialString()
	if d.String() != "+" {
		t.Fatalf("got %q, want %q", d.String(), "+")
	}
}

func TestDialStringAppendAndBackspace(t *testing.T) {
	d := NewDialString()
	for _, ch := range "12345" {
		if !d.Append(ch) {
			t.Fatalf("append %q unexpectedly rejected", ch)
		}
	}
	if d.String() != "+12345" {
		t.Fatalf("got %q, want %q", d.String(), "+12345")
	}

	d.Backspace()
	if d.String() != "+1234" {
		t.Fatalf("got %q, want %q", d.String(), "+1234")
	}
}

func TestDialStringBackspaceKeepsLeadingPlus(t *testing.T) {
	d := NewDialString()
	d.Backspace()
	d.Backspace()
	if d.String() != "+" {
		t.Fatalf("got %q, want %q", d.String(), "+")
	}
}

func TestDialStringMaxLength(t *testing.T) {
	d := NewDialString()
	for i := 0; i < MaxNumberLength-1; i++ {
		if !d.Append('9') {
			t.Fatalf("append %d unexpectedly rejected", i)
		}
	}
	if d.Append('9') {
		t.Fatal("append beyond max length should be rejected")
	}
	if got := len([]rune(d.String())); got != MaxNumberLength {
		t.Fatalf("length = %d, want %d", got, MaxNumberLength)
	}
}
