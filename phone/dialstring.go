package phone

// MaxNumberLength is the longest dialable string the editor accepts,
// matching E.164's 15-digit ceiling.
const MaxNumberLength = 15

// DialString is the editable number on the dial pad. It always begins
// with "+" and caps out at MaxNumberLength runes.
type DialString struct {
	value string
}

// NewDialString returns an editor seeded with the leading "+".
func NewDialString() *DialString {
	return &DialString{value: "+"}
}

// Append adds one keypad character. It reports false when the string is
// already at maximum length, so the caller can warn the user.
func (d *DialString) Append(ch rune) bool {
	if len([]rune(d.value)) >= MaxNumberLength {
		return false
	}
	d.value += string(ch)
	return true
}

// Backspace removes the last character, never the leading "+".
func (d *DialString) Backspace() {
	runes := []rune(d.value)
	if len(runes) > 1 {
		d.value = string(runes[:len(runes)-1])
	}
}

func (d *DialString) String() string {
	return d.value
}
