package common

// WipeByteArray zeroes b in place. Passwords read from the terminal are
// wiped this way once sent. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
