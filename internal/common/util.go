package common

// WipeByteArray zeroes buf in place. Used for passwords read from the
// terminal once they have been sent.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
