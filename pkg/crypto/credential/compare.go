package credential

// SlowEquals reports whether a and b are equal byte for byte.
//
// The lengths are folded into the difference first and every overlapping
// byte pair is visited, so the running time depends only on the input
// lengths and never on the position of the first mismatch.
func SlowEquals(a, b []byte) bool {
	diff := uint(len(a)) ^ uint(len(b))

	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		diff |= uint(a[i] ^ b[i])
	}

	return diff == 0
}
