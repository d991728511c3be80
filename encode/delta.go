package encode

// DeltaEncode stores each byte as the difference from the previous input
// byte, the XM sample convention. The first byte is stored as is.
func DeltaEncode(src []byte) []byte {
	out := make([]byte, len(src))
	var prev byte
	for i, b := range src {
		out[i] = b - prev
		prev = b
	}
	return out
}

func DeltaDecode(src []byte) []byte {
	out := make([]byte, len(src))
	var acc byte
	for i, d := range src {
		acc += d
		out[i] = acc
	}
	return out
}
