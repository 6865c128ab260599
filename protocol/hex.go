package protocol

// IsHex reports whether every character of token is a hexadecimal digit.
// An empty token is accepted; the parser then sees NUL characters.
func IsHex(token string) bool {
	for i := 0; i < len(token); i++ {
		if !isHexDigit(token[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'F') ||
		(c >= 'a' && c <= 'f')
}
