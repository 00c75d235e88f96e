package utils

import "unicode/utf8"

const binarySniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Only the first binarySniffLength bytes are inspected.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if len(data) > binarySniffLength {
		data = data[:binarySniffLength]
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, currentByte := range data {
		if currentByte == 0 {
			return true
		}
	}
	return false
}
