package utils

import (
	"encoding/hex"
	"io"
)

// HexString returns buf as lowercase hex without separators.
func HexString(buf []byte) string {
	return hex.EncodeToString(buf)
}

// FprintHex writes buf as hex followed by a newline.
func FprintHex(w io.Writer, buf []byte) error {
	_, err := io.WriteString(w, HexString(buf)+"\n")
	return err
}
