package extract

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"vk-image-export/pkg/utils"
)

// DecodeText converts raw export bytes to UTF-8 text, returning the text and
// the encoding that was accepted. Older exports are windows-1251; newer ones
// are UTF-8. The cp1251 table assigns every byte except 0x98, so a cp1251
// reading is rejected only when that byte occurs and decodes to U+FFFD —
// 0x98 appears inside the UTF-8 encoding of common Cyrillic capitals, which
// is what makes the fallback fire for UTF-8 input. Input acceptable under
// neither reading is an error; the caller logs it and the file contributes
// nothing.
func DecodeText(data []byte) (string, string, error) {
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), "windows-1251", nil
	}

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	return "", "", fmt.Errorf("%w: input is neither windows-1251 nor valid UTF-8", utils.ErrDecoding)
}
