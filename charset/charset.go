// Package charset decodes child-process output to UTF-8 text with
// best-effort character-set detection. Decoding never fails: when no
// encoding can be determined the bytes pass through as-is.
package charset

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Canonical encoding names accepted as hints.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	CP1252  = "windows-1252"
)

// resolve maps an encoding name to a decoder; nil means passthrough.
func resolve(name string) encoding.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf8", UTF8, "":
		return nil
	case "utf16le", UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf16be", UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "cp1252", CP1252, "latin1", "iso-8859-1":
		return charmap.Windows1252
	default:
		return nil
	}
}

// Detect guesses the encoding of data. BOMs win; otherwise a NUL-byte
// pattern indicates UTF-16, valid UTF-8 stays UTF-8, and anything else
// is assumed to be Windows-1252 console output.
func Detect(data []byte) string {
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			return UTF16LE
		}
		if data[0] == 0xFE && data[1] == 0xFF {
			return UTF16BE
		}
	}
	if name := detectUTF16NoBOM(data); name != "" {
		return name
	}
	if utf8.Valid(data) {
		return UTF8
	}
	return CP1252
}

// detectUTF16NoBOM looks for the alternating-NUL pattern of BOM-less
// UTF-16 ASCII text.
func detectUTF16NoBOM(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	sample := data
	if len(sample) > 64 {
		sample = sample[:64]
	}
	var oddNul, evenNul int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 1 {
			oddNul++
		} else {
			evenNul++
		}
	}
	half := len(sample) / 2
	switch {
	case oddNul > half*3/4:
		return UTF16LE
	case evenNul > half*3/4:
		return UTF16BE
	}
	return ""
}

// Decode converts data to a UTF-8 string. A non-empty hint names the
// declared encoding; otherwise Detect chooses one. Failures degrade to
// returning the raw bytes as a string.
func Decode(data []byte, hint string) string {
	if len(data) == 0 {
		return ""
	}
	name := hint
	if name == "" {
		name = Detect(data)
	}
	enc := resolve(name)
	if enc == nil {
		return string(stripUTF8BOM(data))
	}
	data = stripUTF16BOM(data, name)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(stripUTF8BOM(decoded))
}

// Lines decodes data and splits it into lines, dropping a single
// trailing newline. Both LF and CRLF endings are handled.
func Lines(data []byte, hint string) []string {
	text := Decode(data, hint)
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// stripUTF16BOM drops a leading UTF-16 BOM so the IgnoreBOM decoders do
// not surface it as a zero-width character.
func stripUTF16BOM(data []byte, name string) []byte {
	if len(data) < 2 {
		return data
	}
	le := data[0] == 0xFF && data[1] == 0xFE
	be := data[0] == 0xFE && data[1] == 0xFF
	switch strings.ToLower(name) {
	case "utf16le", UTF16LE:
		if le {
			return data[2:]
		}
	case "utf16be", UTF16BE:
		if be {
			return data[2:]
		}
	}
	return data
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
