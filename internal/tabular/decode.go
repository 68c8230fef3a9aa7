package tabular

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoder turns raw bytes into text or reports that the bytes are not in
// its encoding.
type decoder func(data []byte) (string, error)

var decoders = map[string]decoder{
	"utf-8-sig": decodeUTF8,
	"utf-8":     decodeUTF8,
	"gbk":       legacyDecoder(simplifiedchinese.GBK),
	"gb18030":   legacyDecoder(simplifiedchinese.GB18030),
	"latin1":    legacyDecoder(charmap.ISO8859_1),
}

// KnownEncoding reports whether name is a supported decoding strategy.
func KnownEncoding(name string) bool {
	_, ok := decoders[strings.ToLower(name)]
	return ok
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8")
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

func legacyDecoder(enc encoding.Encoding) decoder {
	return func(data []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		// Invalid sequences decode to U+FFFD instead of failing.
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", fmt.Errorf("byte sequence not valid in this encoding")
		}
		return string(bytes.TrimPrefix(out, utf8BOM)), nil
	}
}

// DecodeFirst tries the named strategies in order and returns the text of
// the first one whose decode succeeds and whose text is accepted by accept
// (nil accepts everything). It returns the winning strategy name.
func DecodeFirst(data []byte, names []string, accept func(string) error) (string, string, error) {
	var lastErr error
	for _, name := range names {
		dec, ok := decoders[strings.ToLower(name)]
		if !ok {
			lastErr = fmt.Errorf("unknown encoding %q", name)
			continue
		}
		text, err := dec(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		if accept != nil {
			if err := accept(text); err != nil {
				lastErr = fmt.Errorf("%s: %w", name, err)
				continue
			}
		}
		return text, strings.ToLower(name), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no encodings configured")
	}
	return "", "", fmt.Errorf("%w: %v", ErrUndecodable, lastErr)
}
