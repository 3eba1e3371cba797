package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Single-byte charsets reported by chardet that ledger dumps are known to
// arrive in. Cyrillic exports from older spreadsheet tools are the common
// case.
var charsets = map[string]xencoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"KOI8-R":       charmap.KOI8R,
	"ISO-8859-5":   charmap.ISO8859_5,
	"IBM866":       charmap.CodePage866,
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
//
// A byte order mark wins; otherwise valid UTF-8 passes through, then
// chardet picks among the known single-byte charsets, and anything else is
// read as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(trimPartialRune(buf, len(buf) == sniffSize)) {
		return br, nil
	}

	if enc := Detect(buf); enc != nil {
		return transform.NewReader(br, enc.NewDecoder()), nil
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// Detect guesses the single-byte charset of buf. It returns nil when the
// guess is not one of the supported charsets.
func Detect(buf []byte) xencoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return nil
	}

	return charsets[result.Charset]
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(buf []byte, truncated bool) []byte {
	if !truncated {
		return buf
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
