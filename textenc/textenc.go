// Package textenc maps a body encoding selector to the strategy that turns
// request text into bytes.
package textenc

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	ErrUnknownEncoding = errors.New("textenc: unknown encoding")
	ErrEncode          = errors.New("textenc: failed to encode text")
)

type Encoding int

const (
	UTF8 Encoding = iota
	Unicode
	ASCII
	UTF7
	UTF32
)

const (
	nameUTF8    = "utf-8"
	nameUnicode = "utf-16le"
	nameASCII   = "us-ascii"
	nameUTF7    = "utf-7"
	nameUTF32   = "utf-32le"
)

type Encoder interface {
	Encode(text string) ([]byte, error)
	Name() string
}

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return nameUTF8
	case Unicode:
		return nameUnicode
	case ASCII:
		return nameASCII
	case UTF7:
		return nameUTF7
	case UTF32:
		return nameUTF32
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Resolve never fails: selectors outside the known set fall back to UTF-8.
func Resolve(e Encoding) Encoder { //nolint:ireturn
	switch e {
	case Unicode:
		return &textEncoder{
			name:     nameUnicode,
			encoding: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		}
	case ASCII:
		return asciiEncoder{}
	case UTF7:
		return utf7Encoder{}
	case UTF32:
		return &textEncoder{
			name:     nameUTF32,
			encoding: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
		}
	case UTF8:
		fallthrough
	default:
		return &textEncoder{
			name:     nameUTF8,
			encoding: unicode.UTF8,
		}
	}
}

func Parse(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "unicode", "utf-16", "utf16", "utf-16le":
		return Unicode, nil
	case "ascii", "us-ascii":
		return ASCII, nil
	case "utf-7", "utf7":
		return UTF7, nil
	case "utf-32", "utf32", "utf-32le":
		return UTF32, nil
	default:
		return UTF8, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

type textEncoder struct {
	name     string
	encoding encoding.Encoding
}

func (t *textEncoder) Encode(text string) ([]byte, error) {
	encoded, err := t.encoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, t.name, err)
	}

	return encoded, nil
}

func (t *textEncoder) Name() string {
	return t.name
}
