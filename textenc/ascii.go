package textenc

import "unicode/utf8"

const asciiReplacement = '?'

type asciiEncoder struct{}

// Encode substitutes every rune outside the 7-bit range with '?'.
func (asciiEncoder) Encode(text string) ([]byte, error) {
	encoded := make([]byte, 0, len(text))

	for _, r := range text {
		if r < utf8.RuneSelf {
			encoded = append(encoded, byte(r))

			continue
		}

		encoded = append(encoded, asciiReplacement)
	}

	return encoded, nil
}

func (asciiEncoder) Name() string {
	return nameASCII
}
