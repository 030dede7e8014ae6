package textenc

import "unicode/utf16"

const (
	utf7Shift    = '+'
	utf7Unshift  = '-'
	base64Bits   = 6
	base64Mask   = 0x3f
	utf16Bits    = 16
	utf7Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	utf7Direct   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789'(),-./:? \t\r\n"
)

//nolint:gochecknoglobals
var utf7DirectSet = func() [128]bool {
	var set [128]bool
	for i := range len(utf7Direct) {
		set[utf7Direct[i]] = true
	}

	return set
}()

// utf7Encoder implements RFC 2152. Only set D and whitespace are written
// directly; the optional direct characters go through modified base64.
// Every shifted run is closed with an explicit '-'.
type utf7Encoder struct{}

func (utf7Encoder) Encode(text string) ([]byte, error) {
	units := utf16.Encode([]rune(text))
	encoded := make([]byte, 0, len(units))

	var (
		shifted bool
		bits    uint32
		nbits   uint
	)

	closeShift := func() {
		if nbits > 0 {
			encoded = append(encoded, utf7Alphabet[(bits<<(base64Bits-nbits))&base64Mask])
		}

		encoded = append(encoded, utf7Unshift)
		shifted = false
		bits = 0
		nbits = 0
	}

	for _, unit := range units {
		if unit < 128 && utf7DirectSet[unit] {
			if shifted {
				closeShift()
			}

			encoded = append(encoded, byte(unit))

			continue
		}

		if unit == utf7Shift && !shifted {
			encoded = append(encoded, utf7Shift, utf7Unshift)

			continue
		}

		if !shifted {
			encoded = append(encoded, utf7Shift)
			shifted = true
		}

		bits = bits<<utf16Bits | uint32(unit)
		nbits += utf16Bits

		for nbits >= base64Bits {
			nbits -= base64Bits
			encoded = append(encoded, utf7Alphabet[(bits>>nbits)&base64Mask])
		}

		bits &= 1<<nbits - 1
	}

	if shifted {
		closeShift()
	}

	return encoded, nil
}

func (utf7Encoder) Name() string {
	return nameUTF7
}
