// Package alpha27 encrypts text over the 27-symbol alphabet "_abcdefghijklmnopqrstuvwxyz".
//
// Each character is written as 5 bits, least significant bit first. A block of KChars
// characters becomes one 5·KChars-bit McEliece message. Plaintexts are padded with '_'
// to a whole number of blocks and the padding is not removed on decryption.
package alpha27

import (
	"fmt"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
)

const (
	// Alphabet lists the encodable symbols; a symbol's value is its index.
	Alphabet = "_abcdefghijklmnopqrstuvwxyz"
	// BitsPerChar is the width of one encoded symbol (2^5 >= 27).
	BitsPerChar = 5
	// PadChar fills the last block of a message.
	PadChar = '_'
)

// symbolValues maps an ASCII byte to its alphabet index, or -1.
var symbolValues = func() [128]int8 {
	var table [128]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		table[Alphabet[i]] = int8(i)
	}
	return table
}()

func symbolValue(r rune) (int, bool) {
	if r < 0 || r >= 128 || symbolValues[r] < 0 {
		return 0, false
	}
	return int(symbolValues[r]), true
}

// ValidatePlaintext checks that text is non-empty and drawn from Alphabet.
func ValidatePlaintext(text string) error {
	if len(text) == 0 {
		return mceliece.ErrEmptyPlaintext
	}
	return validateSymbols(text)
}

func validateSymbols(text string) error {
	for i, r := range text {
		if _, ok := symbolValue(r); !ok {
			return fmt.Errorf("%w: %q at offset %d, allowed are '_' and a-z", mceliece.ErrInvalidSymbol, r, i)
		}
	}
	return nil
}

// EncodeText converts text to 5·len(text) bits.
func EncodeText(text string) ([]uint8, error) {
	if err := validateSymbols(text); err != nil {
		return nil, err
	}
	bits := make([]uint8, 0, len(text)*BitsPerChar)
	for _, r := range text {
		v, _ := symbolValue(r)
		for i := 0; i < BitsPerChar; i++ {
			bits = append(bits, uint8((v>>i)&1))
		}
	}
	return bits, nil
}

// DecodeBits reads numChars characters from the front of bits; extra bits are
// ignored. A 5-bit value outside the alphabet decodes to '_'.
func DecodeBits(bits []uint8, numChars int) (string, error) {
	if numChars < 0 {
		return "", fmt.Errorf("%w: %d characters", mceliece.ErrInvalidParameters, numChars)
	}
	needed := numChars * BitsPerChar
	if len(bits) < needed {
		return "", fmt.Errorf("%w: need %d bits for %d characters, got %d",
			mceliece.ErrInvalidMessageLength, needed, numChars, len(bits))
	}

	out := make([]byte, numChars)
	for c := range out {
		v := 0
		for i := 0; i < BitsPerChar; i++ {
			b := bits[c*BitsPerChar+i]
			if b > 1 {
				return "", fmt.Errorf("%w: bit %d = %d", mceliece.ErrInvalidSymbol, c*BitsPerChar+i, b)
			}
			v |= int(b) << i
		}
		if v >= len(Alphabet) {
			v = 0
		}
		out[c] = Alphabet[v]
	}
	return string(out), nil
}

// Pad appends PadChar until the length of text is a multiple of blockChars.
func Pad(text string, blockChars int) string {
	if blockChars < 1 {
		return text
	}
	rem := len(text) % blockChars
	if rem == 0 {
		return text
	}
	buf := make([]byte, len(text), len(text)+blockChars-rem)
	copy(buf, text)
	for i := rem; i < blockChars; i++ {
		buf = append(buf, PadChar)
	}
	return string(buf)
}
