package booking

import (
	"crypto/rand"
	"io"
	"math/big"
)

// No I or O, they read as 1 and 0.
const codeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// GenerateConfirmationCode returns a code like "ABC-1234" drawn from r.
func GenerateConfirmationCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, 0, 8)

	letters := big.NewInt(int64(len(codeLetters)))
	for i := 0; i < 3; i++ {
		n, err := rand.Int(r, letters)
		if err != nil {
			return "", err
		}
		buf = append(buf, codeLetters[n.Int64()])
	}
	buf = append(buf, '-')

	digits := big.NewInt(10)
	for i := 0; i < 4; i++ {
		n, err := rand.Int(r, digits)
		if err != nil {
			return "", err
		}
		buf = append(buf, byte('0'+n.Int64()))
	}
	return string(buf), nil
}
