// Package credentials generates the public identifiers handed to new learners.
package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"nextgenacademy/internal/models"
)

const friendCodeChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateFriendCode returns the first two letters of name upper-cased, a dash,
// and four random base-36 characters, e.g. "NA-7QX2"
func GenerateFriendCode(name string) (string, error) {
	prefix := namePrefix(name)

	suffix := make([]byte, 4)
	for i := range suffix {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(friendCodeChars))))
		if err != nil {
			return "", err
		}
		suffix[i] = friendCodeChars[num.Int64()]
	}

	return prefix + "-" + string(suffix), nil
}

// namePrefix pads short names with X so codes keep their shape
func namePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if b.Len() == 2 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
		}
	}
	for b.Len() < 2 {
		b.WriteByte('X')
	}
	return b.String()
}

// RandomAvatarColor picks a starting color from the avatar palette
func RandomAvatarColor() (string, error) {
	return randomElement(models.AvatarColors)
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
