package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/protrack/protrack-api/internal/domain"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// ValidatePassword exige longitud mínima, una mayúscula, un número y un carácter especial.
func ValidatePassword(pw string) error {
	var missing []string
	if len([]rune(pw)) < MinPasswordLength {
		missing = append(missing, fmt.Sprintf("al menos %d caracteres", MinPasswordLength))
	}
	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	if !upper {
		missing = append(missing, "una mayúscula")
	}
	if !digit {
		missing = append(missing, "un número")
	}
	if !special {
		missing = append(missing, "un carácter especial")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: requiere %s", domain.ErrWeakPassword, strings.Join(missing, ", "))
	}
	return nil
}
