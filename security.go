package docimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isinRegex checks for the basic structure: 2 letters, 9 alphanumeric, 1 digit.
var isinRegex = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{9}[0-9]$`)

// wknRegex checks for the format: 6 uppercase alphanumeric characters.
var wknRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateISIN checks the structure of an ISIN (ISO 6166). The check digit
// is not verified, see ISINCheckDigit.
func ValidateISIN(isin string) error {
	if len(isin) != 12 {
		return fmt.Errorf("invalid ISIN length: must be 12 characters, got %d", len(isin))
	}
	if !isinRegex.MatchString(isin) {
		return fmt.Errorf("invalid ISIN format: must be 2 uppercase letters, 9 alphanumeric chars, and 1 digit")
	}
	return nil
}

// ValidateWKN checks the format of a German Wertpapierkennnummer.
func ValidateWKN(wkn string) error {
	if !wknRegex.MatchString(wkn) {
		return fmt.Errorf("invalid WKN %q: must be 6 uppercase alphanumeric characters", wkn)
	}
	return nil
}

// ISINCheckDigit computes the check digit of the first 11 characters of
// a structurally valid isin.
func ISINCheckDigit(isin string) (int, error) {
	if err := ValidateISIN(isin); err != nil {
		return 0, err
	}
	// letters count as two digits: A=10 ... Z=35
	var digits strings.Builder
	for _, char := range isin[:11] {
		if char >= 'A' && char <= 'Z' {
			digits.WriteString(strconv.Itoa(int(char - 'A' + 10)))
		} else {
			digits.WriteRune(char)
		}
	}

	// Luhn, doubling from the rightmost digit.
	sum := 0
	double := true
	s := digits.String()
	for i := len(s) - 1; i >= 0; i-- {
		digit := int(s[i] - '0')
		if double {
			digit *= 2
		}
		sum += digit/10 + digit%10
		double = !double
	}
	return (10 - sum%10) % 10, nil
}

// HasValidCheckDigit reports whether the last digit of isin matches its check digit.
func HasValidCheckDigit(isin string) bool {
	want, err := ISINCheckDigit(isin)
	if err != nil {
		return false
	}
	return int(isin[11]-'0') == want
}

// FindISIN returns the first 12-character token of s that is a
// structurally valid ISIN, or "".
func FindISIN(s string) string {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return !isAlnum(r) }) {
		if isinRegex.MatchString(f) {
			return f
		}
	}
	return ""
}

func isAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
