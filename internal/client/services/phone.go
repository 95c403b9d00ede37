package services

import "strings"

// DefaultCallingCode is Kuwait.
const DefaultCallingCode = "+965"

// NormalizeCallingCode returns code with exactly one leading "+". A leading
// international "00" prefix is accepted.
func NormalizeCallingCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimLeft(code, "+")
	if strings.HasPrefix(code, "00") {
		code = code[2:]
	}
	if code == "" {
		return ""
	}
	return "+" + code
}

// NormalizeLocalNumber drops spaces, dashes, dots and parentheses.
func NormalizeLocalNumber(number string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			return -1
		}
		return r
	}, number)
}

// ComposePhone joins a calling code and local digits into one phone string
// such as "+96512345678".
func ComposePhone(callingCode, number string) string {
	return NormalizeCallingCode(callingCode) + NormalizeLocalNumber(number)
}
