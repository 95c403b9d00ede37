// Package otp models the one-time-code entry boxes of the phone login.
//
// Boxes are indexed 0..Length-1. Focus == Length means the submit control
// holds focus.
package otp

import (
	"strings"
	"unicode/utf8"
)

// Length is the number of code digits.
const Length = 4

// Input is the state of the code entry boxes. The zero value is not usable;
// call NewInput.
type Input struct {
	digits [Length]rune
	focus  int
}

func NewInput() *Input {
	return &Input{}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Type writes r into box i and advances focus to the next box, or to submit
// from the last one. Non-digits and out of range boxes are ignored.
func (in *Input) Type(i int, r rune) {
	if i < 0 || i >= Length || !isDigit(r) {
		return
	}
	in.digits[i] = r
	in.focus = i + 1
}

// Backspace in box i > 0 clears box i-1 and moves focus there. In box 0 it
// clears that box. i may be Length, the submit control.
func (in *Input) Backspace(i int) {
	if i < 0 || i > Length {
		return
	}
	if i == 0 {
		in.digits[0] = 0
		in.focus = 0
		return
	}
	in.digits[i-1] = 0
	in.focus = i - 1
}

// Paste fills every box when s, trimmed, is exactly Length digits, and moves
// focus to submit. It reports whether the paste was accepted; anything else
// leaves the boxes untouched.
func (in *Input) Paste(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) != Length {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	for i, r := range []rune(s) {
		in.digits[i] = r
	}
	in.focus = Length
	return true
}

// Focus returns the focused box, or Length for submit.
func (in *Input) Focus() int {
	return in.focus
}

// Code concatenates the filled boxes. Empty boxes are skipped.
func (in *Input) Code() string {
	var b strings.Builder
	for _, r := range in.digits {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Complete reports whether every box holds a digit.
func (in *Input) Complete() bool {
	for _, r := range in.digits {
		if r == 0 {
			return false
		}
	}
	return true
}

// Boxes returns the box contents, with ' ' for empty boxes.
func (in *Input) Boxes() [Length]rune {
	out := in.digits
	for i, r := range out {
		if r == 0 {
			out[i] = ' '
		}
	}
	return out
}

func (in *Input) Reset() {
	in.digits = [Length]rune{}
	in.focus = 0
}
