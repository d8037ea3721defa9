// Package pattern compiles user supplied name filters.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformed matches every *MalformedError with errors.Is.
var ErrMalformed = errors.New("malformed pattern")

// MalformedError is returned when pattern text does not compile.
type MalformedError struct {
	Text string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrMalformed.Error(), e.Text, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// Pattern is a compiled name filter.
type Pattern struct {
	text string
	re   *regexp.Regexp
}

// Compile parses text as a regular expression.
func Compile(text string) (*Pattern, error) {
	re, err := regexp.Compile(text)
	if err != nil {
		return nil, &MalformedError{Text: text, Err: err}
	}
	return &Pattern{text: text, re: re}, nil
}

// MustCompile is like Compile but panics on malformed text.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Search reports whether name contains a match anywhere.
func (p *Pattern) Search(name string) bool {
	return p.re.MatchString(name)
}

func (p *Pattern) String() string {
	return p.text
}
