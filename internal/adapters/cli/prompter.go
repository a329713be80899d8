package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hotel_ops/internal/validation"
)

// ErrInputClosed is returned once the input stream is exhausted. Re-prompting
// stops there; the caller leaves the menu.
var ErrInputClosed = errors.New("input closed")

// Prompter reads operator input line by line. Typed readers re-ask until the
// value parses; they never return a validation error.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Line prints label and returns the next line without its terminator.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// until re-prompts with label until parse accepts the line.
func until[T any](p *Prompter, label string, parse func(string) (T, error)) (T, error) {
	for {
		s, err := p.Line(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(s)
		if err == nil {
			return v, nil
		}
		p.Printf("\tInvalid input (%v). Please try again.\n", err)
	}
}

func (p *Prompter) Date(label string) (time.Time, error) {
	return until(p, label, validation.ParseDate)
}

func (p *Prompter) Latitude(label string) (float64, error) {
	return until(p, label, validation.ParseLatitude)
}

func (p *Prompter) Longitude(label string) (float64, error) {
	return until(p, label, validation.ParseLongitude)
}

func (p *Prompter) ID(label, field string) (int64, error) {
	return until(p, label, func(s string) (int64, error) { return validation.ParseID(field, s) })
}

func (p *Prompter) Choice(label string) (int, error) {
	return until(p, label, validation.ParseChoice)
}

func (p *Prompter) Price(label string) (float64, error) {
	return until(p, label, validation.ParsePrice)
}

// Text re-asks while the line is blank.
func (p *Prompter) Text(label string) (string, error) {
	return until(p, label, func(s string) (string, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return "", errors.New("must not be empty")
		}
		return s, nil
	})
}
