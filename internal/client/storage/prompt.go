package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MoodDraft is a mood check-in typed at the prompt.
type MoodDraft struct {
	Mood      string
	Intensity int
	Note      string
}

// Prompter reads answers line by line from in and writes questions to out.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the next trimmed line. It returns
// io.EOF when input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Credentials asks for an email and a password.
func (p *Prompter) Credentials() (email, password string, err error) {
	if email, err = p.Line("Email: "); err != nil {
		return "", "", err
	}
	if password, err = p.Line("Password: "); err != nil {
		return "", "", err
	}
	return email, password, nil
}

// MoodEntry asks for a mood, its intensity and an optional note. The
// intensity is asked again until it is a number.
func (p *Prompter) MoodEntry(moods []string) (MoodDraft, error) {
	var d MoodDraft
	var err error
	if d.Mood, err = p.Line(fmt.Sprintf("Mood (%s): ", strings.Join(moods, "/"))); err != nil {
		return d, err
	}
	for {
		raw, err := p.Line("Intensity (1-10): ")
		if err != nil {
			return d, err
		}
		n, convErr := strconv.Atoi(raw)
		if convErr == nil {
			d.Intensity = n
			break
		}
		fmt.Fprintln(p.out, "Please enter a number.")
	}
	if d.Note, err = p.Line("Note (optional): "); err != nil {
		return d, err
	}
	return d, nil
}
