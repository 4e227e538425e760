package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrompter_Credentials(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  a@zenly.com \npassword1\n"), &out)

	email, password, err := p.Credentials()
	if err != nil {
		t.Fatalf("Credentials: %v", err)
	}
	if email != "a@zenly.com" || password != "password1" {
		t.Errorf("email=%q password=%q", email, password)
	}
	if !strings.Contains(out.String(), "Email: ") || !strings.Contains(out.String(), "Password: ") {
		t.Errorf("prompts not written: %q", out.String())
	}
}

func TestPrompter_MoodEntry(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("calm\nhigh\n7\nafter a walk\n"), &out)

	d, err := p.MoodEntry([]string{"happy", "calm"})
	if err != nil {
		t.Fatalf("MoodEntry: %v", err)
	}
	if d.Mood != "calm" || d.Intensity != 7 || d.Note != "after a walk" {
		t.Errorf("unexpected draft: %+v", d)
	}
	if !strings.Contains(out.String(), "Please enter a number.") {
		t.Errorf("expected retry message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "happy/calm") {
		t.Errorf("expected mood choices, got %q", out.String())
	}
}

func TestPrompter_EOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("calm\n"), io.Discard)
	if _, err := p.MoodEntry([]string{"calm"}); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
