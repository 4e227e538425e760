// Package main is a terminal client for the Zenly API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/zenly/internal/client/api"
	"github.com/atinyakov/zenly/internal/client/storage"
	"github.com/atinyakov/zenly/internal/models"
)

var (
	version   string
	buildDate string
)

const requestTimeout = 15 * time.Second

type shell struct {
	client   *api.Client
	sessions *storage.SessionFile
	prompt   *storage.Prompter
	baseURL  string
	out      io.Writer
}

func moodNames() []string {
	names := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		names[i] = string(m)
	}
	return names
}

// repl runs the interactive shell loop until exit or end of input.
func (s *shell) repl() {
	for {
		line, err := s.prompt.Line("zenly> ")
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(s.out, "Bye")
			return
		}
		if err := s.run(args); err != nil {
			if api.IsUnauthorized(err) {
				fmt.Fprintln(s.out, "Your session is no longer valid; please login again.")
				_ = s.sessions.Clear()
				s.client.SetToken("")
				continue
			}
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

func (s *shell) run(args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, "Available commands: register, login, logout, whoami, mood, moods, stats, delete <id>, meditations [category], exit")
	case "register":
		name, err := s.prompt.Line("Name: ")
		if err != nil {
			return err
		}
		email, password, err := s.prompt.Credentials()
		if err != nil {
			return err
		}
		res, err := s.client.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		return s.remember(email, res)
	case "login":
		email, password, err := s.prompt.Credentials()
		if err != nil {
			return err
		}
		res, err := s.client.Login(ctx, email, password)
		if err != nil {
			return err
		}
		return s.remember(email, res)
	case "logout":
		s.client.SetToken("")
		if err := s.sessions.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		u, err := s.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s <%s> role=%s\n", u.Name, u.Email, u.Role)
	case "mood":
		d, err := s.prompt.MoodEntry(moodNames())
		if err != nil {
			return err
		}
		e, err := s.client.CreateMood(ctx, api.NewMood{Mood: d.Mood, Intensity: d.Intensity, Note: d.Note})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Recorded %s (%d) as %s\n", e.Mood, e.Intensity, e.ID)
	case "moods":
		list, err := s.client.ListMoods(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(s.out, "No mood entries yet")
		}
		for _, e := range list {
			fmt.Fprintf(s.out, "%s  %s  %-9s %2d  %s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Mood, e.Intensity, e.Note)
		}
	case "stats":
		st, err := s.client.MoodStats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Entries: %d, average intensity: %.2f\n", st.Total, st.AverageIntensity)
		for _, m := range models.Moods {
			if n := st.Counts[m]; n > 0 {
				fmt.Fprintf(s.out, "  %-9s %d\n", m, n)
			}
		}
	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: delete <id>")
			return nil
		}
		if err := s.client.DeleteMood(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Mood entry deleted")
	case "meditations":
		category := ""
		if len(args) > 1 {
			category = args[1]
		}
		list, err := s.client.ListMeditations(ctx, category)
		if err != nil {
			return err
		}
		for _, m := range list {
			fmt.Fprintf(s.out, "%-28s %-12s %3d min  %s\n", m.Title, m.Category, m.DurationMinutes, m.Description)
		}
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *shell) remember(email string, res *api.AuthResult) error {
	s.client.SetToken(res.Token)
	if err := s.sessions.Save(&storage.Session{
		BaseURL:   s.baseURL,
		Email:     email,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Fprintf(s.out, "Logged in as %s until %s\n", email, res.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

// main parses command-line flags, restores the saved session and starts the shell.
func main() {
	var (
		baseURL     string
		caFile      string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert to trust (for a TLS dev server)")
	flag.StringVar(&sessionPath, "session", storage.DefaultSessionFile, "path to the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Zenly Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	hc, err := api.NewHTTPClient(caFile)
	if err != nil {
		log.Fatal(err)
	}
	sh := &shell{
		client:   api.New(baseURL, hc),
		sessions: &storage.SessionFile{Path: sessionPath},
		prompt:   storage.NewPrompter(os.Stdin, os.Stdout),
		baseURL:  baseURL,
		out:      os.Stdout,
	}

	sess, err := sh.sessions.Load()
	switch {
	case err == nil && sess.BaseURL == baseURL:
		sh.client.SetToken(sess.Token)
		fmt.Printf("Welcome back, %s\n", sess.Email)
	case err == nil, errors.Is(err, storage.ErrNoSession):
		fmt.Println("Not logged in. Type 'login' or 'register'.")
	default:
		log.Fatal(err)
	}

	sh.repl()
}
