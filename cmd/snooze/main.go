package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/five82/snooze/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	list := flag.Bool("list", false, "print the story list and exit")
	loginUser := flag.String("login", "", "log in as `user`, store the credential and exit")
	theme := flag.String("theme", "", "color theme (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, ThemeName: *theme}

	switch {
	case *loginUser != "":
		password, err := readPassword(os.Stdin, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snooze: %v\n", err)
			return 1
		}
		sess, err := app.Login(ctx, opts, *loginUser, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snooze: %v\n", err)
			return 1
		}
		fmt.Printf("logged in as %s\n", sess.Username())
		return 0
	case *list:
		if err := app.List(ctx, opts, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "snooze: %v\n", err)
			return 1
		}
		return 0
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "snooze: stdout is not a terminal; use -list for plain output")
		return 2
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "snooze: %v\n", err)
		return 1
	}
	return 0
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		raw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password")
	}
	return password, nil
}
