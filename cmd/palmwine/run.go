package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/fx"

	pkgAuth "github.com/polkiloo/palmwine/internal/pkg/auth"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop application: %v\n", err)
		os.Exit(1)
	}
}

// hashPassword prints a bcrypt hash for ADMIN_PASSWORD_HASH. The password is
// taken from the first argument or, when absent, the first line of stdin.
func hashPassword(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	password := ""
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			fmt.Fprintf(stderr, "read password: %v\n", err)
			return 1
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		fmt.Fprintln(stderr, "usage: palmwine hash-password <password>")
		return 2
	}

	hash, err := pkgAuth.NewBcryptHasher(0).Hash(password)
	if err != nil {
		fmt.Fprintf(stderr, "hash password: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, hash)
	return 0
}
