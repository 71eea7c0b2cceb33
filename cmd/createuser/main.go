// Command createuser registers an account from the terminal against the configured store.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"
	"golang.org/x/term"

	"warden/config"
	"warden/internal/domain/lifecycle"
	"warden/internal/errors"
	"warden/internal/infra/auth"
	logs "warden/internal/infra/log"
	"warden/internal/infra/persistence/memory"
	"warden/internal/infra/persistence/postgres"
	"warden/internal/usecase"
	"warden/internal/usecase/impl"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

func main() {
	username := flag.String("username", "", "display name of the new account")
	email := flag.String("email", "", "login email of the new account")
	flag.Parse()

	if err := run(*username, *email, os.Stdin, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "createuser:", err)
		os.Exit(1)
	}
}

func run(username, email string, stdin *os.File, w io.Writer) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return errors.New("both -username and -email are required")
	}

	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.Storage.Driver == config.StorageMemory {
		fmt.Fprintln(w, "warning: storage.driver is memory, the account will not outlive this process")
	}

	password, err := promptPassword(stdin, w)
	if err != nil {
		return err
	}

	var uc usecase.AuthUsecase
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			auth.NewPasswordHasher,
			auth.NewJWTSigner,
			impl.NewAuthService,
		),
		storeOption(cfg),
		fx.Populate(&uc),
	)

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "start application")
	}
	defer func() {
		if stopErr := app.Stop(context.Background()); stopErr != nil {
			slog.Warn("Failed to stop application", slog.Any("error", stopErr))
		}
	}()

	out, err := uc.Register(ctx, &usecase.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return errors.Wrap(err, "register account")
	}

	fmt.Fprintf(w, "created user %s <%s> id=%s\n", out.User.Username, out.User.Email, out.User.ID)

	return nil
}

func storeOption(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageMemory {
		return fx.Provide(memory.NewStore, memory.NewUserRepository, memory.NewTransactionManager)
	}

	return fx.Provide(postgres.New, postgres.NewUserRepository, postgres.NewTransactionManager)
}

// promptPassword reads the password twice without echo from a terminal,
// or a single line when stdin is piped.
func promptPassword(stdin *os.File, w io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "read password")
		}

		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(w, "Password: ")
	first, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}

	fmt.Fprint(w, "Repeat password: ")
	second, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}

	return string(first), nil
}
