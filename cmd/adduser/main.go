// Command adduser creates a pre-verified account directly in the database,
// for bootstrapping deployments where public registration is not wanted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance/internal/auth"
	"finance/internal/core"
	"finance/internal/storage"

	"golang.org/x/term"
)

const (
	defaultDriver = "sqlite"
	defaultDSN    = "./data/finance.db"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Account email")
	fullName := fs.String("name", "", "Full name")
	passwordFlag := fs.String("password", "", "Password (prompted for when omitted)")
	driver := fs.String("driver", defaultDriver, "Database driver (sqlite or postgres)")
	dsn := fs.String("dsn", defaultDSN, "Database DSN or sqlite file path")
	cost := fs.Int("cost", 10, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	if strings.TrimSpace(*email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(*fullName) == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> -name <full name> [-password <password>] [-driver sqlite|postgres] [-dsn <dsn>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	// Environment wins only over values left at their defaults.
	if v := os.Getenv("DATABASE_DRIVER"); v != "" && *driver == defaultDriver {
		*driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" && *dsn == defaultDSN {
		*dsn = v
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, *driver, *dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	users := storage.NewUserRepository(db)
	normalized := core.NormalizeEmail(*email)
	exists, err := users.ExistsByEmail(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return fmt.Errorf("user %s already exists", normalized)
	}

	hash, err := auth.NewHasher(*cost).Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		Email:         normalized,
		PasswordHash:  hash,
		FullName:      strings.TrimSpace(*fullName),
		EmailVerified: true,
	}
	if err := users.Save(ctx, user); err != nil {
		if errors.Is(err, core.ErrEmailExists) {
			return fmt.Errorf("user %s already exists", normalized)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
