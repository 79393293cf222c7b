// Command adduser creates a user account directly in the database, prompting
// for the password on the terminal. Useful for bootstrapping the first
// account without going through the HTTP API.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/avoronova/postboard-auth/internal/common"
	"github.com/avoronova/postboard-auth/internal/server/auth"
	"github.com/avoronova/postboard-auth/internal/server/config"
	"github.com/avoronova/postboard-auth/internal/server/models"
	"github.com/avoronova/postboard-auth/internal/server/repositories/repomanager"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	email, err := promptEmail()
	if err != nil {
		return err
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	user, err := rm.Users(db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("user %s already exists", email)
		}
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Printf("created user %s (id=%d)\n", user.Email, user.ID)
	return nil
}

func promptEmail() (string, error) {
	fmt.Print("Email: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading email: %w", err)
	}
	email := strings.TrimSpace(line)
	if email == "" {
		return "", errors.New("email must not be empty")
	}
	return email, nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	defer common.WipeByteArray(pw)
	if len(pw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pw), nil
}
