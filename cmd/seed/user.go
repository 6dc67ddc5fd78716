package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/andresuchdata/stockroom/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

func runUser(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	user, err := newUser(c.String("email"), c.String("name"), c.String("role"), c.String("password"))
	if err != nil {
		return err
	}

	id, err := repository.NewIngestRepository(db).UpsertUser(c.Context, user)
	if err != nil {
		return err
	}
	logger.Log.Info().Str("id", id).Str("email", user.Email).Str("role", string(user.Role)).Msg("user saved")

	if !c.Bool("token") {
		return nil
	}
	secret := c.String("jwt-secret")
	if secret == "" {
		return fmt.Errorf("--jwt-secret (or JWT_SECRET) is required to issue a token")
	}
	token, err := middleware.NewAuthenticator(secret).IssueToken(domain.Principal{ID: id, Role: user.Role}, c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

// newUser validates the account fields and hashes the password.
func newUser(email, name, role, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &domain.User{
		UserName: strings.TrimSpace(name),
		Email:    email,
		Role:     r,
		Password: string(hash),
	}, nil
}
