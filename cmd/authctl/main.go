// authctl is an operator tool for the auth service. It provisions author
// accounts and inspects refresh-token records directly against the database,
// bypassing the HTTP API.
//
// Usage:
//
//	authctl [flags] create-author
//	authctl [flags] sessions <author-id>
//
// Connection flags are shared with the server (-d for the DSN, -c for a
// JSON config file).
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/avelichko/inkwell-auth/internal/server/auth"
	"github.com/avelichko/inkwell-auth/internal/server/config"
	"github.com/avelichko/inkwell-auth/internal/server/models"
	"github.com/avelichko/inkwell-auth/internal/server/repositories/repomanager"
)

func main() {
	args := nonFlagArgs(os.Args[1:])
	if len(args) == 0 {
		fmt.Println("usage: authctl [flags] create-author | sessions <author-id>")
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()

	switch args[0] {
	case "create-author":
		err = createAuthor(ctx, rm, db, cfg)
	case "sessions":
		if len(args) < 2 {
			fmt.Println("usage: authctl [flags] sessions <author-id>")
			os.Exit(2)
		}
		err = listSessions(ctx, rm, db, args[1])
	default:
		fmt.Printf("unknown command %q\n", args[0])
		os.Exit(2)
	}
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// nonFlagArgs strips flags and their values, leaving subcommand words.
func nonFlagArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Println(label)
	fmt.Print("> ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func createAuthor(ctx context.Context, rm repomanager.RepositoryManager, db *sql.DB, cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	name, err := prompt(reader, "Enter author name")
	if err != nil {
		return err
	}
	email, err := prompt(reader, "Enter email")
	if err != nil {
		return err
	}
	roleInput, err := prompt(reader, "Enter role (author/admin, default author)")
	if err != nil {
		return err
	}
	role := models.RoleAuthor
	if roleInput != "" {
		role = models.Role(roleInput)
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", roleInput)
		}
	}

	fmt.Println("Enter password (empty to disable password login)")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	fmt.Println()

	var passwordHash string
	if len(password) > 0 {
		passwordHash, err = auth.HashPassword(string(password), cfg.PasswordHashCost)
		if err != nil {
			return err
		}
	}

	author, err := rm.Authors(db).Create(ctx, &models.Author{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		Role:         role,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created author id=%d email=%s role=%s\n", author.ID, author.Email, author.Role)
	return nil
}

func listSessions(ctx context.Context, rm repomanager.RepositoryManager, db *sql.DB, rawID string) error {
	authorID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid author id %q", rawID)
	}

	tokens, err := rm.RefreshTokens(db).ListByAuthor(ctx, authorID)
	if err != nil {
		return err
	}

	if len(tokens) == 0 {
		fmt.Println("no refresh tokens")
		return nil
	}
	for _, t := range tokens {
		state := "active"
		if t.Revoked {
			state = "revoked"
		}
		fmt.Printf("%s  %-7s  expires %s  created %s\n",
			t.ID, state, t.ExpiresAt.Format("2006-01-02 15:04:05"), t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
