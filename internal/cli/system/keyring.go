package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/keyring"
	"github.com/julianstephens/pillars/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability and stored secrets."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Println("  Use --config keyring to connect with it")
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

// secrets lists what pillars may keep in the keyring and how to display it.
var secrets = []struct {
	label string
	get   func() (string, error)
	show  func(string) string
}{
	{"Connection string", keyring.GetConnectionString, maskPassword},
	{"WHOOP access token", keyring.GetWhoopToken, func(string) string { return "(hidden)" }},
}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	for _, sec := range secrets {
		value, err := sec.get()
		switch {
		case err == nil:
			fmt.Printf("✓ %s: %s\n", sec.label, sec.show(value))
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ %s: not stored\n", sec.label)
		default:
			fmt.Printf("⚠ %s: %v\n", sec.label, err)
		}
	}
	return nil
}

// maskPassword replaces the password in the userinfo of a URL-form
// connection string with ****.
func maskPassword(connStr string) string {
	scheme, rest, ok := strings.Cut(connStr, "://")
	if !ok {
		return connStr
	}
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return connStr
	}
	user, _, hasPassword := strings.Cut(rest[:at], ":")
	if !hasPassword {
		return connStr
	}
	return scheme + "://" + user + ":****" + rest[at:]
}
