package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/pillars/internal/cli"
	"github.com/julianstephens/pillars/internal/keyring"
)

type TokenCmd struct {
	Set    TokenSetCmd    `cmd:"" help:"Store a WHOOP access token in the OS keyring."`
	Delete TokenDeleteCmd `cmd:"" help:"Remove the stored WHOOP access token."`
}

type TokenSetCmd struct {
	Token string `arg:"" help:"WHOOP OAuth access token." env:"PILLARS_WHOOP_TOKEN"`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.SetWhoopToken(token); err != nil {
		return fmt.Errorf("failed to store WHOOP token in keyring: %w", err)
	}
	fmt.Println("✓ WHOOP token stored in OS keyring")
	return nil
}

type TokenDeleteCmd struct{}

func (cmd *TokenDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteWhoopToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no WHOOP token found in keyring")
		}
		return fmt.Errorf("failed to delete WHOOP token from keyring: %w", err)
	}
	fmt.Println("✓ WHOOP token deleted from OS keyring")
	return nil
}
