package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/database/settings"
	syncrepo "github.com/mrlokans/kosync/internal/database/sync"
	"github.com/mrlokans/kosync/internal/database/users"
	"github.com/mrlokans/kosync/internal/settingsstore"
)

type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string

	cfg *config.Config
}

func NewCreateUserCommand(cfg *config.Config) *CreateUserCommand {
	return &CreateUserCommand{cfg: cfg}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username of the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Plain text password of the new account (required)")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the sqlite database (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an active, non-administrator sync account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username alice -password secret\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("username and password are required")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := openDatabase(cmd.cfg, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	keys, err := auth.NewKeyStore(cmd.cfg.Auth)
	if err != nil {
		return err
	}

	progressRepo := syncrepo.NewRepository(db.DB)
	service := accounts.NewService(
		users.NewRepository(db.DB),
		progressRepo,
		settingsstore.New(settings.NewRepository(db.DB)),
		keys,
		accounts.Options{},
	)

	actor := auth.Identity{Username: operator, Authenticated: true, Active: true, Admin: true}
	user, err := service.Create(actor, cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", cmd.Username, err)
	}

	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
