package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/database/settings"
	"github.com/mrlokans/kosync/internal/settingsstore"
)

type SetSettingCommand struct {
	Key          string
	Value        string
	DatabasePath string

	cfg *config.Config
}

func NewSetSettingCommand(cfg *config.Config) *SetSettingCommand {
	return &SetSettingCommand{cfg: cfg}
}

func (cmd *SetSettingCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("set-setting", flag.ContinueOnError)

	fs.StringVar(&cmd.Key, "key", "", "Setting name, e.g. RegistrationDisabled (required)")
	fs.StringVar(&cmd.Value, "value", "", "Setting value")
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the sqlite database (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s set-setting [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create or overwrite a system setting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s set-setting -key RegistrationDisabled -value true\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s set-setting -key AdminEmail -value ops@example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Key == "" {
		fs.Usage()
		return fmt.Errorf("key is required")
	}

	return nil
}

func (cmd *SetSettingCommand) Run() error {
	db, err := openDatabase(cmd.cfg, cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := settingsstore.New(settings.NewRepository(db.DB))
	if err := store.Update(map[string]string{cmd.Key: cmd.Value}); err != nil {
		return fmt.Errorf("failed to update setting %s: %w", cmd.Key, err)
	}

	fmt.Printf("%s=%s\n", cmd.Key, cmd.Value)
	return nil
}
