package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tabload/internal/config"
	"tabload/internal/security"
	"tabload/internal/ui"
	"tabload/pkg/errors"
	"tabload/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the tabload connection profile",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with ingestion defaults and the connection
settings given by flags. Existing files are not overwritten unless --overwrite
is set. Passwords are not written here; use "config set-password".`,
	RunE: runConfigInit,
}

var configSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the destination password in the system keyring",
	Long: `Read a password from the terminal and store it for the given account.
The OS keyring is used where available, with an encrypted file fallback under
the configuration directory.`,
	RunE: runConfigSetPassword,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetPasswordCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().String("account", "", "Snowflake account identifier")
	configInitCmd.Flags().String("username", "", "Snowflake username")
	configInitCmd.Flags().String("role", "", "Default role")
	configInitCmd.Flags().String("warehouse", "", "Default warehouse")
	configInitCmd.Flags().String("database", "", "Default database")
	configInitCmd.Flags().String("schema", "", "Default schema")
	configInitCmd.Flags().Bool("overwrite", false, "Replace an existing configuration file")

	configSetPasswordCmd.Flags().String("account", "", "Snowflake account identifier")
	_ = configSetPasswordCmd.MarkFlagRequired("account")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	if config.Exists() && !overwrite {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("Configuration already exists at %s", config.GetConfigFile())).
			WithComponent("cli").
			WithSuggestions(
				"Pass --overwrite to replace it",
				"Edit the file directly to change individual settings",
			)
	}

	flags := cmd.Flags()
	cfg := &models.Config{Ingest: models.DefaultIngest()}
	cfg.Snowflake.Account, _ = flags.GetString("account")
	cfg.Snowflake.Username, _ = flags.GetString("username")
	cfg.Snowflake.Role, _ = flags.GetString("role")
	cfg.Snowflake.Warehouse, _ = flags.GetString("warehouse")
	cfg.Snowflake.Database, _ = flags.GetString("database")
	cfg.Snowflake.Schema, _ = flags.GetString("schema")

	if err := config.Save(cfg); err != nil {
		return err
	}
	ui.ShowSuccess(fmt.Sprintf("Configuration written to %s", config.GetConfigFile()))
	return nil
}

func runConfigSetPassword(cmd *cobra.Command, args []string) error {
	account, _ := cmd.Flags().GetString("account")

	fmt.Fprintf(os.Stderr, "Password for %s: ", account)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to read password from terminal")
	}
	if len(raw) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "Password cannot be empty").WithComponent("cli")
	}

	store := security.NewCredentialStore(config.GetConfigPath())
	if err := store.Store(account, string(raw)); err != nil {
		return err
	}
	ui.ShowSuccess(fmt.Sprintf("Password stored for account %s", account))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Config file:  %s\n", config.GetConfigFile())
	fmt.Printf("Account:      %s\n", cfg.Snowflake.Account)
	fmt.Printf("Username:     %s\n", cfg.Snowflake.Username)
	fmt.Printf("Role:         %s\n", cfg.Snowflake.Role)
	fmt.Printf("Warehouse:    %s\n", cfg.Snowflake.Warehouse)
	fmt.Printf("Database:     %s\n", cfg.Snowflake.Database)
	fmt.Printf("Schema:       %s\n", cfg.Snowflake.Schema)
	fmt.Printf("Batch size:   %d\n", cfg.Ingest.BatchSize)
	fmt.Printf("Sample rows:  %d\n", cfg.Ingest.SampleRows)
	fmt.Printf("Varchar len:  %s\n", cfg.Ingest.VarcharLength)
	fmt.Printf("Timeout (s):  %d\n", cfg.Ingest.TimeoutSecs)
	if cfg.Snowflake.Password != "" {
		ui.ShowWarning("A plaintext password is present in the config file; prefer \"config set-password\"")
	}
	return nil
}
