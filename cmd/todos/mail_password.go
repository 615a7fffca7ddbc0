package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/todos/internal/credential"
	"github.com/nhle/todos/internal/model"
)

var (
	mailUsername    string
	mailPasswordDel bool
)

// mail-password
var mailPasswordCmd = &cobra.Command{
	Use:   "mail-password",
	Short: "Store the IMAP password used for mail reminders in the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runMailPassword,
}

func init() {
	mailPasswordCmd.Flags().StringVar(&mailUsername, "username", "", "IMAP username (defaults to mail.username from the config)")
	mailPasswordCmd.Flags().BoolVar(&mailPasswordDel, "delete", false, "remove the stored password")
	rootCmd.AddCommand(mailPasswordCmd)
}

func runMailPassword(cmd *cobra.Command, args []string) error {
	username := mailUsername
	if username == "" {
		cfg, err := model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		username = cfg.Mail.Username
	}
	if username == "" {
		return errors.New("no IMAP username: pass --username or set mail.username")
	}

	creds, err := credential.Open(model.ConfigDir())
	if err != nil {
		return err
	}
	key := credential.MailPasswordKey(username)

	if mailPasswordDel {
		if err := creds.Delete(key); err != nil {
			return err
		}
		fmt.Printf("Removed the mail password for %s.\n", username)
		return nil
	}

	var password string
	err = huh.NewInput().
		Title("IMAP password for " + username).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("password is required")
			}
			return nil
		}).
		Run()
	if err != nil {
		return err
	}

	if err := creds.Set(key, password); err != nil {
		return err
	}
	fmt.Printf("Stored the mail password for %s.\n", username)
	return nil
}
