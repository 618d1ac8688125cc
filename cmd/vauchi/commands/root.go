package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vauchi/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	verbose    bool

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:           "vauchi",
		Short:         "End-to-end encrypted contact card sync",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".vauchi")
			}
			w, err := app.NewWire(app.Config{
				Home:     home,
				RelayURL: relayURL,
				Verbose:  verbose,
			})
			if err != nil {
				return err
			}
			appCtx = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.vauchi)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys (prompted if empty)")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		cardCmd(),
		contactsCmd(),
		visibilityCmd(),
		exchangeCmd(),
		syncCmd(),
		backupCmd(),
	)
	return root.Execute()
}

// getPassphrase returns -p, or prompts on the terminal without echo.
func getPassphrase() (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	passphrase = string(b)
	return passphrase, nil
}
