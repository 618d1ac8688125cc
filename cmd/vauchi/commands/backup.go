package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var backupPassword string

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import an encrypted backup",
	}
	cmd.PersistentFlags().StringVar(&backupPassword, "backup-password", "",
		"password sealing the backup blob (prompted if empty)")
	cmd.AddCommand(backupExportCmd(), backupImportCmd())
	return cmd
}

func getBackupPassword() (string, error) {
	if backupPassword != "" {
		return backupPassword, nil
	}
	fmt.Fprint(os.Stderr, "Backup password: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	backupPassword = string(b)
	return backupPassword, nil
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write an encrypted backup of seed, card, and contacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			bp, err := getBackupPassword()
			if err != nil {
				return err
			}
			blob, err := appCtx.Identity.ExportBackup(pass, bp)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], blob, 0o600); err != nil {
				return err
			}
			fmt.Printf("Backup written to %s (%d bytes)\n", args[0], len(blob))
			return nil
		},
	}
}

func backupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore identity, card, and contacts from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bp, err := getBackupPassword()
			if err != nil {
				return err
			}
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			id, err := appCtx.Identity.ImportBackup(blob, bp, pass)
			if err != nil {
				return err
			}
			fmt.Printf("Restored identity %q.\n", id.DisplayName)
			return nil
		},
	}
}
