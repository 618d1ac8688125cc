package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initName string

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the local identity and an empty card",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			_, fp, err := appCtx.Identity.Create(pass, initName)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nFingerprint: %s\n", fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&initName, "name", "", "display name shown to contacts")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
