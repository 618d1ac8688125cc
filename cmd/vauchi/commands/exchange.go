package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func exchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Publish or complete a contact exchange",
	}
	cmd.AddCommand(exchangeBeginCmd(), exchangeCompleteCmd())
	return cmd
}

func exchangeBeginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "begin",
		Short: "Publish a bundle and print its URI for the other party",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			uri, err := appCtx.Exchange.Begin(pass)
			if err != nil {
				return err
			}
			fmt.Println(uri)
			fmt.Println("Share this URI (valid 5 minutes), then run 'vauchi sync pull'.")
			return nil
		},
	}
}

func exchangeCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <bundle-uri>",
		Short: "Complete an exchange from a scanned or pasted URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			c, err := appCtx.Exchange.Complete(cmd.Context(), pass, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Contact added: %s\n", c.ID[:16])
			fmt.Println("Run 'vauchi sync pull' to receive their card.")
			return nil
		},
	}
}
