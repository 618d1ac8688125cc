package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List contacts and mark them verified",
	}
	cmd.AddCommand(contactsListCmd(), contactsShowCmd(), contactsVerifyCmd())
	return cmd
}

func contactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			all, err := appCtx.Contacts.List(pass)
			if err != nil {
				return err
			}
			for _, c := range all {
				mark := " "
				if c.Verified {
					mark = "*"
				}
				fmt.Printf("%s %s  %s  sync=%s\n", mark, c.ID[:16], c.DisplayName, c.Sync.State)
			}
			return nil
		},
	}
}

func contactsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <contact-id>",
		Short: "Print one contact's card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			c, ok, err := appCtx.Contacts.Get(pass, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no contact %s", args[0])
			}
			fmt.Printf("%s (verified: %v)\n", c.DisplayName, c.Verified)
			for _, f := range c.RemoteCard.Fields {
				fmt.Printf("  [%s] %s: %s\n", f.Type, f.Label, f.Value)
			}
			return nil
		},
	}
}

func contactsVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <contact-id>",
		Short: "Mark a contact as verified after comparing fingerprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			return appCtx.Contacts.MarkVerified(pass, args[0])
		},
	}
}
