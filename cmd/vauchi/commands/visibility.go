package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vauchi/internal/domain"
)

// visibility set <contact-id> <field-id> everyone|nobody|contacts [ids…]
func visibilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visibility",
		Short: "Control which contacts see which fields",
	}
	cmd.AddCommand(visibilitySetCmd())
	return cmd
}

func visibilitySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <contact-id> <field-id> <everyone|nobody|contacts> [contact-ids...]",
		Short: "Set a field's rule for one contact",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			var v domain.Visibility
			switch args[2] {
			case "everyone":
				v = domain.Everyone()
			case "nobody":
				v = domain.Nobody()
			case "contacts":
				v = domain.OnlyContacts(args[3:]...)
			default:
				return fmt.Errorf("unknown rule %q", args[2])
			}
			if err := appCtx.Contacts.SetVisibility(pass, args[0], args[1], v); err != nil {
				return err
			}
			fmt.Println("Rule saved. Run 'vauchi sync push' to apply.")
			return nil
		},
	}
}
