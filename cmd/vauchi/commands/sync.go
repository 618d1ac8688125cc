package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push your card changes and pull theirs",
	}
	cmd.AddCommand(syncPushCmd(), syncPullCmd())
	return cmd
}

func syncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Send pending card changes to all contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			if err := appCtx.Sync.Push(cmd.Context(), pass); err != nil {
				return err
			}
			fmt.Println("pushed")
			return nil
		},
	}
}

func syncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch and apply queued card updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			ups, err := appCtx.Sync.Pull(cmd.Context(), pass)
			if err != nil {
				return err
			}
			if len(ups) == 0 {
				fmt.Println("up to date")
				return nil
			}
			for _, u := range ups {
				if u.NewContact {
					fmt.Printf("new contact: %s (%s)\n", u.DisplayName, u.ContactID[:16])
					continue
				}
				fmt.Printf("%s: +%d ~%d -%d\n", u.DisplayName, u.Added, u.Changed, u.Removed)
			}
			return nil
		},
	}
}
