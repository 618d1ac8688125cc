package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vauchi/internal/domain"
)

var (
	fieldType  string
	exportFile string
)

func cardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Show and edit your contact card",
	}
	cmd.AddCommand(cardShowCmd(), cardNameCmd(), cardAddCmd(), cardUpdateCmd(),
		cardRemoveCmd(), cardExportCmd(), cardImportCmd())
	return cmd
}

func cardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your card",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			c, err := appCtx.Cards.Get(pass)
			if err != nil {
				return err
			}
			fmt.Printf("%s (v%d)\n", c.DisplayName, c.Version)
			for _, f := range c.Fields {
				fmt.Printf("  %s  [%s] %s: %s\n", f.ID, f.Type, f.Label, f.Value)
			}
			return nil
		},
	}
}

func cardNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <display-name>",
		Short: "Change your display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			return appCtx.Cards.SetDisplayName(pass, args[0])
		},
	}
}

func cardAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <label> <value>",
		Short: "Add a field to your card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			f, err := appCtx.Cards.AddField(pass, domain.FieldType(fieldType), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", f.Label, f.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fieldType, "type", string(domain.FieldCustom),
		"field type: email, phone, website, address, social, custom")
	return cmd
}

func cardUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <field-id> <label> <value>",
		Short: "Rewrite an existing field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			return appCtx.Cards.UpdateField(pass, args[0], args[1], args[2])
		},
	}
}

func cardExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write your card as vCard 4.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			out, err := appCtx.Cards.ExportVCard(pass)
			if err != nil {
				return err
			}
			if exportFile == "" {
				fmt.Println(out)
				return nil
			}
			if err := os.WriteFile(exportFile, []byte(out+"\r\n"), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", exportFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportFile, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func cardImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace your card from a vCard file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := appCtx.Cards.ImportVCard(pass, string(data))
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s with %d fields. Run 'vauchi sync push' to share it.\n",
				c.DisplayName, len(c.Fields))
			return nil
		},
	}
}

func cardRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <field-id>",
		Short: "Remove a field from your card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			return appCtx.Cards.RemoveField(pass, args[0])
		},
	}
}
