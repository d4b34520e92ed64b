package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialforge/dialtone/client"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the address book",
}

var contactsSearch string

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		contacts, err := a.client.ListContacts(cmd.Context(), contactsSearch)
		if err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "failed to fetch contacts"))
		}
		if len(contacts) == 0 {
			fmt.Println("No contacts")
			return nil
		}
		for _, c := range contacts {
			line := fmt.Sprintf("%-24s %-18s", c.Name, c.PhoneNumber)
			if c.Email != "" {
				line += "  " + c.Email
			}
			fmt.Printf("%s  [%s]\n", line, c.ID)
		}
		return nil
	},
}

var (
	contactName  string
	contactPhone string
	contactEmail string
	contactNotes string
)

var contactsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		created, err := a.client.CreateContact(cmd.Context(), client.Contact{
			Name:        contactName,
			PhoneNumber: contactPhone,
			Email:       contactEmail,
			Notes:       contactNotes,
		})
		if err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "failed to save contact"))
		}
		fmt.Printf("Added %s [%s]\n", created.Name, created.ID)
		return nil
	},
}

var contactsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.client.DeleteContact(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("%s", client.UserMessage(err, "failed to delete contact"))
		}
		fmt.Println("Deleted")
		return nil
	},
}

func init() {
	contactsListCmd.Flags().StringVar(&contactsSearch, "search", "", "Filter by name or number")
	contactsAddCmd.Flags().StringVar(&contactName, "name", "", "Contact name")
	contactsAddCmd.Flags().StringVar(&contactPhone, "phone", "", "Phone number")
	contactsAddCmd.Flags().StringVar(&contactEmail, "email", "", "Email address")
	contactsAddCmd.Flags().StringVar(&contactNotes, "notes", "", "Free-form notes")
	_ = contactsAddCmd.MarkFlagRequired("name")
	_ = contactsAddCmd.MarkFlagRequired("phone")

	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsRmCmd)
	rootCmd.AddCommand(contactsCmd)
}
