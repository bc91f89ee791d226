package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Change imported messages",
	}
	cmd.AddCommand(newMarkReadCmd())
	cmd.AddCommand(newMessagesRemoveCmd())
	return cmd
}

func newMarkReadCmd() *cobra.Command {
	var unreadFlag bool

	cmd := &cobra.Command{
		Use:   "mark-read <message-id>",
		Short: "Mark a message as read or unread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			read := !unreadFlag
			if _, err := sess.messages.MarkRead(cmd.Context(), args[0], read); err != nil {
				return fmt.Errorf("failed to update message: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "mark-read", MessageID: args[0], Read: &read})
			}
			if read {
				fmt.Println("Marked as read.")
			} else {
				fmt.Println("Marked as unread.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadFlag, "unread", false, "mark as unread instead of read")
	return cmd
}

func newMessagesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <message-id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.messages.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete message: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "rm", MessageID: args[0]})
			}
			fmt.Printf("Message %s deleted.\n", args[0])
			return nil
		},
	}
}
