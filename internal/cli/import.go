package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/tagside/internal/app"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [fixture.yaml]",
		Short: "Import mailboxes and messages from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open fixture: %w", err)
			}
			defer f.Close()

			fixture, err := app.ParseFixture(f)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			if err := sess.tags.EnsureSystemTags(ctx); err != nil {
				return err
			}
			res, err := app.NewImporter(sess.db, sess.tags.AccountID()).Import(ctx, fixture)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			if jsonFlag {
				return printJSON(toJSONImport(sess.tags.AccountID(), res))
			}
			fmt.Printf("Imported %d messages, created %d tags.\n", res.Messages, res.TagsCreated)
			return nil
		},
	}
}
