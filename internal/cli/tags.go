package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/tagside/internal/app"
	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/sidebar"
	"github.com/lu-zhengda/tagside/internal/theme"
)

var colorFlagHelp = "label color: " + strings.Join(theme.Default().Names(), ", ")

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage sidebar tags",
	}
	cmd.AddCommand(newTagsListCmd())
	cmd.AddCommand(newTagsAddCmd())
	cmd.AddCommand(newTagsEditCmd())
	cmd.AddCommand(newTagsRemoveCmd())
	cmd.AddCommand(newTagsOrderCmd())
	cmd.AddCommand(newTagsCollapseCmd())
	return cmd
}

var listedDisplays = []domain.Display{domain.DisplayPriority, domain.DisplayTag, domain.DisplayArchive}

func newTagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags with message counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			var all []domain.Tag
			for _, d := range listedDisplays {
				tree, err := sess.db.TagTree(cmd.Context(), sess.tags.AccountID(), d)
				if err != nil {
					return fmt.Errorf("failed to list tags: %w", err)
				}
				all = append(all, tree...)
			}

			if jsonFlag {
				return printJSON(toJSONTags(all))
			}
			return writeTagTable(os.Stdout, all)
		},
	}
}

func writeTagTable(out io.Writer, tags []domain.Tag) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tNAME\tDISPLAY\tALL\tUNREAD")
	for _, t := range tags {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			t.ID, t.Slug, t.Name, t.Display, t.Stats.All,
			sidebar.UnreadCount(sidebar.KindOf(t.Slug), t.Stats),
		)
		for _, sub := range t.Subtags {
			fmt.Fprintf(w, "%d\t  %s\t  %s\t%s\t%d\t%d\n",
				sub.ID, sub.Slug, sub.Name, sub.Display, sub.Stats.All,
				sidebar.SubtagUnreadCount(sub.Stats),
			)
		}
	}
	return w.Flush()
}

func newTagsAddCmd() *cobra.Command {
	var (
		icon    string
		color   string
		display string
		parent  string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			req := app.CreateTagRequest{
				Name:       strings.Join(args, " "),
				Icon:       icon,
				LabelColor: color,
				Display:    display,
			}
			if parent != "" {
				p, err := sess.db.GetTagBySlug(ctx, sess.tags.AccountID(), parent)
				if err != nil {
					return fmt.Errorf("failed to find parent tag %s: %w", parent, err)
				}
				req.ParentID = p.ID
			}

			tag, err := sess.tags.CreateTag(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add", TagID: tag.ID, Slug: tag.Slug})
			}
			fmt.Printf("Tag created: %s (%d)\n", tag.Slug, tag.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "icon class (default icon-tag)")
	cmd.Flags().StringVar(&color, "color", "", colorFlagHelp+" (default blue)")
	cmd.Flags().StringVar(&display, "display", "", "display mode: priority, tag, archive or invisible")
	cmd.Flags().StringVar(&parent, "parent", "", "slug of the parent tag")
	return cmd
}

func newTagsEditCmd() *cobra.Command {
	var (
		name    string
		icon    string
		color   string
		display string
	)

	cmd := &cobra.Command{
		Use:   "edit [slug]",
		Short: "Rename a tag or change how it is shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			tag, err := sess.db.GetTagBySlug(ctx, sess.tags.AccountID(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find tag %s: %w", args[0], err)
			}
			updated, err := sess.tags.UpdateTag(ctx, tag.ID, app.UpdateTagRequest{
				Name:       name,
				Icon:       icon,
				LabelColor: color,
				Display:    display,
			})
			if err != nil {
				return fmt.Errorf("failed to update tag: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "edit", TagID: updated.ID, Slug: updated.Slug})
			}
			fmt.Printf("Tag updated: %s (%d)\n", updated.Slug, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name; the slug follows it")
	cmd.Flags().StringVar(&icon, "icon", "", "icon class")
	cmd.Flags().StringVar(&color, "color", "", colorFlagHelp)
	cmd.Flags().StringVar(&display, "display", "", "display mode: priority, tag, archive or invisible")
	return cmd
}

func newTagsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [slug]",
		Short: "Delete a tag and its subtags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			tag, err := sess.db.GetTagBySlug(ctx, sess.tags.AccountID(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find tag %s: %w", args[0], err)
			}
			if err := sess.tags.DeleteTag(ctx, tag.ID); err != nil {
				return fmt.Errorf("failed to delete tag: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "rm", TagID: tag.ID, Slug: tag.Slug})
			}
			fmt.Printf("Tag %s deleted.\n", tag.Slug)
			return nil
		},
	}
}

func newTagsOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order [slug...]",
		Short: "Set the display order of sibling tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			ids := make([]int64, 0, len(args))
			for _, s := range args {
				tag, err := sess.db.GetTagBySlug(ctx, sess.tags.AccountID(), s)
				if err != nil {
					return fmt.Errorf("failed to find tag %s: %w", s, err)
				}
				ids = append(ids, tag.ID)
			}
			if err := sess.tags.Reorder(ctx, ids); err != nil {
				return fmt.Errorf("failed to reorder tags: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "order", AccountID: sess.tags.AccountID()})
			}
			fmt.Printf("Reordered %d tags.\n", len(ids))
			return nil
		},
	}
}

func newTagsCollapseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collapse [slug]",
		Short: "Toggle whether a tag's subtags are shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			tag, err := sess.db.GetTagBySlug(ctx, sess.tags.AccountID(), args[0])
			if err != nil {
				return fmt.Errorf("failed to find tag %s: %w", args[0], err)
			}
			collapsed, err := sess.tags.ToggleSubtags(ctx, tag.ID)
			if err != nil {
				return fmt.Errorf("failed to toggle subtags: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "collapse", TagID: tag.ID, Slug: tag.Slug, Collapsed: &collapsed})
			}
			state := "expanded"
			if collapsed {
				state = "collapsed"
			}
			fmt.Printf("Subtags of %s %s.\n", tag.Slug, state)
			return nil
		},
	}
}
