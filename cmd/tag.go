package cmd

import (
	"errors"
	"fmt"
	"os"
	"tasktrack/database"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags with their usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := database.GetAllTags()
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Println("No tags found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tIN USE\tCREATED")
		for _, tag := range tags {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				tag.ID, tag.Name, tag.UseCount, time.Unix(tag.CreatedAt, 0).Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a tag and detach it from every task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.DeleteTagAndAssociations(args[0]); err != nil {
			if errors.Is(err, database.ErrTagNotFound) {
				return fmt.Errorf("tag %s not found", args[0])
			}
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		fmt.Printf("Tag %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagListCmd, tagRmCmd)
	rootCmd.AddCommand(tagCmd)
}
