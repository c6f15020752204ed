package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"tasktrack/database"
	"tasktrack/models"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	taskAddContent  string
	taskAddCategory string
	taskAddDate     string
	taskAddTags     []string
	taskAddRepeat   string

	taskListTags     []string
	taskListCategory string
	taskListDone     bool
	taskListPending  bool
	taskListDeleted  bool
	taskListPage     int
	taskListPageSize int
	taskListSortBy   string
	taskListOrder    string

	taskRmPermanent bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(args[0])
		if title == "" {
			return errors.New("task title cannot be empty")
		}
		repeat := taskAddRepeat
		if repeat == "" {
			repeat = models.RepeatNever
		}
		if !models.ValidRepeat(repeat) {
			return fmt.Errorf("invalid repeat value '%s' (expected never, daily, weekly, monthly or custom)", repeat)
		}

		create := models.CreateTask{
			Title:   title,
			Repeat:  repeat,
			Content: taskAddContent,
			Tags:    taskAddTags,
		}
		if taskAddCategory != "" {
			create.Category = &taskAddCategory
		}
		if taskAddDate != "" {
			due, err := time.ParseInLocation("2006-01-02", taskAddDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date value '%s' (expected YYYY-MM-DD): %w", taskAddDate, err)
			}
			epoch := due.Unix()
			create.Date = &epoch
		}

		task, err := database.CreateTask(create)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		var query models.TaskListQuery
		query.Page = taskListPage
		query.PageSize = taskListPageSize
		query.SortBy = taskListSortBy
		query.SortOrder = taskListOrder
		query.Tags = taskListTags
		if taskListCategory != "" {
			query.Category = &taskListCategory
		}
		if taskListDone && taskListPending {
			return errors.New("--done and --pending are mutually exclusive")
		}
		if taskListDone {
			done := true
			query.IsDone = &done
		}
		if taskListPending {
			done := false
			query.IsDone = &done
		}

		var page models.Page[models.Task]
		var err error
		if taskListDeleted {
			page, err = database.ListDeletedTasks(query)
		} else {
			page, err = database.ListTasks(query)
		}
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(page.Data) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDUE\tCATEGORY\tTAGS\tDONE")
		for _, task := range page.Data {
			due := ""
			if task.Date != nil {
				due = time.Unix(*task.Date, 0).Format("2006-01-02")
			}
			category := ""
			if task.Category != nil {
				category = *task.Category
			}
			done := " "
			if task.IsDone {
				done = "x"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t[%s]\n",
				task.ID, task.Title, due, category, strings.Join(task.Tags, ","), done)
		}
		w.Flush()
		fmt.Printf("Page %d/%d (%d tasks total)\n", page.Page, page.TotalPages, page.Total)
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task, including soft-deleted ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := database.GetTaskByID(args[0])
		if err != nil {
			if errors.Is(err, database.ErrTaskNotFound) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return fmt.Errorf("failed to fetch task: %w", err)
		}

		fmt.Printf("ID:       %s\n", task.ID)
		fmt.Printf("Title:    %s\n", task.Title)
		if task.Date != nil {
			fmt.Printf("Due:      %s\n", time.Unix(*task.Date, 0).Format("2006-01-02"))
		}
		fmt.Printf("Repeat:   %s\n", task.Repeat)
		if task.Category != nil {
			fmt.Printf("Category: %s\n", *task.Category)
		}
		if len(task.Tags) > 0 {
			fmt.Printf("Tags:     %s\n", strings.Join(task.Tags, ", "))
		}
		fmt.Printf("Done:     %t\n", task.IsDone)
		fmt.Printf("Deleted:  %t\n", task.IsDeleted)
		if task.Content != "" {
			fmt.Printf("\n%s\n", task.Content)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		done := true
		_, err := database.UpdateTask(models.UpdateTask{ID: args[0], IsDone: &done})
		if err != nil {
			if errors.Is(err, database.ErrTaskNotFound) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return fmt.Errorf("failed to update task: %w", err)
		}
		fmt.Printf("Task %s marked as done.\n", args[0])
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Move a task to the trash (or remove it permanently with --permanent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if taskRmPermanent {
			err = database.HardDeleteTask(args[0])
		} else {
			err = database.SoftDeleteTask(args[0])
		}
		if err != nil {
			if errors.Is(err, database.ErrTaskNotFound) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if taskRmPermanent {
			fmt.Printf("Task %s permanently deleted.\n", args[0])
		} else {
			fmt.Printf("Task %s moved to trash.\n", args[0])
		}
		return nil
	},
}

var taskRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a task from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.RestoreTask(args[0]); err != nil {
			if errors.Is(err, database.ErrTaskNotFound) {
				return fmt.Errorf("task %s not found", args[0])
			}
			return fmt.Errorf("failed to restore task: %w", err)
		}
		fmt.Printf("Task %s restored.\n", args[0])
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskAddContent, "content", "m", "", "free-text content for the task")
	taskAddCmd.Flags().StringVarP(&taskAddCategory, "category", "c", "", "category label")
	taskAddCmd.Flags().StringVarP(&taskAddDate, "date", "d", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringSliceVarP(&taskAddTags, "tags", "t", nil, "tags to attach (comma separated or repeated)")
	taskAddCmd.Flags().StringVarP(&taskAddRepeat, "repeat", "r", "", "recurrence: never, daily, weekly, monthly or custom")

	taskListCmd.Flags().StringSliceVarP(&taskListTags, "tags", "t", nil, "only tasks carrying every listed tag")
	taskListCmd.Flags().StringVarP(&taskListCategory, "category", "c", "", "only tasks with this exact category")
	taskListCmd.Flags().BoolVar(&taskListDone, "done", false, "only completed tasks")
	taskListCmd.Flags().BoolVar(&taskListPending, "pending", false, "only pending tasks")
	taskListCmd.Flags().BoolVar(&taskListDeleted, "deleted", false, "list the trash instead of active tasks")
	taskListCmd.Flags().IntVar(&taskListPage, "page", 0, "page number (omit to list everything)")
	taskListCmd.Flags().IntVar(&taskListPageSize, "page-size", 0, "page size (omit to list everything)")
	taskListCmd.Flags().StringVar(&taskListSortBy, "sort", "", "sort field: created_at, updated_at, title or date")
	taskListCmd.Flags().StringVar(&taskListOrder, "order", "", "sort order: asc or desc")

	taskRmCmd.Flags().BoolVar(&taskRmPermanent, "permanent", false, "remove the row and its associations irreversibly")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskDoneCmd, taskRmCmd, taskRestoreCmd)
	rootCmd.AddCommand(taskCmd)
}
