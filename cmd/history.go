package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MartyrMind/email-cli-app/internal/history"
	"github.com/MartyrMind/email-cli-app/internal/task"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent delivery attempts",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of attempts to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, _, log, err := loadApp()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("closing history store", "error", cerr)
		}
	}()

	attempts, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(attempts) == 0 {
		fmt.Println(styleDim.Render("no delivery attempts recorded yet"))
		return nil
	}

	for _, a := range attempts {
		style := styleSuccess
		if a.Status == task.StatusError {
			style = styleError
		}
		fmt.Printf("%s  %s  %s  %s  %s\n",
			styleDim.Render(a.CreatedAt.Local().Format(time.DateTime)),
			style.Render(fmt.Sprintf("%-7s", a.Status)),
			a.Recipient,
			a.Profile,
			styleDim.Render(a.Subject),
		)
	}
	return nil
}
