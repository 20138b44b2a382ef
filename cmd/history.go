package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"votebench/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past suite runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewStore()
		if err != nil {
			return err
		}

		items := store.List()
		if len(items) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}

		for _, item := range items {
			s := item.Summary
			fmt.Printf("%s  %-8s  %d experiments  %d votes (%d failed)  peak %.1f votes/min  worst err %.2f%%\n",
				item.Timestamp.Format("2006-01-02 15:04"),
				s.Profile, s.Experiments,
				s.VotesProcessed, s.VotesFailed,
				s.PeakThroughputPerMin, s.WorstErrorRatePct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
