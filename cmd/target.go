package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"votebench/internal/dummy"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Run a local stand-in voting platform to load-test against",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		failRate, _ := cmd.Flags().GetFloat64("failure-rate")

		fmt.Printf("stand-in platform on :%d (vote failure rate %.0f%%)\n", port, failRate*100)
		return dummy.Start(dummy.ServerConfig{Port: port, FailureRate: failRate})
	},
}

func init() {
	targetCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	targetCmd.Flags().Float64("failure-rate", 0.05, "fraction of vote submissions rejected with a 500")

	rootCmd.AddCommand(targetCmd)
}
