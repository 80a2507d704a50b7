package cmd

import (
	"github.com/carousell/ct-go/pkg/logger/log"
	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/complaint-registry/internal/app"
	"github.com/nguyentranbao-ct/complaint-registry/internal/server"
)

var rootCmd = &cobra.Command{
	Use:           "complaint-registry",
	Short:         "Complaint ticketing REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
