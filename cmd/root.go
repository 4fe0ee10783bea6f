package cmd

import (
	"log/slog"
	"os"

	"github.com/printflow2050/printflow-cli/cmd/download"
	"github.com/printflow2050/printflow-cli/cmd/jobs"
	"github.com/printflow2050/printflow-cli/cmd/login"
	"github.com/printflow2050/printflow-cli/cmd/logout"
	"github.com/printflow2050/printflow-cli/cmd/reset"
	"github.com/printflow2050/printflow-cli/cmd/shop"
	"github.com/printflow2050/printflow-cli/cmd/status"
	"github.com/printflow2050/printflow-cli/cmd/submit"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "printflow",
	Short: "Print shop job submission CLI",
	Long:  "Print shop job submission CLI",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		slog.Error("Fail to execute", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(shop.Cmd)
	rootCmd.AddCommand(submit.Cmd)
	rootCmd.AddCommand(status.Cmd)
	rootCmd.AddCommand(reset.Cmd)
	rootCmd.AddCommand(login.Cmd)
	rootCmd.AddCommand(logout.Cmd)
	rootCmd.AddCommand(jobs.Cmd)
	rootCmd.AddCommand(download.Cmd)
}
