package logout

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/spf13/cobra"
)

var cfgPath string

var Cmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored owner credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.ClearCredential(ctx); err != nil {
			slog.Error("Fail to clear credential", "error", err)
			return nil
		}

		fmt.Fprintln(os.Stdout, "Logged out.")
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
