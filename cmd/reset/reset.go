package reset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	shopID  string
)

var Cmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored submission for a shop",
	Long:  "Forget the stored claim token for a shop so the next submit starts fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		if shopID == "" {
			return errors.New("--shop is required")
		}

		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.ClearToken(ctx, shopID); err != nil {
			slog.Error("Fail to clear session", "shop", shopID, "error", err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Cleared stored submission for shop %s.\n", shopID)
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&shopID, "shop", "s", "", "Shop identifier")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
