package shop

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
	Use:   "shop",
	Short: "Inspect and manage a print shop",
	Long:  "Inspect and manage a print shop",
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show shop details and pricing",
	Long:  "Show shop details and pricing",
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

		shop, err := a.Client.Shop(ctx, shopID)
		if err != nil {
			slog.Error("Fail to fetch shop", "shop", shopID, "error", err)
			return nil
		}

		accepting := "yes"
		if !shop.AcceptingUploads {
			accepting = "no"
		}
		fmt.Fprintf(os.Stdout, "Shop: %s (%s)\n", shop.Name, shop.ID)
		fmt.Fprintf(os.Stdout, "\tMonochrome: %.2f per page\n", shop.CostPerPageMono)
		fmt.Fprintf(os.Stdout, "\tColor: %.2f per page\n", shop.CostPerPageColor)
		fmt.Fprintf(os.Stdout, "\tAccepting uploads: %s\n", accepting)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip whether the shop accepts uploads (owner)",
	Long:  "Flip whether the shop accepts uploads (owner)",
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

		if err := a.RequireCredential(); err != nil {
			return err
		}

		shop, err := a.Client.Shop(ctx, shopID)
		if err != nil {
			slog.Error("Fail to fetch shop", "shop", shopID, "error", err)
			return nil
		}

		accepting, err := a.Client.ToggleUploads(ctx, shopID, !shop.AcceptingUploads)
		if err != nil {
			// The flag keeps its previous value on failure.
			slog.Error("Fail to toggle uploads", "shop", shopID, "error", err)
			return nil
		}

		if accepting {
			fmt.Fprintf(os.Stdout, "%s is now accepting uploads\n", shop.Name)
		} else {
			fmt.Fprintf(os.Stdout, "%s is now closed for uploads\n", shop.Name)
		}
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&shopID, "shop", "s", "", "Shop identifier")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
	Cmd.AddCommand(infoCmd)
	Cmd.AddCommand(toggleCmd)
}
