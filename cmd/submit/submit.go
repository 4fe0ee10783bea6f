package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/services"
	"github.com/spf13/cobra"
)

var (
	cfgPath   string
	shopID    string
	files     []string
	printType string
	sides     string
	copies    int
)

var Cmd = &cobra.Command{
	Use:   "submit [files]...",
	Short: "Upload files to a print shop and get a claim token",
	Long:  "Upload files to a print shop and get a claim token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if shopID == "" {
			return errors.New("--shop is required")
		}
		files = append(files, args...)
		if len(files) == 0 {
			return errors.New("at least one file is required")
		}

		mode, err := models.ParsePrintMode(printType)
		if err != nil {
			return err
		}
		sidedness, err := models.ParsePrintSides(sides)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		sel := &models.UploadSelection{Mode: mode, Sides: sidedness, Copies: copies}
		if sel.Copies == 0 {
			sel.Copies = a.Config.Upload.DefaultCopies
		}
		for _, file := range files {
			if err := sel.AddFile(file); err != nil {
				slog.Error("Fail to probe file", "file", file, "error", err)
				return nil
			}
		}

		shop, err := a.Client.Shop(ctx, shopID)
		if err != nil {
			slog.Error("Fail to fetch shop", "shop", shopID, "error", err)
			return nil
		}

		job, err := services.Submit(ctx, a.Client, a.Store, shop, sel, a.Config.Rules())
		if err != nil {
			slog.Error("Fail to submit", "shop", shopID, "error", err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Submitted %d file(s) to %s\n", len(job.Files), shop.Name)
		for _, f := range job.Files {
			fmt.Fprintf(os.Stdout, "\t%s (%d bytes)\n", f.Name, f.Size)
		}
		fmt.Fprintf(os.Stdout, "Options: %s, %s sided, %d copies\n", job.PrintType, job.PrintSides, job.Copies)
		fmt.Fprintf(os.Stdout, "Claim token: %s\n", job.Token)
		fmt.Fprintln(os.Stdout, "Keep this token to collect your prints. Check progress with 'printflow status'.")
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&shopID, "shop", "s", "", "Shop identifier")
	Cmd.PersistentFlags().StringSliceVarP(&files, "file", "f", []string{}, "File to be printed")
	Cmd.PersistentFlags().StringVarP(&printType, "type", "t", "mono", "Print mode: mono or color")
	Cmd.PersistentFlags().StringVar(&sides, "sides", "single", "Print sides: single or double")
	Cmd.PersistentFlags().IntVarP(&copies, "copies", "n", 0, "Number of copies (default from config)")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
