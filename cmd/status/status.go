package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/projection"
	"github.com/printflow2050/printflow-cli/internal/push"
	"github.com/printflow2050/printflow-cli/internal/services"
	"github.com/printflow2050/printflow-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	shopID  string
	token   string
	watch   bool
)

var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of your submission",
	Long:  "Show the status of your submission, recovered from the stored claim token",
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
			// Status still works from the job endpoint alone.
			slog.Warn("Fail to fetch shop", "shop", shopID, "error", err)
			shop = models.Shop{ID: shopID}
		}

		var job models.PrintJob
		if token != "" {
			// Explicit token check, leaving the stored session untouched.
			job, err = a.Client.JobStatus(ctx, token)
			if err != nil {
				slog.Error("Fail to fetch status", "token", token, "error", err)
				return nil
			}
		} else {
			recovered, ok, err := services.Recover(ctx, a.Client, a.Store, shopID)
			if err != nil {
				slog.Error("Fail to recover session", "shop", shopID, "error", err)
				return nil
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "No active submission for this shop.")
				return nil
			}
			job = recovered
		}

		printJob(shop, job)

		if !watch {
			return nil
		}

		ch, err := push.Connect(a.PushConfig(ctx, shopID, false))
		if err != nil {
			slog.Error("Fail to open push channel", "error", err)
			return nil
		}
		defer ch.Close()

		view := projection.NewTokenView(shop, job)
		fmt.Fprintln(os.Stdout, "Watching for updates, Ctrl-C to stop...")

		sig := utils.WaitForSignal()
		for {
			select {
			case ev, ok := <-ch.Events():
				if !ok {
					return nil
				}
				if view.Apply(ev) {
					printUpdate(view)
				}
			case <-sig:
				return nil
			}
		}
	},
}

func printJob(shop models.Shop, job models.PrintJob) {
	shopName := shop.Name
	if shopName == "" {
		shopName = shop.ID
	}
	fmt.Fprintf(os.Stdout, "Submission %s at %s\n", job.Token, shopName)
	if names := job.FileNames(); len(names) > 0 {
		fmt.Fprintf(os.Stdout, "\tFiles: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(os.Stdout, "\tOptions: %s, %s sided, %d copies\n", job.PrintType, job.PrintSides, job.Copies)
	if !job.UploadedAt.IsZero() {
		fmt.Fprintf(os.Stdout, "\tUploaded: %s\n", job.UploadedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\tStatus: %s\n", job.Status)
}

func printUpdate(view *projection.TokenView) {
	fmt.Fprintf(os.Stdout, "Status: %s", view.Job.Status)
	if !view.Shop.AcceptingUploads {
		fmt.Fprint(os.Stdout, " (shop is closed for uploads)")
	}
	fmt.Fprintln(os.Stdout)
}

func init() {
	Cmd.PersistentFlags().StringVarP(&shopID, "shop", "s", "", "Shop identifier")
	Cmd.PersistentFlags().StringVar(&token, "token", "", "Check an explicit claim token instead of the stored one")
	Cmd.PersistentFlags().BoolVarP(&watch, "watch", "w", false, "Keep watching live status updates")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
