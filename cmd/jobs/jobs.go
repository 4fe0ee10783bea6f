package jobs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/printflow2050/printflow-cli/internal/auth"
	"github.com/printflow2050/printflow-cli/internal/models"
	"github.com/printflow2050/printflow-cli/internal/projection"
	"github.com/printflow2050/printflow-cli/internal/push"
	"github.com/printflow2050/printflow-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	shopID     string
	statusFlag string
	search     string
	live       bool
	yes        bool
)

var Cmd = &cobra.Command{
	Use:   "jobs",
	Short: "Owner dashboard for submitted jobs",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's jobs of a shop",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RequireCredential(); err != nil {
			return err
		}
		shop, err := resolveShop(ctx, a)
		if err != nil {
			return err
		}

		jobs, err := a.Client.TodayJobs(ctx, shop.ID)
		if err != nil {
			slog.Error("Fail to fetch jobs", "shop", shop.ID, "error", err)
			return nil
		}

		roster := projection.NewRoster(shop, jobs)
		filter := projection.Filter{Status: models.ParseJobStatus(statusFlag), Search: search}
		printRoster(roster, filter)

		if !live {
			return nil
		}

		ch, err := push.Connect(a.PushConfig(ctx, shop.ID, true))
		if err != nil {
			slog.Error("Fail to open push channel", "error", err)
			return nil
		}
		defer ch.Close()

		fmt.Fprintln(os.Stdout, "Live, Ctrl-C to stop...")
		sig := utils.WaitForSignal()
		for {
			select {
			case ev, ok := <-ch.Events():
				if !ok {
					return nil
				}
				if roster.Apply(ev) {
					fmt.Fprintln(os.Stdout)
					printRoster(roster, filter)
				}
			case <-sig:
				return nil
			}
		}
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete JOB_ID",
	Short: "Mark a job as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID := args[0]

		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RequireCredential(); err != nil {
			return err
		}
		if err := a.Client.UpdateJobStatus(ctx, jobID, models.StatusCompleted); err != nil {
			slog.Error("Fail to complete job", "job", jobID, "error", err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Job %s marked completed.\n", jobID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete JOB_ID",
	Short: "Delete a job",
	Long:  "Delete a job; the server keeps the record and only marks it deleted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID := args[0]

		if !yes && !confirm(fmt.Sprintf("Delete job %s? [y/N]: ", jobID)) {
			fmt.Fprintln(os.Stdout, "Aborted.")
			return nil
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
		if err := a.Client.DeleteJob(ctx, jobID); err != nil {
			slog.Error("Fail to delete job", "job", jobID, "error", err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Job %s deleted.\n", jobID)
		return nil
	},
}

// resolveShop resolves the target shop, falling back to the shop id baked
// into the stored credential when the flag is absent.
func resolveShop(ctx context.Context, a *app.App) (models.Shop, error) {
	id := shopID
	if id == "" {
		if cred, err := a.Store.Credential(ctx); err == nil && cred != "" {
			if decoded, err := auth.Inspect(cred); err == nil {
				id = decoded.ShopID
			}
		}
	}
	if id == "" {
		return models.Shop{}, errors.New("--shop is required")
	}

	shop, err := a.Client.Shop(ctx, id)
	if err != nil {
		slog.Warn("Fail to fetch shop", "shop", id, "error", err)
		return models.Shop{ID: id}, nil
	}
	return shop, nil
}

func printRoster(r *projection.Roster, f projection.Filter) {
	jobs := r.Filter(f)
	if len(jobs) == 0 {
		fmt.Fprintln(os.Stdout, "No jobs.")
	}
	for _, job := range jobs {
		uploaded := ""
		if !job.UploadedAt.IsZero() {
			uploaded = job.UploadedAt.Local().Format("15:04")
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\t%d file(s)\t%d copies\t%s\n",
			job.Token, job.Status, uploaded, len(job.Files), job.Copies, shortID(job.ID))
	}

	counts := r.Counts()
	fmt.Fprintf(os.Stdout, "Pending %d, completed %d, expired %d, deleted %d.\n",
		counts[models.StatusPending], counts[models.StatusCompleted],
		counts[models.StatusExpired], counts[models.StatusDeleted])
	if !r.Shop.AcceptingUploads {
		fmt.Fprintln(os.Stdout, "Shop is closed for uploads.")
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	listCmd.Flags().StringVarP(&shopID, "shop", "s", "", "Shop identifier (defaults to the credential's shop)")
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Only show jobs with this status")
	listCmd.Flags().StringVar(&search, "search", "", "Only show jobs whose token contains this text")
	listCmd.Flags().BoolVar(&live, "live", false, "Keep the list current from push updates")
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
	Cmd.AddCommand(listCmd, completeCmd, deleteCmd)
}
