package login

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/printflow2050/printflow-cli/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgPath string
	token   string
)

// readPassword is swapped out in tests; terminals are hard to fake.
var readPassword = term.ReadPassword

var Cmd = &cobra.Command{
	Use:   "login",
	Short: "Store the shop owner credential",
	Long:  "Store the shop owner's bearer token so owner commands can authenticate",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimSpace(token)
		if raw == "" {
			var err error
			raw, err = promptToken()
			if err != nil {
				return err
			}
		}
		if raw == "" {
			return fmt.Errorf("no credential given")
		}

		cred, err := auth.Inspect(raw)
		if err != nil {
			slog.Error("Fail to decode credential", "error", err)
			return nil
		}
		if cred.Expired(time.Now()) {
			fmt.Fprintf(os.Stdout, "Warning: credential expired at %s, the server will reject it.\n",
				cred.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}

		ctx := context.Background()
		a, err := app.Setup(ctx, cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.SaveCredential(ctx, raw); err != nil {
			slog.Error("Fail to store credential", "error", err)
			return nil
		}

		who := cred.Subject
		if who == "" {
			who = "shop owner"
		}
		fmt.Fprintf(os.Stdout, "Logged in as %s", who)
		if cred.ShopID != "" {
			fmt.Fprintf(os.Stdout, " (shop %s)", cred.ShopID)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "Paste owner token: ")
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	Cmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Owner bearer token (prompted when omitted)")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
