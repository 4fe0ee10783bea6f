package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/printflow2050/printflow-cli/internal/app"
	"github.com/printflow2050/printflow-cli/internal/printflow"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	path    string
	token   string
	output  string
)

var Cmd = &cobra.Command{
	Use:   "download",
	Short: "Download submitted files",
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Download a single stored file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if path == "" {
			return errors.New("--path is required")
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

		dl, err := a.Client.DownloadFile(ctx, path)
		if err != nil {
			slog.Error("Fail to download file", "path", path, "error", err)
			return nil
		}
		save(dl)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Download a batch archive by claim token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if token == "" {
			return errors.New("--token is required")
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

		dl, err := a.Client.DownloadBatch(ctx, token)
		if err != nil {
			slog.Error("Fail to download batch", "token", token, "error", err)
			return nil
		}
		save(dl)
		return nil
	},
}

// save streams the download to disk under the server-suggested name, or
// the -o override.
func save(dl *printflow.Download) {
	defer dl.Body.Close()

	name := output
	if name == "" {
		name = dl.Name
	}

	fd, err := os.Create(name)
	if err != nil {
		slog.Error("Fail to create file", "file", name, "error", err)
		return
	}
	defer fd.Close()

	written, err := io.Copy(fd, dl.Body)
	if err != nil {
		slog.Error("Fail to save file", "file", name, "error", err)
		return
	}

	fmt.Fprintf(os.Stdout, "Saved %s (%d bytes).\n", name, written)
}

func init() {
	fileCmd.Flags().StringVarP(&path, "path", "p", "", "Storage path of the file")
	batchCmd.Flags().StringVarP(&token, "token", "t", "", "Claim token of the batch")

	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Write to this file instead of the suggested name")
	Cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
	Cmd.AddCommand(fileCmd, batchCmd)
}
