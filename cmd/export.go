package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/frahmantamala/timesheet/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every report to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app := mustApp(ctx)
		defer app.Close(ctx)

		file, err := app.Export.Export(ctx, exportFormat)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", exportDir, err)
		}
		path := filepath.Join(exportDir, file.Name)
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Printf("exported %d reports to %s\n", file.Rows, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatCSV, "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", ".", "directory the file is written to")
}
