package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/timesheet/internal/storage"
	"github.com/frahmantamala/timesheet/internal/storage/filestore"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	clearData bool
	seedFrom  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the project catalog or import legacy JSON files",
	Long: `Without --from, make sure the default project catalog exists.
With --from DIR, copy reports.json, users.json, projects.json and
user_projects.json from DIR into the configured storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app := mustApp(ctx)
		defer app.Close(ctx)

		if seedFrom != "" {
			if err := importDocuments(ctx, app.Store, afero.NewOsFs(), seedFrom, clearData); err != nil {
				return err
			}
		}

		projects := app.Projects.GetProjects(ctx)
		fmt.Printf("project catalog holds %d projects\n", len(projects))
		return nil
	},
}

// importDocuments copies every known document from a legacy data directory.
// Existing documents are kept unless overwrite is set.
func importDocuments(ctx context.Context, dst storage.DocumentStore, fs afero.Fs, dir string, overwrite bool) error {
	ok, err := afero.IsDir(fs, dir)
	if err != nil {
		return fmt.Errorf("cannot import from %s: %w", dir, err)
	}
	if !ok {
		return fmt.Errorf("cannot import from %s: not a directory", dir)
	}

	src, err := filestore.New(fs, dir)
	if err != nil {
		return err
	}

	for _, name := range []string{storage.Reports, storage.Users, storage.Projects, storage.UserProjects} {
		data, err := src.Read(ctx, name)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			fmt.Printf("skip %s: not present in %s\n", name, dir)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		if !overwrite {
			_, err := dst.Read(ctx, name)
			if err == nil {
				fmt.Printf("skip %s: already stored, use --clear to overwrite\n", name)
				continue
			}
			if !errors.Is(err, storage.ErrDocumentNotFound) {
				return fmt.Errorf("failed to check stored %s: %w", name, err)
			}
		}

		if err := dst.Write(ctx, name, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Printf("imported %s (%d bytes)\n", name, len(data))
	}
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "overwrite documents that already exist")
	seedCmd.Flags().StringVar(&seedFrom, "from", "", "legacy data directory to import")
}
