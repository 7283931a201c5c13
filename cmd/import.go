package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"wellpull/internal/config"
	"wellpull/internal/dataset"
	"wellpull/internal/db"
)

var importJSON bool

// importSummary is one line of `import --json` output.
type importSummary struct {
	File        string `json:"file"`
	DatasetID   string `json:"dataset_id"`
	Wells       int    `json:"wells"`
	RowsDropped int    `json:"rows_dropped"`
}

var importCmd = &cobra.Command{
	Use:   "import <pattern>...",
	Short: "Import weekly plan workbooks from the command line",
	Long: `Imports one or more Excel workbooks directly, without the web upload
flow. Patterns support ** globs, e.g. "plans/**/*.xlsx".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var paths []string
		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				ext := strings.ToLower(filepath.Ext(m))
				if ext == ".xlsx" || ext == ".xlsm" {
					paths = append(paths, m)
				}
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("no workbooks matched")
		}

		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		database, err := db.Open(filepath.Join(cfg.DataDir, "wellpull.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		datasets := dataset.NewStore(database)
		ctx := context.Background()

		for _, path := range paths {
			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription(filepath.Base(path)),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			result, err := dataset.ImportFile(path, cfg.SheetName, func(processed, total int) {
				bar.ChangeMax(total)
				bar.Set(processed)
			})
			if err != nil {
				bar.Clear()
				return fmt.Errorf("importing %s: %w", path, err)
			}
			bar.Finish()

			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			ds, err := datasets.Create(ctx, dataset.Dataset{
				Name:       name,
				SourceFile: filepath.Base(path),
				Preview:    result.Preview,
			}, result.Wells)
			if err != nil {
				return fmt.Errorf("storing %s: %w", path, err)
			}

			if importJSON {
				enc := json.NewEncoder(os.Stdout)
				if err := enc.Encode(importSummary{
					File:        filepath.Base(path),
					DatasetID:   ds.ID,
					Wells:       len(result.Wells),
					RowsDropped: result.RowsDropped,
				}); err != nil {
					return fmt.Errorf("encoding summary: %w", err)
				}
			} else {
				fmt.Printf("%s: %d pozos importados, %d filas descartadas (dataset %s)\n",
					filepath.Base(path), len(result.Wells), result.RowsDropped, ds.ID)
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importJSON, "json", false, "print one JSON summary per workbook")
	rootCmd.AddCommand(importCmd)
}
