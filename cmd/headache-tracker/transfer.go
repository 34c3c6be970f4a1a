package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	httpapi "github.com/tbourn/headache-tracker/internal/http"
	"github.com/tbourn/headache-tracker/internal/transfer"
)

const (
	diaryFileName       = "diary.json"
	medicationsFileName = "medications.json"
)

var title = cases.Title(language.English)

func importCmd() *cobra.Command {
	var diaryPath, medsPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import diary.json and/or medications.json files",
		Long: `Import reads the JSON array files kept by earlier versions of the tracker
and upserts every record. Dates may be ISO (YYYY-MM-DD) or UK (DD/MM/YYYY).
Records that fail validation are reported and skipped.`,
		Example: "  headache-tracker import --diary data/diary.json --medications data/medications.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if diaryPath == "" && medsPath == "" {
				return errors.New("nothing to import: pass --diary and/or --medications")
			}
			a, err := bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			svcs := httpapi.NewServices(a.db, a.cfg)

			if diaryPath != "" {
				rep, err := readFile(diaryPath, func(r io.Reader) (transfer.Report, error) {
					return transfer.ImportDiary(ctx, r, svcs.Diary)
				})
				if err != nil {
					return err
				}
				a.summarise(cmd.OutOrStdout(), "diary entries", diaryPath, rep)
			}
			if medsPath != "" {
				rep, err := readFile(medsPath, func(r io.Reader) (transfer.Report, error) {
					return transfer.ImportMedications(ctx, r, svcs.Medications)
				})
				if err != nil {
					return err
				}
				a.summarise(cmd.OutOrStdout(), "medications", medsPath, rep)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&diaryPath, "diary", "", "path to a diary.json file")
	cmd.Flags().StringVar(&medsPath, "medications", "", "path to a medications.json file")
	return cmd
}

func exportCmd() *cobra.Command {
	var outDir string
	var ukDates bool
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write diary.json and medications.json",
		Example: "  headache-tracker export --out-dir backup --uk-dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			a, err := bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			svcs := httpapi.NewServices(a.db, a.cfg)
			opts := transfer.ExportOptions{UKDates: ukDates}

			diaryPath := filepath.Join(outDir, diaryFileName)
			n, err := writeFile(diaryPath, func(w io.Writer) (int, error) {
				return transfer.ExportDiary(ctx, w, svcs.Diary, opts)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d written to %s\n", title.String("diary entries"), n, diaryPath)

			medsPath := filepath.Join(outDir, medicationsFileName)
			n, err = writeFile(medsPath, func(w io.Writer) (int, error) {
				return transfer.ExportMedications(ctx, w, svcs.Medications, opts)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d written to %s\n", title.String("medications"), n, medsPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write the files into")
	cmd.Flags().BoolVar(&ukDates, "uk-dates", false, "write dates as DD/MM/YYYY")
	return cmd
}

func (a *app) summarise(w io.Writer, kind, path string, rep transfer.Report) {
	for _, f := range rep.Failures {
		a.log.Warn().
			Str("file", path).
			Int("index", f.Index).
			Str("key", f.Key).
			Err(f.Err).
			Msg("record skipped")
	}
	a.log.Info().
		Str("file", path).
		Int("created", rep.Created).
		Int("updated", rep.Updated).
		Int("failed", len(rep.Failures)).
		Msg("import finished")
	fmt.Fprintf(w, "%s: %d created, %d updated, %d failed\n",
		title.String(kind), rep.Created, rep.Updated, len(rep.Failures))
}

func readFile(path string, fn func(io.Reader) (transfer.Report, error)) (transfer.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return transfer.Report{}, err
	}
	defer f.Close()
	rep, err := fn(f)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}

// writeFile writes through a temp file in the same directory and renames it
// into place, so a failed export never truncates an existing file.
func writeFile(path string, fn func(io.Writer) (int, error)) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := fn(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return n, nil
}
