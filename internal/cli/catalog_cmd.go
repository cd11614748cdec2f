package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/debot/internal/cli/formatter"
	"github.com/alexanderramin/debot/internal/importer"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the course catalog",
	}

	cmd.AddCommand(
		newCatalogImportCmd(app),
		newCatalogShowCmd(app),
	)

	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Replace the catalog with the lesson and keyword files in dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := importer.ImportDir(cmd.Context(), args[0], app.ModuleNames, app.Catalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d modules, %d lessons, %d keywords.\n",
				sum.Modules, sum.Lessons, sum.Keywords)
			return nil
		},
	}
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [index]",
		Short: "List modules, or show one module's keywords and lessons",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid module index %q", args[0])
				}
				m, err := app.Catalog.GetModule(ctx, index)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatModule(m, app.Links))
				return nil
			}

			modules, err := app.Catalog.ListModules(ctx)
			if err != nil {
				return err
			}
			rows := make([]formatter.CatalogRow, 0, len(modules))
			for _, m := range modules {
				keywords, err := app.Catalog.Keywords(ctx, m.Index)
				if err != nil {
					return err
				}
				lessons, err := app.Catalog.Lessons(ctx, m.Index)
				if err != nil {
					return err
				}
				rows = append(rows, formatter.CatalogRow{Module: m, Keywords: len(keywords), Lessons: len(lessons)})
			}
			fmt.Fprint(out, formatter.FormatCatalog(rows))
			return nil
		},
	}
}
