package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/debot/internal/cli/formatter"
)

// newRecommendCmd runs the recommendation pipeline on a doubt directly,
// without classification or a conversation.
func newRecommendCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "recommend <doubt>",
		Short: "Show keyword matching and lesson ranking for a doubt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			doubt := strings.ToLower(strings.TrimSpace(strings.Join(args, " ")))

			analysis, err := app.Engine.Analyze(ctx, doubt)
			if err != nil {
				return err
			}
			modules, err := app.Catalog.ListModules(ctx)
			if err != nil {
				return err
			}
			names := make(map[int]string, len(modules))
			for _, m := range modules {
				names[m.Index] = m.Name
			}
			fmt.Fprint(out, formatter.FormatAnalysis(analysis, names))

			switch {
			case len(analysis.Selected) == 0:
				fmt.Fprintln(out, formatter.Dim("No module matched; the assistant would ask for the subject."))
				return nil
			case !analysis.GatePassed && !force:
				fmt.Fprintln(out, formatter.Dim("Gate failed; the assistant would ask for a more specific doubt. Use --force to rank anyway."))
				return nil
			}

			recs, failures, err := app.Engine.Recommend(ctx, doubt, analysis.Selected)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatRecommendations(recs, failures))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rank the selected modules even when the gate fails")
	return cmd
}
