package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/logger"
)

var (
	queryRegion string
	queryLimit  int
)

// queryCmd runs a single resolution without the menu
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query cases for a department once and print the table",
	Example: `  covidcol query -d risaralda -n 10
  covidcol query --departamento "valle del cauca" --limite 50`,
	Args:          cobra.NoArgs,
	RunE:          runQuery,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryRegion, "departamento", "d", "", "Department name (case-insensitive)")
	queryCmd.Flags().IntVarP(&queryLimit, "limite", "n", 10, "Maximum number of rows to request")
	_ = queryCmd.MarkFlagRequired("departamento")
}

func runQuery(cmd *cobra.Command, args []string) error {
	req, err := domain.NewQueryRequest(queryRegion, queryLimit)
	if err != nil {
		return logger.WithTag("query", err)
	}

	app, err := PrepareApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	container := app.Container
	resolution, err := container.Executor.Resolve(cmd.Context(), req)
	if err != nil {
		return logger.WithTag("query", err)
	}

	table := domain.Project(resolution.Table, container.Config.Columns)
	container.Presenter.RenderTable(table)
	if table.Len() == 0 {
		container.Presenter.RenderNoResults()
	}
	return nil
}
