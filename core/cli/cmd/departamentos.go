package cmd

import (
	"github.com/spf13/cobra"
)

// departamentosCmd lists the departments found in a sample of the dataset
var departamentosCmd = &cobra.Command{
	Use:           "departamentos",
	Aliases:       []string{"regions"},
	Short:         "List department names sampled from the dataset",
	Args:          cobra.NoArgs,
	RunE:          runDepartamentos,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(departamentosCmd)
}

func runDepartamentos(cmd *cobra.Command, args []string) error {
	app, err := PrepareApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	regions := app.Container.CaseService.ListRegions(cmd.Context())
	app.Container.Presenter.RenderRegions(regions)
	return nil
}
