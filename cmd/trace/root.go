package trace

import (
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/ValentinKolb/hKV/lib/hist"
	"github.com/spf13/cobra"
)

var (
	histFactory hist.HistFactory[string]

	// TraceCommands represents the trace command group
	TraceCommands = &cobra.Command{
		Use:               "trace",
		Short:             "Work with recorded trace files",
		PersistentPreRunE: setupFactory,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitEnvConfig)

	// Add subcommands
	TraceCommands.AddCommand(resolveCmd)
	TraceCommands.AddCommand(statsCmd)
	TraceCommands.AddCommand(exportCmd)
	TraceCommands.AddCommand(perfTestCmd)
}

// setupFactory selects the history engine used by all trace subcommands
func setupFactory(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	f, err := util.GetHistFactory()
	if err != nil {
		return err
	}
	histFactory = f

	return nil
}
