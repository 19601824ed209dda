package cli

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/models"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the supported sample types",
	Long: `Lists every HealthKit type identifier the generator emits. The short
name is accepted wherever a --metrics or --types flag takes a type.`,
	Run: runTypes,
}

func runTypes(cmd *cobra.Command, args []string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Identifier", "Kind", "Short Name"})
	for _, name := range models.SupportedTypes() {
		tw.AppendRow(table.Row{name, models.KindOf(name).String(), shortName(name)})
	}
	tw.Render()
}

// shortName trims the identifier down to the form the metric flags accept.
func shortName(full string) string {
	switch full {
	case models.WorkoutType:
		return "Workout"
	case models.HeartbeatSeriesType:
		return "HeartbeatSeries"
	}
	for _, prefix := range []string{models.QuantityPrefix, models.CategoryPrefix, models.CorrelationPrefix} {
		if strings.HasPrefix(full, prefix) {
			return strings.TrimPrefix(full, prefix)
		}
	}
	return full
}
