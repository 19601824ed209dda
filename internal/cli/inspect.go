package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/dataset"
	"github.com/hksynth/hksynth-cli/internal/encoding"
	"github.com/hksynth/hksynth-cli/internal/models"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a dataset file",
	Long: `Streams a dataset file through the codec and prints per-type counts
and covered time spans. Memory stays flat regardless of file size.

Examples:
  hksynth inspect dataset.json
  hksynth inspect export.json.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	rc, err := dataset.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	summary := dataset.NewSummary()
	asm := encoding.NewAssembler(func(rec models.Record) { summary.Add(rec) }, nil)
	lex := encoding.NewLexer(asm)
	if err := dataset.Feed(rc, dataset.DefaultChunkSize, func(chunk []byte) error {
		lex.Feed(string(chunk))
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	fmt.Printf("🔍 %s", path)
	if info, err := os.Stat(path); err == nil {
		fmt.Printf(" (%s)", humanBytes(info.Size()))
	}
	fmt.Print("\n\n")

	types := summary.Types()
	if len(types) == 0 {
		fmt.Println("Dataset holds no samples.")
		return nil
	}

	maxCount := 0
	for _, ts := range types {
		if ts.Count > maxCount {
			maxCount = ts.Count
		}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Type", "Count", "Failed", "Earliest", "Latest", "Share"})
	for _, ts := range types {
		earliest, latest := "", ""
		if !ts.Earliest.IsZero() {
			earliest = ts.Earliest.Format("2006-01-02 15:04")
			latest = ts.Latest.Format("2006-01-02 15:04")
		}
		tw.AppendRow(table.Row{
			ts.TypeName,
			ts.Count,
			ts.Failed,
			earliest,
			latest,
			renderBar(float64(ts.Count)/float64(maxCount), 12),
		})
	}
	tw.AppendFooter(table.Row{"Total", summary.Total()})
	tw.Render()
	return nil
}
