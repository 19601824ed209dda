package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/orchestrator"
)

var (
	exportOut      string
	exportTypes    string
	exportPageSize int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored samples to a dataset file",
	Long: `Streams stored samples into a dataset file, page by page, in the
same document layout generate produces. The output is compressed when
the path ends in .gz or .zst.

Examples:
  hksynth export --out backup.json.gz
  hksynth export --out hr.json --types HeartRate,RestingHeartRate`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (required)")
	exportCmd.Flags().StringVar(&exportTypes, "types", "", "Comma-separated types to export (default: all)")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 0, "Store query page size (default 200)")
	exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	types := parseMetrics(exportTypes)
	if len(types) == 0 {
		types = models.SupportedTypes()
	}
	if err := st.Authorize(ctx, types, nil); err != nil {
		return fmt.Errorf("failed to authorize store: %w", err)
	}

	path, _ := storePath()
	fmt.Printf("⬇️  Exporting Store\n\n")
	fmt.Printf("Store:     %s\n", path)
	fmt.Printf("Types:     %d\n", len(types))
	fmt.Printf("Output:    %s\n\n", exportOut)

	count, err := orchestrator.ExportStore(ctx, st, types, exportOut, exportPageSize)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Exported %d samples", count)
	if info, err := os.Stat(exportOut); err == nil {
		fmt.Printf(" (%s)", humanBytes(info.Size()))
	}
	fmt.Println()
	return nil
}
