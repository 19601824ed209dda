package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/orchestrator"
)

var (
	importIn          string
	importChunkSize   int
	importMaxInFlight int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a dataset file into the store",
	Long: `Streams a dataset file through the codec and saves every decodable
sample into the local store. Unknown types are skipped and counted,
and re-importing the same file is a no-op because record UIDs are
fingerprints of the payload.

Examples:
  hksynth import --in dataset.json
  hksynth import --in export.json.gz`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importIn, "in", "", "Dataset file to import (required)")
	importCmd.Flags().IntVar(&importChunkSize, "chunk-size", 0, "Read chunk size in bytes (default 64KiB)")
	importCmd.Flags().IntVar(&importMaxInFlight, "max-in-flight", 0, "Concurrent store saves (default 16)")
	importCmd.MarkFlagRequired("in")
}

func runImport(cmd *cobra.Command, args []string) error {
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

	if err := st.Authorize(ctx, nil, models.SupportedTypes()); err != nil {
		return fmt.Errorf("failed to authorize store: %w", err)
	}

	path, _ := storePath()
	fmt.Printf("⬆️  Importing Dataset\n\n")
	fmt.Printf("Input:     %s\n", importIn)
	fmt.Printf("Store:     %s\n\n", path)

	imp := orchestrator.NewImporter(st, orchestrator.ImporterConfig{
		ChunkSize:   importChunkSize,
		MaxInFlight: importMaxInFlight,
		Progress: func(stats orchestrator.Stats, typeName string) {
			if stats.Total()%500 == 0 {
				fmt.Printf("\rImported %d samples...", stats.Total())
			}
		},
	})

	stats, err := imp.Run(ctx, importIn)
	fmt.Print("\r")
	if err != nil && err != context.Canceled {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported:  %d\n", stats.Imported)
	fmt.Printf("  Skipped:   %d\n", stats.Skipped)
	fmt.Printf("  Failed:    %d\n", stats.Failed)
	return nil
}
