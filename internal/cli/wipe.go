package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/orchestrator"
)

var (
	wipeTypes    string
	wipeForce    bool
	wipePageSize int
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete stored samples",
	Long: `Deletes stored samples one type at a time in bounded pages.
Deletion is idempotent, so an interrupted wipe can simply be re-run.

Examples:
  hksynth wipe --force
  hksynth wipe --types HeartRate,StepCount --force`,
	RunE: runWipe,
}

func init() {
	wipeCmd.Flags().StringVar(&wipeTypes, "types", "", "Comma-separated types to wipe (default: all)")
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip the confirmation check")
	wipeCmd.Flags().IntVar(&wipePageSize, "page-size", 0, "Delete page size (default 100)")
}

func runWipe(cmd *cobra.Command, args []string) error {
	types := parseMetrics(wipeTypes)
	if len(types) == 0 {
		types = models.SupportedTypes()
	}

	path, _ := storePath()
	if !wipeForce {
		fmt.Printf("This removes every stored sample of %d type(s) from %s.\n", len(types), path)
		fmt.Println("Re-run with --force to proceed.")
		return nil
	}

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

	if err := st.Authorize(ctx, types, types); err != nil {
		return fmt.Errorf("failed to authorize store: %w", err)
	}

	fmt.Printf("🧹 Wiping Store: %s\n\n", path)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Type", "Deleted"})

	total := 0
	for _, name := range types {
		base := total
		wiper := orchestrator.NewWiper(st, orchestrator.WiperConfig{
			PageSize: wipePageSize,
			Progress: func(deleted int, message string) {
				fmt.Printf("\rDeleted %d samples...", base+deleted)
			},
		})
		n, err := wiper.Run(ctx, []string{name})
		total += n
		if err == context.Canceled {
			break
		}
		if err != nil {
			return fmt.Errorf("wipe failed for %s: %w", name, err)
		}
		if n > 0 {
			tw.AppendRow(table.Row{name, n})
		}
	}

	if total == 0 {
		fmt.Println("Store holds no samples of the requested types.")
		return nil
	}

	fmt.Print("\r")
	tw.AppendFooter(table.Row{"Total", total})
	tw.Render()
	return nil
}
