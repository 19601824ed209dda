package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/generator"
	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/orchestrator"
)

var (
	populateProfile    string
	populateFrom       string
	populateTo         string
	populateDays       int
	populateMetrics    string
	populatePattern    string
	populateKeep       float64
	populateCustomDays string
	populateSeed       int64
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Generate samples directly into the store",
	Long: `Generates a synthetic dataset and saves every sample into the local
store, skipping the intermediate file.

Examples:
  hksynth populate --days 30
  hksynth populate --profile athlete --from 2025-01-01 --to 2025-03-31
  hksynth populate --metrics HeartRate,SleepAnalysis --seed 42`,
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().StringVar(&populateProfile, "profile", "default", "Profile to generate from")
	populateCmd.Flags().StringVar(&populateFrom, "from", "", "Range start (YYYY-MM-DD)")
	populateCmd.Flags().StringVar(&populateTo, "to", "", "Range end (YYYY-MM-DD)")
	populateCmd.Flags().IntVar(&populateDays, "days", 30, "Generate the most recent N days when --from/--to are unset")
	populateCmd.Flags().StringVar(&populateMetrics, "metrics", "", "Comma-separated type allowlist (default: all)")
	populateCmd.Flags().StringVar(&populatePattern, "pattern", "continuous", "Day pattern: continuous|sparse|weekdaysOnly|weekendsOnly|custom")
	populateCmd.Flags().Float64Var(&populateKeep, "keep-probability", 0, "Chance a sparse day generates (default 0.7)")
	populateCmd.Flags().StringVar(&populateCustomDays, "custom-days", "", "Weekdays the custom pattern keeps, e.g. mon,wed,fri")
	populateCmd.Flags().Int64Var(&populateSeed, "seed", time.Now().UnixNano(), "Random seed for deterministic output")
}

func runPopulate(cmd *cobra.Command, args []string) error {
	registry, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	prof, err := registry.Get(populateProfile)
	if err != nil {
		return err
	}

	pattern, err := generator.ParsePattern(populatePattern)
	if err != nil {
		return err
	}

	start, end, err := resolveRange(populateFrom, populateTo, populateDays)
	if err != nil {
		return err
	}

	config := generator.Config{
		Profile:         prof,
		Start:           start,
		End:             end,
		Metrics:         parseMetrics(populateMetrics),
		Pattern:         pattern,
		KeepProbability: populateKeep,
		Seed:            populateSeed,
	}
	if pattern == generator.PatternCustom {
		days, err := parseWeekdays(populateCustomDays)
		if err != nil {
			return err
		}
		config.CustomDays = days
	}

	gen, err := generator.New(config)
	if err != nil {
		return err
	}
	samples := gen.GenerateSamples()

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
	fmt.Printf("🫀 Populating Store\n\n")
	fmt.Printf("Profile:   %s\n", prof.Name)
	fmt.Printf("Range:     %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Samples:   %d\n", len(samples))
	fmt.Printf("Store:     %s\n\n", path)

	pop := orchestrator.NewPopulator(st, orchestrator.PopulatorConfig{
		Progress: func(stats orchestrator.Stats, typeName string) {
			if stats.Total()%500 == 0 {
				fmt.Printf("\rSaved %d samples...", stats.Total())
			}
		},
	})

	stats, err := pop.Run(ctx, samples)
	fmt.Print("\r")
	if err != nil && err != context.Canceled {
		return fmt.Errorf("populate failed: %w", err)
	}

	fmt.Printf("✓ Imported:  %d\n", stats.Imported)
	fmt.Printf("  Skipped:   %d\n", stats.Skipped)
	fmt.Printf("  Failed:    %d\n", stats.Failed)
	return nil
}
