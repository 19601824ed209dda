package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect generation profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Long:  `Lists the built-in profiles plus any loaded from --profile-dir.`,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Print a profile's parameter ranges as YAML",
	Long: `Prints the full profile document. The output is valid profile YAML,
so it can be saved, edited and loaded back through --profile-dir.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfilesShow,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	registry, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	profiles := registry.ListWithDescriptions()
	if len(profiles) == 0 {
		fmt.Println("No profiles found")
		return nil
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Profile", "Description"})
	for _, name := range names {
		tw.AppendRow(table.Row{name, profiles[name]})
	}
	tw.Render()
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	registry, err := loadProfiles()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	prof, err := registry.Get(args[0])
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(prof)
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
