package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hksynth/hksynth-cli/internal/profile"
	"github.com/hksynth/hksynth-cli/internal/store"
)

// envPrefix namespaces the environment overrides: HKSYNTH_DB,
// HKSYNTH_PROFILE_DIR, HKSYNTH_TOKEN. Flags win over the environment.
const envPrefix = "HKSYNTH"

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindEnv layers the persistent flags over the environment.
func bindEnv(cmd *cobra.Command) {
	_ = viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("profile-dir", cmd.PersistentFlags().Lookup("profile-dir"))
}

// storePath resolves the store location: --db, HKSYNTH_DB, then the per-user
// default.
func storePath() (string, error) {
	if path := viper.GetString("db"); path != "" {
		return path, nil
	}
	return store.DefaultPath()
}

// openStore opens the store every store-backed command shares: SQLite at the
// resolved path, or a process-local store when the path is "memory".
func openStore() (store.HealthStore, error) {
	path, err := storePath()
	if err != nil {
		return nil, err
	}
	if path == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(path)
}

// loadProfiles returns the registry with builtins plus any --profile-dir
// overlays.
func loadProfiles() (*profile.Registry, error) {
	registry := profile.NewRegistry()
	if err := registry.LoadBuiltins(); err != nil {
		return nil, err
	}
	if dir := viper.GetString("profile-dir"); dir != "" {
		if err := registry.LoadFromDir(dir); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
