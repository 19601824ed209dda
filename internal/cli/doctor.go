package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and print connection info",
	Long:  `Validates the local environment, checks port availability, and provides connection examples.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("🏥 hksynth Environment Check")
	fmt.Println()

	fmt.Printf("Go Version:        %s\n", runtime.Version())
	fmt.Printf("OS/Arch:           %s/%s\n\n", runtime.GOOS, runtime.GOARCH)

	// Check the store
	path, err := storePath()
	if err != nil {
		fmt.Printf("❌ Store path unresolved: %v\n\n", err)
	} else if path == "memory" {
		fmt.Printf("ℹ️  Store is in-memory; data lives only for one command\n\n")
	} else if info, statErr := os.Stat(path); statErr == nil {
		fmt.Printf("✅ Store found: %s (%s)\n\n", path, humanBytes(info.Size()))
	} else {
		fmt.Printf("ℹ️  Store not created yet: %s\n", path)
		fmt.Printf("   Run 'hksynth populate' or 'hksynth import' to create it\n\n")
	}

	// Check profiles
	registry, err := loadProfiles()
	if err != nil {
		fmt.Printf("❌ Failed to load profiles: %v\n\n", err)
	} else {
		profiles := registry.List()
		fmt.Printf("✅ Found %d profiles: %v\n\n", len(profiles), profiles)
	}

	// Check default port availability
	defaultPort := 8787
	if isPortAvailable(defaultPort) {
		fmt.Printf("✅ Default port %d is available\n\n", defaultPort)
	} else {
		fmt.Printf("⚠️  Default port %d is in use\n", defaultPort)
		fmt.Printf("   Use --port flag to specify a different port\n\n")
	}

	fmt.Println("📡 Connection Examples:")
	fmt.Println()

	fmt.Println("Upload a dataset (hksynth serve):")
	fmt.Println("  curl -X POST http://localhost:8787/v1/dataset \\")
	fmt.Println("    -H 'Authorization: Bearer <token>' \\")
	fmt.Println("    -H 'Idempotency-Key: upload-001' \\")
	fmt.Println("    --data-binary @dataset.json")
	fmt.Println()

	fmt.Println("JavaScript/Node.js (hksynth stream):")
	fmt.Println("  const ws = new WebSocket('ws://localhost:8787/v1/feed');")
	fmt.Println("  ws.onmessage = (event) => {")
	fmt.Println("    const sample = JSON.parse(event.data);")
	fmt.Println("    console.log(sample.type, sample.value);")
	fmt.Println("  };")
	fmt.Println()

	fmt.Println("Go (hksynth stream):")
	fmt.Println("  conn, _, err := websocket.DefaultDialer.Dial(\"ws://localhost:8787/v1/feed\", nil)")
	fmt.Println("  for {")
	fmt.Println("    _, message, err := conn.ReadMessage()")
	fmt.Println("    var sample map[string]any")
	fmt.Println("    json.Unmarshal(message, &sample)")
	fmt.Println("  }")
	fmt.Println()

	fmt.Println("SSE (hksynth stream):")
	fmt.Println("  curl -N http://localhost:8788/v1/feed/sse")
	fmt.Println()

	fmt.Println("✅ Environment check complete")
	return nil
}
