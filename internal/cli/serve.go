package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hksynth/hksynth-cli/internal/models"
	"github.com/hksynth/hksynth-cli/internal/receiver"
)

var (
	serveHost        string
	servePort        int
	serveToken       string
	serveNoAuth      bool
	serveGzip        bool
	serveArchiveDir  string
	serveMaxBody     int64
	serveMaxInFlight int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local HTTP server that imports dataset uploads",
	Long: `Starts a blocking HTTP server that receives dataset uploads over the
local network and streams each one into the store.

Uploads are deduplicated by their Idempotency-Key header, validated
against the bearer token, and optionally archived as received.

Examples:
  hksynth serve
  hksynth serve --port 9000 --token mysecrettoken
  hksynth serve --archive-dir ./uploads --gzip
  hksynth serve --host 127.0.0.1 --no-auth`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host address to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8787, "Port to listen on")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "Static bearer token (auto-generated if not provided)")
	serveCmd.Flags().BoolVar(&serveNoAuth, "no-auth", false, "Accept uploads without a bearer token")
	serveCmd.Flags().BoolVar(&serveGzip, "gzip", false, "Accept compressed payloads")
	serveCmd.Flags().StringVar(&serveArchiveDir, "archive-dir", "", "Directory to archive uploads as received")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body", 0, "Upload size cap in bytes (default 100MiB)")
	serveCmd.Flags().IntVar(&serveMaxInFlight, "max-in-flight", 0, "Concurrent store saves per upload (default 16)")
	_ = viper.BindPFlag("token", serveCmd.Flags().Lookup("token"))
}

func runServe(cmd *cobra.Command, args []string) error {
	token := viper.GetString("token")
	if serveNoAuth {
		token = ""
	} else if token == "" {
		generated, err := generateToken()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		token = generated
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := st.Authorize(ctx, nil, models.SupportedTypes()); err != nil {
		return fmt.Errorf("failed to authorize store: %w", err)
	}

	config := receiver.Config{
		Host:         serveHost,
		Port:         servePort,
		Token:        token,
		AcceptGzip:   serveGzip,
		MaxBodyBytes: serveMaxBody,
		MaxInFlight:  serveMaxInFlight,
		ArchiveDir:   serveArchiveDir,
	}

	server, err := receiver.NewServer(config, st)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(cmd.ErrOrStderr(), "\n⏹  Received interrupt signal, shutting down...")
		cancel()
	}()

	printServeBanner(cmd, server.GetAddress(), token)

	if err := server.Start(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("server error: %w", err)
	}

	stats := server.GetStats()
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n📊 Session Stats:\n")
	fmt.Fprintf(out, "   Uploads:    %d\n", stats.TotalUploads)
	fmt.Fprintf(out, "   Duplicates: %d\n", stats.TotalDuplicates)
	fmt.Fprintf(out, "   Errors:     %d\n", stats.TotalErrors)
	fmt.Fprintf(out, "   Imported:   %d\n", stats.Imported)
	fmt.Fprintf(out, "   Skipped:    %d\n", stats.Skipped)
	fmt.Fprintf(out, "   Failed:     %d\n", stats.Failed)
	fmt.Fprintln(out, "\n✓ Shutdown complete")

	return nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "hk_" + hex.EncodeToString(bytes), nil
}

func printServeBanner(cmd *cobra.Command, address, token string) {
	out := cmd.ErrOrStderr()

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "╔═══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║                  🫀 hksynth Receiver Started                   ║")
	fmt.Fprintln(out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "  Endpoint:  %s/v1/dataset\n", address)
	if token != "" {
		fmt.Fprintf(out, "  Token:     %s\n", token)
	} else {
		fmt.Fprintln(out, "  Token:     disabled")
	}
	if path, err := storePath(); err == nil {
		fmt.Fprintf(out, "  Store:     %s\n", path)
	}
	if serveArchiveDir != "" {
		fmt.Fprintf(out, "  Archive:   %s/\n", serveArchiveDir)
	}
	if serveGzip {
		fmt.Fprintln(out, "  Gzip:      enabled")
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────────")
	fmt.Fprintln(out, "  Upload a dataset:")
	fmt.Fprintln(out, "")
	if token != "" {
		fmt.Fprintf(out, "    curl -X POST %s/v1/dataset \\\n", address)
		fmt.Fprintf(out, "      -H 'Authorization: Bearer %s' \\\n", token)
		fmt.Fprintln(out, "      -H 'Idempotency-Key: upload-001' \\")
		fmt.Fprintln(out, "      --data-binary @dataset.json")
	} else {
		fmt.Fprintf(out, "    curl -X POST %s/v1/dataset --data-binary @dataset.json\n", address)
	}
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────────")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Waiting for uploads... (Press Ctrl+C to stop)")
	fmt.Fprintln(out, "")
}
