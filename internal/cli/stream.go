package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hksynth/hksynth-cli/internal/recorder"
	"github.com/hksynth/hksynth-cli/internal/transport"
)

var (
	streamIn       string
	streamHost     string
	streamPort     int
	streamSpeed    float64
	streamInterval time.Duration
	streamLoop     bool
	streamOut      string
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Replay a dataset as a live sample feed",
	Long: `Reads a dataset file and broadcasts its samples in chronological
order as NDJSON frames over WebSocket, SSE and UDP.

Pacing follows the recorded timestamps scaled by --speed, or a fixed
--interval between samples.

Examples:
  hksynth stream --in dataset.json
  hksynth stream --in dataset.json --interval 500ms --loop
  hksynth stream --in dataset.json --speed 3600 --record feed.ndjson`,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&streamIn, "in", "", "Dataset file to stream (required)")
	streamCmd.Flags().StringVar(&streamHost, "host", "127.0.0.1", "Host to bind to")
	streamCmd.Flags().IntVar(&streamPort, "port", 8787, "WebSocket port (SSE and UDP take the next two)")
	streamCmd.Flags().Float64Var(&streamSpeed, "speed", 1.0, "Historical gap divisor")
	streamCmd.Flags().DurationVar(&streamInterval, "interval", 0, "Fixed delay between samples (overrides --speed)")
	streamCmd.Flags().BoolVar(&streamLoop, "loop", false, "Loop playback continuously")
	streamCmd.Flags().StringVar(&streamOut, "record", "", "Record broadcast frames to an NDJSON file")
	streamCmd.MarkFlagRequired("in")
}

func runStream(cmd *cobra.Command, args []string) error {
	rep := transport.NewReplayer(streamIn, transport.ReplayConfig{
		Speed:    streamSpeed,
		Interval: streamInterval,
		Loop:     streamLoop,
	})

	count, err := rep.Count()
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	first, last, err := rep.Span()
	if err != nil {
		return err
	}

	frames := make(chan transport.Frame, 100)
	dispatcher := transport.NewDispatcher(frames, 100)

	wsServer := transport.NewWebSocketServer(streamHost, streamPort)
	sse := transport.NewSSEServer(streamHost, streamPort+1)
	udp := transport.NewUDPServer(streamHost, streamPort+2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	go func() {
		if err := wsServer.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("WS error: %v", err)
		}
	}()
	go func() {
		if err := sse.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("SSE error: %v", err)
		}
	}()
	go func() {
		if err := udp.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("UDP error: %v", err)
		}
	}()

	time.Sleep(200 * time.Millisecond)

	fmt.Printf("📡 hksynth Sample Feed Started\n\n")
	fmt.Printf("Dataset:      %s\n", streamIn)
	fmt.Printf("Samples:      %d\n", count)
	fmt.Printf("Span:         %s to %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	fmt.Printf("WebSocket:    %s\n", wsServer.GetAddress())
	fmt.Printf("SSE:          %s\n", sse.GetAddress())
	fmt.Printf("UDP:          %s\n", udp.GetAddress())
	if streamInterval > 0 {
		fmt.Printf("Interval:     %s\n", streamInterval)
	} else {
		fmt.Printf("Speed:        %.1fx\n", streamSpeed)
	}
	fmt.Printf("Loop:         %v\n\n", streamLoop)

	go func() { wsServer.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()
	go func() { sse.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()
	go func() { udp.BroadcastFromChannel(ctx, dispatcher.Subscribe()) }()

	if streamOut != "" {
		rec, err := recorder.NewRecorder(streamOut)
		if err != nil {
			return fmt.Errorf("failed to create recorder: %w", err)
		}
		defer rec.Close()
		go rec.RecordFromChannel(ctx, dispatcher.Subscribe(), nil)
		fmt.Printf("Recording:    %s\n\n", streamOut)
	}

	go dispatcher.Run(ctx)

	fmt.Println("Press Ctrl+C to stop")

	if err := rep.Replay(ctx, frames); err != nil && err != context.Canceled {
		close(frames)
		return fmt.Errorf("replay error: %w", err)
	}
	close(frames)
	time.Sleep(100 * time.Millisecond)

	if dropped := dispatcher.GetDroppedCount(); dropped > 0 {
		fmt.Printf("\nDropped %d frames on slow subscribers\n", dropped)
	}
	fmt.Println("\nStream complete")
	return nil
}
