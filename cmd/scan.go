// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/miketahani/sniffy/pkg/host"
	"github.com/miketahani/sniffy/pkg/wire"
)

var (
	scanChannel  uint8
	scanFilter   string
	scanDuration time.Duration
	scanReport   string
	scanQuiet    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Capture 802.11 frames and stream them to the console",
	Long: `Start a capture and print each frame as it arrives.

With --channel 0 (the default) the device cycles through every supported
channel; otherwise it parks on the requested channel. The --filter flag
limits capture to a comma-separated set of frame types (mgmt, ctrl, data),
or "all".

The scan runs until Ctrl+C or until --duration elapses. A session summary
is printed on exit; --report additionally writes a CBOR report with the
observed access point inventory.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Uint8VarP(&scanChannel, "channel", "C", 0, "Channel to scan (0 = cycle all)")
	scanCmd.Flags().StringVarP(&scanFilter, "filter", "f", "all", "Frame types: mgmt,ctrl,data or all")
	scanCmd.Flags().DurationVarP(&scanDuration, "duration", "d", 0, "Stop after this long (0 = until interrupted)")
	scanCmd.Flags().StringVarP(&scanReport, "report", "r", "", "Write a CBOR session report to this file")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "Suppress per-frame output")
	rootCmd.AddCommand(scanCmd)
}

// parseFilter translates the --filter argument into a capture bitmask.
func parseFilter(s string) (uint8, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "all" {
		return 0, nil
	}
	var mask uint8
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "mgmt", "management":
			mask |= wire.FilterMgmt
		case "ctrl", "control":
			mask |= wire.FilterCtrl
		case "data":
			mask |= wire.FilterData
		default:
			return 0, fmt.Errorf("unknown frame type %q (use mgmt, ctrl, data or all)", part)
		}
	}
	return mask, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(scanFilter)
	if err != nil {
		return err
	}

	conn, connInfo, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	collector := host.NewReportCollector()
	client := host.NewClient(conn, host.Config{
		Logger: logger,
		OnFrame: func(f host.Frame) {
			collector.Observe(f)
			if !scanQuiet {
				fmt.Println(f.String())
			}
		},
	})
	defer client.Close()

	fmt.Printf("Sniffy - Frame Capture\n")
	fmt.Printf("Connection: %s\n", connInfo)
	if scanChannel == 0 {
		fmt.Printf("Channels: all\n")
	} else {
		fmt.Printf("Channel: %d\n", scanChannel)
	}
	fmt.Printf("Press Ctrl+C to stop\n\n")

	if err := client.StartScan(scanChannel, filter); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	var timeout <-chan time.Time
	if scanDuration > 0 {
		timer := time.NewTimer(scanDuration)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-interrupt:
		fmt.Fprintln(os.Stderr, "\nStopping...")
	case <-timeout:
	case <-client.Done():
		return fmt.Errorf("connection lost")
	}

	if err := client.StopScan(); err != nil {
		logger.Warn().Err(err).Msg("stop scan failed")
	}

	stats := client.Statistics()
	fmt.Printf("\n%s", stats)
	fmt.Printf("Networks seen: %d\n", collector.Count())

	if scanReport != "" {
		report := collector.Build(stats)
		if err := report.WriteFile(scanReport); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", scanReport)
	}
	return nil
}
