// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/miketahani/sniffy/pkg/host"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test connectivity by querying the device",
	Long: `Send a status query and wait for the response.

Verifies the whole path: connection, framing, and a responsive device on
the other end.

Exit codes:
  0 - Device responded
  1 - Timeout, no response
  2 - Connection error`,
	SilenceUsage: true,
	RunE:         runPing,
}

func init() {
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "How long to wait for a response")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := openConnection()
	if err != nil {
		return &exitError{code: 2, err: fmt.Errorf("connection error: %w", err)}
	}
	defer conn.Close()

	fmt.Printf("Sniffy - Connectivity Test\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	client := host.NewClient(conn, host.Config{
		Timeout: pingTimeout,
		Logger:  logger,
	})
	defer client.Close()

	start := time.Now()
	on, err := client.QueryPromiscuous()
	if err != nil {
		if errors.Is(err, host.ErrTimeout) {
			return &exitError{code: 1, err: fmt.Errorf("no response in %s", pingTimeout)}
		}
		return &exitError{code: 2, err: fmt.Errorf("query failed: %w", err)}
	}

	fmt.Printf("Device responded in %s (promiscuous: %v)\n", time.Since(start).Round(time.Millisecond), on)
	return nil
}
