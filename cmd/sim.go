// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/miketahani/sniffy/pkg/device"
)

var (
	simListen   string
	simInterval time.Duration
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a simulated sniffer device",
	Long: `Serve the device side of the sniffer link over TCP, backed by a
simulated radio that fabricates beacon and probe traffic.

Useful for developing against the host commands without hardware. Point
the other commands at it with a WebSocket bridge, or connect any tool that
speaks the link protocol over a raw TCP stream:

  sniffy sim --listen :7622`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVarP(&simListen, "listen", "l", "127.0.0.1:7622", "TCP listen address")
	simCmd.Flags().DurationVar(&simInterval, "interval", 50*time.Millisecond, "Synthetic frame interval")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) error {
	ln, err := net.Listen("tcp", simListen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", simListen, err)
	}
	defer ln.Close()

	logger.Info().Str("addr", ln.Addr().String()).Msg("simulated device listening")
	fmt.Printf("Simulated sniffer on %s, Ctrl+C to stop\n", ln.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info().Str("peer", conn.RemoteAddr().String()).Msg("host connected")
		go serveSim(ctx, conn)
	}
}

// serveSim runs one device instance for the lifetime of conn. Each host
// connection gets its own radio so sessions do not share tuning state.
func serveSim(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	radio := device.NewSimRadio(simInterval)
	dev := device.New(radio, conn, device.Config{Logger: logger})
	radio.Attach(dev.HandleFrame)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go radio.Run(ctx)

	if err := dev.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Debug().Err(err).Msg("device loop ended")
	}
	logger.Info().Str("peer", conn.RemoteAddr().String()).Msg("host disconnected")
}
