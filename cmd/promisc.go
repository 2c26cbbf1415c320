// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miketahani/sniffy/pkg/host"
)

var promiscCmd = &cobra.Command{
	Use:   "promisc",
	Short: "Control the radio's promiscuous mode directly",
	Long: `Low-level control over the radio's promiscuous (monitor) mode.

Scans manage promiscuous mode themselves; these verbs are for manual
poking and diagnostics. Turning it off while a scan is active is refused
by the device.`,
}

var promiscOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable promiscuous mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			if err := c.SetPromiscuous(true); err != nil {
				return err
			}
			fmt.Println("Promiscuous mode enabled")
			return nil
		})
	},
}

var promiscOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable promiscuous mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			if err := c.SetPromiscuous(false); err != nil {
				return err
			}
			fmt.Println("Promiscuous mode disabled")
			return nil
		})
	},
}

var promiscStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query promiscuous mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *host.Client) error {
			on, err := c.QueryPromiscuous()
			if err != nil {
				return err
			}
			if on {
				fmt.Println("Promiscuous mode: on")
			} else {
				fmt.Println("Promiscuous mode: off")
			}
			return nil
		})
	},
}

func init() {
	promiscCmd.AddCommand(promiscOnCmd, promiscOffCmd, promiscStatusCmd)
	rootCmd.AddCommand(promiscCmd)
}

// withClient opens the configured connection, runs fn with a client over
// it, and tears both down.
func withClient(fn func(*host.Client) error) error {
	conn, _, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	client := host.NewClient(conn, host.Config{Logger: logger})
	defer client.Close()

	return fn(client)
}
