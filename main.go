// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani
//
// Sniffy - 802.11 packet sniffer host client
//
// Drives a sniffy capture device over its serial link: scans, promiscuous
// mode control, live monitoring, and session reports.

package main

import (
	"os"

	"github.com/miketahani/sniffy/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
