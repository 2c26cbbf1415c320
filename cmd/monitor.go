// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package cmd

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/miketahani/sniffy/pkg/host"
)

var (
	monitorChannel uint8
	monitorFilter  string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live capture monitor with network inventory",
	Long: `Full-screen capture monitor.

Shows a live table of observed networks ranked by signal strength, link
statistics, and a rolling log of recent frames. Press 'q' to stop the scan
and exit.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().Uint8VarP(&monitorChannel, "channel", "C", 0, "Channel to scan (0 = cycle all)")
	monitorCmd.Flags().StringVarP(&monitorFilter, "filter", "f", "all", "Frame types: mgmt,ctrl,data or all")
	rootCmd.AddCommand(monitorCmd)
}

// frame log entry
type frameLogEntry struct {
	timestamp time.Time
	message   string
}

// Messages
type tickMsg time.Time
type frameMsg struct {
	frame host.Frame
}
type linkLostMsg struct{}

type monitorModel struct {
	connInfo  string
	channel   uint8
	stats     func() host.Statistics
	collector *host.ReportCollector

	apTable   table.Model
	frameLog  []frameLogEntry
	maxLog    int
	width     int
	height    int
	linkLost  bool
	quitting  bool
	lastStats host.Statistics
}

func newMonitorModel(connInfo string, channel uint8, stats func() host.Statistics, collector *host.ReportCollector) monitorModel {
	columns := []table.Column{
		{Title: "SSID", Width: 24},
		{Title: "BSSID", Width: 18},
		{Title: "CH", Width: 4},
		{Title: "RSSI", Width: 5},
		{Title: "Beacons", Width: 8},
		{Title: "Last seen", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return monitorModel{
		connInfo:  connInfo,
		channel:   channel,
		stats:     stats,
		collector: collector,
		apTable:   t,
		maxLog:    100,
		width:     80,
		height:    24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		tableHeight := m.height - 16
		if tableHeight < 4 {
			tableHeight = 4
		}
		m.apTable.SetHeight(tableHeight)

	case tickMsg:
		m.lastStats = m.stats()
		m.refreshTable()
		return m, tickCmd()

	case frameMsg:
		m.addLogEntry(msg.frame.String())

	case linkLostMsg:
		m.linkLost = true
		m.addLogEntry("CONNECTION LOST")
	}

	var cmd tea.Cmd
	m.apTable, cmd = m.apTable.Update(msg)
	return m, cmd
}

func (m *monitorModel) refreshTable() {
	report := m.collector.Build(m.lastStats)
	rows := make([]table.Row, 0, len(report.APs))
	for _, ap := range report.APs {
		ssid := ap.SSID
		if ap.Hidden {
			ssid = "<hidden>"
		} else if ssid == "" {
			ssid = "?"
		}
		rows = append(rows, table.Row{
			ssid,
			ap.BSSID,
			fmt.Sprintf("%d", ap.Channel),
			fmt.Sprintf("%d", ap.BestRSSI),
			fmt.Sprintf("%d", ap.Beacons),
			time.Since(ap.LastSeen).Truncate(time.Second).String() + " ago",
		})
	}
	m.apTable.SetRows(rows)
}

func (m *monitorModel) addLogEntry(message string) {
	m.frameLog = append(m.frameLog, frameLogEntry{timestamp: time.Now(), message: message})
	if len(m.frameLog) > m.maxLog {
		m.frameLog = m.frameLog[len(m.frameLog)-m.maxLog:]
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("SNIFFY - CAPTURE MONITOR"))
	s.WriteString("\n")
	channelDesc := "all channels"
	if m.channel != 0 {
		channelDesc = fmt.Sprintf("channel %d", m.channel)
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Scanning %s | Press 'q' to quit", m.connInfo, channelDesc)))
	s.WriteString("\n\n")

	if m.linkLost {
		s.WriteString(errorStyle.Render("✗ Connection lost"))
		s.WriteString("\n\n")
	}

	// Statistics
	stats := m.lastStats
	statsContent := fmt.Sprintf("%s %s   %s %s   %s %s   %s %s",
		statsLabelStyle.Render("Frames:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.Frames)),
		statsLabelStyle.Render("Dropped:"), func() string {
			if stats.Dropped > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", stats.Dropped))
			}
			return statsValueStyle.Render("0")
		}(),
		statsLabelStyle.Render("Networks:"), statsValueStyle.Render(fmt.Sprintf("%d", m.collector.Count())),
		statsLabelStyle.Render("Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f fps", stats.FrameRate)),
	)
	s.WriteString(boxStyle.Render(statsContent))
	s.WriteString("\n\n")

	// Network inventory
	s.WriteString(statsLabelStyle.Render("Networks:"))
	s.WriteString("\n")
	s.WriteString(m.apTable.View())
	s.WriteString("\n\n")

	// Recent frames
	s.WriteString(statsLabelStyle.Render("Recent Frames:"))
	s.WriteString("\n")

	logHeight := 5
	logContent := strings.Builder{}
	startIdx := len(m.frameLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}
	if len(m.frameLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no frames yet)"))
	} else {
		for i := startIdx; i < len(m.frameLog); i++ {
			entry := m.frameLog[i]
			logContent.WriteString(fmt.Sprintf("%s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				entry.message,
			))
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

// monitorOnFrame builds the client frame callback. The program pointer is
// installed only once the UI exists, and the callback runs on the client's
// read goroutine, so frames arriving before that point go to the collector
// alone.
func monitorOnFrame(collector *host.ReportCollector, program *atomic.Pointer[tea.Program]) func(host.Frame) {
	return func(f host.Frame) {
		collector.Observe(f)
		if p := program.Load(); p != nil {
			p.Send(frameMsg{frame: f})
		}
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	filter, err := parseFilter(monitorFilter)
	if err != nil {
		return err
	}

	conn, connInfo, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	collector := host.NewReportCollector()

	var program atomic.Pointer[tea.Program]
	client := host.NewClient(conn, host.Config{
		Logger:  logger,
		OnFrame: monitorOnFrame(collector, &program),
	})
	defer client.Close()

	if err := client.StartScan(monitorChannel, filter); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}

	model := newMonitorModel(connInfo, monitorChannel, client.Statistics, collector)
	p := tea.NewProgram(model, tea.WithAltScreen())
	program.Store(p)

	go func() {
		<-client.Done()
		p.Send(linkLostMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return err
	}

	if err := client.StopScan(); err != nil {
		logger.Warn().Err(err).Msg("stop scan failed")
	}
	fmt.Printf("\n%s", client.Statistics())
	return nil
}
