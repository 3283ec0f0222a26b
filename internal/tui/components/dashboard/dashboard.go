package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pillars/internal/status"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(9)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	riskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	barFill  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const barWidth = 24

type Model struct {
	Snapshot *status.Snapshot
	width    int
}

func New(width int) Model {
	return Model{width: width}
}

func (m *Model) SetSnapshot(snap status.Snapshot) {
	m.Snapshot = &snap
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func bar(score int) string {
	filled := score * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	return barFill.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}

func (m Model) View() string {
	if m.Snapshot == nil {
		return "Loading..."
	}
	snap := m.Snapshot

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %3d\n", labelStyle.Render("BODY"), bar(snap.Score.BodyScore), snap.Score.BodyScore)
	fmt.Fprintf(&b, "%s %s %3d\n", labelStyle.Render("MIND"), bar(snap.Score.MindScore), snap.Score.MindScore)
	fmt.Fprintf(&b, "%s %.1f\n\n", labelStyle.Render("Balance"), snap.Score.BalanceIndex)

	for _, s := range snap.Streaks {
		line := fmt.Sprintf("%s %d (best %d)", labelStyle.Render(string(s.PillarKey)), s.Current, s.Longest)
		switch {
		case s.CompleteToday:
			line += " " + completeStyle.Render("✓")
		case s.AtRisk:
			line += " " + riskStyle.Render("at risk")
		}
		b.WriteString(line + "\n")
	}
	if snap.IsToday {
		fmt.Fprintf(&b, "%s %.1fh left\n", labelStyle.Render(""), snap.HoursRemaining)
	}

	if snap.Vendor != nil && snap.Vendor.RecoveryScore != nil {
		fmt.Fprintf(&b, "\n%s %d%% → %s\n", labelStyle.Render("Recovery"), *snap.Vendor.RecoveryScore, snap.Recommendation)
	}
	if snap.Quote != "" {
		b.WriteString("\n" + quoteStyle.Width(max(m.width-4, 20)).Render(snap.Quote) + "\n")
	}
	return b.String()
}
