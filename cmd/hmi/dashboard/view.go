package dashboard

import (
	"fmt"
	"strings"

	"torhmi/cmd/hmi/ui"
	"torhmi/internal/render"
	"torhmi/internal/session"
	"torhmi/internal/types"

	"github.com/charmbracelet/lipgloss"
)

const sidePanelWidth = 34

// View renders the current page.
func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	var body string
	switch m.page {
	case pageHelp, pageLogic:
		body = m.pageView.View()
	default:
		body = m.renderDashboard()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	s := m.ctrl.State()
	title := m.style.Header.Render("AV  HMI CONTROL")
	risk := fmt.Sprintf("risk %s %s", m.style.RiskBadge(s.Risk), m.style.Muted.Render(fmt.Sprintf("%.1f", s.Risk.Score)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", m.style.ModeBadge(s.Vehicle.Mode), "  ", risk)
}

func (m Model) renderFooter() string {
	line := m.help.View(m.keys)
	if m.status != "" {
		line = m.style.Warning.Render(m.status) + "  " + line
	}
	return m.style.Footer.Render(line)
}

func (m Model) renderDashboard() string {
	s := m.ctrl.State()

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderCluster(s),
		m.renderDMS(s),
	)

	frame := render.Project(s.Vehicle, m.scroller.Offset(), render.DefaultViewport)
	road := m.style.Panel.Render(ui.PaintGrid(render.Rasterize(frame, m.cols, m.rows)))

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderReasoning(s),
		m.renderEnvironment(s),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, road, right)
}

func (m Model) panel(title, content string) string {
	body := m.style.PanelTitle.Render(strings.ToUpper(title)) + "\n" + content
	return m.style.Panel.Width(sidePanelWidth).Render(body)
}

func (m Model) renderCluster(s session.State) string {
	gw := sidePanelWidth - 4
	var sb strings.Builder
	sb.WriteString(ui.SpeedGauge(s.Vehicle).View(m.style, gw))
	sb.WriteString("\n\n")
	sb.WriteString(ui.DistanceGauge(s.Vehicle).View(m.style, gw))
	sb.WriteString("\n\n")

	auto := m.style.Muted.Render("[ENGAGE AUTO]")
	if s.Vehicle.Mode == types.ModeAutonomous {
		auto = m.style.Info.Bold(true).Render("[AUTO ENGAGED]")
	}
	manual := m.style.Muted.Render("[MANUAL]")
	if s.Vehicle.Mode == types.ModeManual {
		manual = m.style.Success.Render("[MANUAL]")
	}
	sb.WriteString(auto + " " + manual)
	return m.panel("Instrument Cluster", sb.String())
}

func (m Model) renderDMS(s session.State) string {
	gw := sidePanelWidth - 4
	var sb strings.Builder
	sb.WriteString(ui.EyeAttentionGauge(s.Driver).View(m.style, gw))
	sb.WriteString("\n")
	sb.WriteString(ui.DrowsinessGauge(s.Driver).View(m.style, gw))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %d/100\n", m.style.Label.Render("READINESS"), s.Driver.ReadinessScore)

	hands := m.style.Error.Render("●")
	if s.Driver.HandsOnWheel {
		hands = m.style.Success.Render("●")
	}
	sb.WriteString(m.style.Label.Render("HANDS ON WHEEL ") + hands)
	return m.panel("Driver Status (DMS)", sb.String())
}

func (m Model) renderReasoning(s session.State) string {
	title := "HMI Reasoning Engine"
	if s.Thinking {
		title += " " + m.spin.View()
	}

	var sb strings.Builder
	if exp := s.Explanation; exp != nil {
		sb.WriteString(m.style.Label.Render("OBSERVATION") + "\n")
		sb.WriteString(m.style.Quote.Width(sidePanelWidth-2).Render("\""+exp.Reason+"\"") + "\n\n")
		sb.WriteString(m.style.Label.Render("URGENCY ") + m.style.Urgency.Render(fmt.Sprintf("%d/10", exp.Urgency)) + "\n")
		sb.WriteString(m.style.Label.Render("RECOMMENDED ACTION") + "\n")
		sb.WriteString(m.style.Action.Width(sidePanelWidth-2).Render(exp.Action))
	} else {
		sb.WriteString(m.style.Muted.Render("System Nominal. Awaiting Context Shift."))
	}

	sb.WriteString("\n\n")
	if s.Vehicle.Mode == types.ModeTakeoverRequest || s.Thinking {
		sb.WriteString(m.style.Muted.Render("[SIMULATE FAILURE / TOR]"))
	} else {
		sb.WriteString(m.style.Error.Render("[SIMULATE FAILURE / TOR]"))
	}
	return m.panel(title, sb.String())
}

func (m Model) renderEnvironment(s session.State) string {
	e := s.Environment
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d%%\n", m.style.Label.Render("COMPLEXITY"), e.Complexity)
	fmt.Fprintf(&sb, "%s %s\n", m.style.Label.Render("WEATHER   "), e.Weather)
	fmt.Fprintf(&sb, "%s %s\n", m.style.Label.Render("TRAFFIC   "), e.TrafficDensity)
	fmt.Fprintf(&sb, "%s %s (%.1f)", m.style.Label.Render("RISK      "), m.style.RiskBadge(s.Risk), s.Risk.Score)
	return m.panel("Environment Control", sb.String())
}
