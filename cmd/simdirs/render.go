package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/simdirs/internal/app/run"
	"github.com/John-Robertt/simdirs/internal/domain"
	"github.com/John-Robertt/simdirs/internal/infra/imgx"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		domain.StatusResolved:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		domain.StatusUnresolved: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		domain.StatusFailed:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
)

// renderPanel 把属性面板渲染为带边框的两列表格。
func renderPanel(p domain.PropertyPanel) string {
	props := p.Properties()
	width := 0
	for _, pr := range props {
		if w := lipgloss.Width(pr.Title); w > width {
			width = w
		}
	}

	lines := make([]string, 0, len(props)+2)
	lines = append(lines, headerStyle.Render(p.Header()))
	for _, pr := range props {
		v := pr.Value.String()
		if _, ok := pr.Value.Path(); ok {
			v = pathStyle.Render(v)
		}
		lines = append(lines, labelStyle.Width(width+2).Render(pr.Title)+v)
	}
	lines = append(lines, labelStyle.Width(width+2).Render("Icon")+iconNote(p))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

func iconNote(p domain.PropertyPanel) string {
	img := p.Image()
	if img == nil {
		return dimStyle.Render("(none)")
	}
	w := imgx.Width(img)
	if imgx.IsDefaultIcon(img) {
		return dimStyle.Render(fmt.Sprintf("default %dpx", w))
	}
	return fmt.Sprintf("%dpx", w)
}

// renderReport 在终端上按设备分组输出每个 app 一行，最后是汇总。
func renderReport(rr domain.ScanReport) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Devices: "+rr.Root) + "\n")

	last := "\x00"
	for _, it := range rr.Items {
		if it.Device != last {
			last = it.Device
			name := it.DeviceName
			if name == "" {
				name = "<unknown>"
			}
			if it.Device != "" {
				name += " " + dimStyle.Render(it.Device)
			}
			b.WriteString("\n" + headerStyle.Render(name) + "\n")
		}
		b.WriteString("  " + renderItem(it) + "\n")
	}

	b.WriteString("\n" + summaryLine(rr.Summary) + "\n")
	return b.String()
}

func renderItem(it domain.AppResult) string {
	st, ok := statusStyles[it.Status]
	if !ok {
		st = dimStyle
	}
	badge := st.Width(10).Render(strings.ToUpper(it.Status))

	if it.Status == domain.StatusFailed {
		key := it.BundleID
		if key == "" {
			key = "<device>"
		}
		return fmt.Sprintf("%s %s %s: %s", badge, key, it.ErrorCode, truncate(it.ErrorMsg, 160))
	}

	line := badge + " " + it.BundleID
	if it.Title != "" {
		line += "  " + it.Title
	}
	if v := propertyText(it.Properties, "Version"); v != "" {
		line += dimStyle.Render("  v" + v)
	}
	if it.Icon == run.IconDefault {
		line += dimStyle.Render("  [default icon]")
	}
	if it.IconExport != "" {
		line += dimStyle.Render("  -> " + it.IconExport)
	}
	return line
}

func propertyText(props []domain.Property, title string) string {
	for _, p := range props {
		if p.Title == title {
			return p.Value.String()
		}
	}
	return ""
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
