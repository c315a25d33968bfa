package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lamim/imglabel/internal/labeling"
	"github.com/lamim/imglabel/internal/progress"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("imglabel"))
	b.WriteString("\n\n")

	descriptor := m.session.Task()
	if descriptor == nil {
		b.WriteString(labelStyle.Render("No task loaded. Run `imglabel split` to create tasks."))
		b.WriteString("\n\n")
		b.WriteString(m.footer())
		return b.String()
	}

	stats := m.session.Stats()
	remaining := len(m.session.Remaining())
	total := len(descriptor.Images)

	b.WriteString(field("Task", descriptor.TaskName))
	if len(m.tasks) > 1 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  (%d/%d)", m.taskIdx+1, len(m.tasks))))
	}
	b.WriteString("\n")
	b.WriteString(field("Total", fmt.Sprint(total)) + "  ")
	b.WriteString(field("Completed", fmt.Sprint(stats.Labeled)) + "  ")
	b.WriteString(field("Remaining", fmt.Sprint(remaining)))
	b.WriteString("\n\n")

	if m.session.State() == labeling.StateCompleted {
		b.WriteString(completedStyle.Render("Task complete"))
		b.WriteString("\n\n")
	} else if current, ok := m.session.Current(); ok {
		b.WriteString(filenameStyle.Render(current))
		b.WriteString("\n")
		if size, ok := m.currentSize(current); ok {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%.1f KB", float64(size)/1024)))
		} else {
			b.WriteString(labelStyle.Render("size unknown"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(field("Progress", fmt.Sprintf("%d / %d", stats.Labeled, total)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %.1f%%", progress.Percent(stats.Labeled, total))))
	b.WriteString("\n")
	b.WriteString(statsLine(stats))
	b.WriteString("\n\n")

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString(statusStyles[m.level].Render(m.status))
		b.WriteString("\n")
	}
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func field(name, value string) string {
	return labelStyle.Render(name+": ") + valueStyle.Render(value)
}

func statsLine(s progress.Stats) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		highStyle.Render(fmt.Sprintf("high: %d", s.HighQuality)), "  ",
		lowStyle.Render(fmt.Sprintf("low: %d", s.LowQuality)), "  ",
		skipStyle.Render(fmt.Sprintf("skip: %d", s.Skip)),
	)
}
