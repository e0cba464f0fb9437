package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/vpcctl/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorGreen)
)

// renderBastionSummary lists every bastion with its address and connect script.
func renderBastionSummary(network string, nodes []provisioning.BastionNode, scripts []string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  vpcctl: %s is ready", network)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("  Bastions"))
	b.WriteString("\n")

	for i, node := range nodes {
		b.WriteString(fmt.Sprintf("    %-20s %s\n", node.Name, valueStyle.Render(node.Target())))
		if i < len(scripts) {
			b.WriteString(dimStyle.Render("      connect: " + scripts[i]))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderInventory prints an inventory grouped by resource kind.
func renderInventory(inv *provisioning.Inventory) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  vpcctl status: " + inv.Network))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if !inv.Exists() {
		b.WriteString(dimStyle.Render("  network does not exist"))
		b.WriteString("\n")
		return b.String()
	}

	kind := ""
	for _, item := range inv.Items {
		if item.Kind != kind {
			kind = item.Kind
			b.WriteString("\n")
			b.WriteString(sectionStyle.Render(fmt.Sprintf("  %s (%d)", kind, inv.Count(kind))))
			b.WriteString("\n")
		}
		name := item.Name
		if name == "" {
			name = "-"
		}
		b.WriteString(fmt.Sprintf("    %-22s %-20s %s\n", item.ID, name, dimStyle.Render(item.Detail)))
	}
	return b.String()
}

func renderDeleted(network string) string {
	return titleStyle.Render(fmt.Sprintf("vpcctl: %s deleted", network))
}
