package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/orchestration"
	"github.com/imamik/cliquenet/internal/platform/docker"
	"github.com/imamik/cliquenet/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
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

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func renderNetworkList(networks []network.Network) string {
	var b strings.Builder
	if len(networks) == 0 {
		b.WriteString(dimStyle.Render("No networks registered"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("  %-16s %-10s %-18s %-15s %s", "ID", "CHAIN", "SUBNET", "BOOTNODE", "NODES")))
	b.WriteString("\n")
	for _, n := range networks {
		fmt.Fprintf(&b, "  %-16s %-10d %-18s %-15s %d\n", n.ID, n.ChainID, n.Subnet, n.BootNodeIP, len(n.Nodes))
	}
	return b.String()
}

func renderNetwork(n *network.Network) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Network %s", n.ID)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Chain ID:  %d\n", n.ChainID)
	fmt.Fprintf(&b, "  Subnet:    %s\n", n.Subnet)
	fmt.Fprintf(&b, "  Bootnode:  %s\n", n.BootNodeIP)

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Nodes"))
	b.WriteString("\n")
	for _, node := range n.Nodes {
		line := fmt.Sprintf("    %-12s %-8s %s", node.Name, node.Type, node.IP)
		if node.Port != 0 {
			line += fmt.Sprintf(":%d", node.Port)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(n.Allocations) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Allocations"))
		b.WriteString("\n")
		for _, a := range n.Allocations {
			fmt.Fprintf(&b, "    %s  %d ETH\n", a.Address, a.Value)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func renderCreated(res *provisioning.Result) string {
	var b strings.Builder
	b.WriteString(renderNetwork(res.Network))

	if signers, err := res.Genesis.Signers(); err == nil {
		b.WriteString(sectionStyle.Render("  Signers"))
		b.WriteString("\n")
		for _, s := range signers {
			fmt.Fprintf(&b, "    %s\n", s.Hex())
		}
		b.WriteString("\n")
	}
	b.WriteString(successStyle.Render(fmt.Sprintf("  Network %s provisioned. Start it with: cliquenet network start %s", res.Network.ID, res.Network.ID)))
	b.WriteString("\n")
	return b.String()
}

func renderStatus(status orchestration.NetworkStatus) string {
	var b strings.Builder

	state := errorStyle.Render("stopped")
	if status.Running {
		state = successStyle.Render("running")
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Network %s: ", status.NetworkID)))
	b.WriteString(state)
	b.WriteString("\n")

	for _, c := range status.Containers {
		style := dimStyle
		if c.State == docker.StateRunning {
			style = successStyle
		}
		fmt.Fprintf(&b, "    %-22s %-9s %s\n", c.Container, c.Type, style.Render(string(c.State)))
	}
	return b.String()
}

func renderValidationFailure(failure *provisioning.ValidationFailure) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("  %d validation errors", len(failure.Errors))))
	b.WriteString("\n")
	for _, e := range failure.Errors {
		fmt.Fprintf(&b, "    %-24s %s %s\n", e.Field, e.Message, dimStyle.Render("("+string(e.Kind)+")"))
	}
	return b.String()
}
