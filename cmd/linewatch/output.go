package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/hamed0406/linewatch/internal/domain"
	"github.com/hamed0406/linewatch/internal/report"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderStatuses prints one row per line. Pipes get tab separated
// line/status/message so the output stays greppable.
func renderStatuses(w io.Writer, lines []domain.LineStatus, pretty bool) {
	if !pretty {
		for _, l := range lines {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Line, l.Status, l.Message)
		}
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Line", "Operator", "Status", "Message"})
	for _, l := range lines {
		tw.AppendRow(table.Row{l.Line, l.Operator, statusColor(l.Status).Sprint(report.Label(l.Status)), l.Message})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 60},
	})
	tw.Render()
}

func statusColor(s domain.Status) text.Colors {
	switch s {
	case domain.StatusNormal:
		return text.Colors{text.FgGreen}
	case domain.StatusDelayed:
		return text.Colors{text.FgYellow}
	case domain.StatusSuspended:
		return text.Colors{text.FgRed, text.Bold}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

func renderLines(w io.Writer, lines []domain.LineConfig, pretty bool) {
	if !pretty {
		for _, l := range lines {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Name, l.Operator, l.Source)
		}
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Line", "Operator", "Source", "Rules", "Silence"})
	for _, l := range lines {
		silence := "unknown"
		if l.SilenceIsNormal {
			silence = "normal"
		}
		tw.AppendRow(table.Row{l.Name, l.Operator, l.Source, len(l.Keywords.Disruption), silence})
	}
	tw.Render()
}
