package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"renice/internal/priority"
)

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show how niceness values map onto priority classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), renderClasses())
			return nil
		},
	}
}

func renderClasses() string {
	header := lipgloss.NewStyle().Bold(true)
	classCol := lipgloss.NewStyle().Width(13)
	rangeCol := lipgloss.NewStyle().Width(11)
	nameCol := lipgloss.NewStyle().Width(8)

	var b strings.Builder
	b.WriteString(header.Render(classCol.Render("CLASS") + rangeCol.Render("NICENESS") + nameCol.Render("NAMED") + "ALIASES"))
	b.WriteByte('\n')
	for _, class := range priority.Classes {
		r, _ := priority.RangeOf(class)
		b.WriteString(classCol.Render(class.String()))
		b.WriteString(rangeCol.Render(r.String()))
		b.WriteString(nameCol.Render(strconv.Itoa(priority.Representative(class))))
		b.WriteString(strings.Join(priority.Symbols(class), ", "))
		b.WriteByte('\n')
	}
	return b.String()
}
