package ui

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"tabload/internal/schema"
)

// ShowSchemaPreview prints the inferred target schema before loading
func ShowSchemaPreview(target schema.TargetTableSchema, created bool) {
	action := "append to"
	if created {
		action = "create"
	}
	fmt.Printf("\n%s %s %s\n", ColorInfo("Target:"), action, ColorBold(target.Destination.String()))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Column", "Type"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")

	for i, col := range target.Columns {
		table.Append([]string{fmt.Sprintf("%d", i+1), col.Name, col.SQLType})
	}
	table.Render()
}
