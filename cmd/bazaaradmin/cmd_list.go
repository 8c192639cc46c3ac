package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bazaaradmin/cmd/bazaaradmin/ui"
	"bazaaradmin/internal/api"
	"bazaaradmin/internal/tablesort"
)

var listSortBy string

// listCmd renders one resource as a plain table, for scripts and
// quick checks without opening the dashboard.
var listCmd = &cobra.Command{
	Use:   "list [resource]",
	Short: "List a resource as a plain table",
	Long: `Fetches one resource collection and prints it as a table.

Resources: ` + strings.Join(resourceNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSortBy, "sort", "", "Column to sort by")
}

func resourceNames() []string {
	names := make([]string, 0, len(api.Resources))
	for _, spec := range api.Resources {
		names = append(names, spec.Name)
	}
	return names
}

func runList(cmd *cobra.Command, args []string) error {
	spec, ok := api.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown resource %q, expected one of: %s", args[0], strings.Join(resourceNames(), ", "))
	}

	client := newClient()
	entities, err := client.List(context.Background(), spec, nil)
	if err != nil {
		return err
	}

	var state tablesort.State
	if listSortBy != "" {
		state.Request(listSortBy)
	}
	entities = tablesort.Apply(entities, spec.Columns, state)

	headers := make([]string, 0, len(spec.Columns)+1)
	headers = append(headers, "id")
	for _, col := range spec.Columns {
		headers = append(headers, col.Label)
	}
	table := ui.NewSimpleTable(spec.Title, headers)
	for _, e := range entities {
		row := make([]string, 0, len(spec.Columns)+1)
		row = append(row, e.ID())
		for _, col := range spec.Columns {
			row = append(row, ui.CellValue(e, col))
		}
		table.AddRow(row...)
	}

	fmt.Print(table.View(ui.NewStyles(ui.LightTheme())))
	return nil
}
