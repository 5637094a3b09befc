package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dbadmin/internal/models"
)

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := a.client.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.list(tables, table.Row{"table"}, relationLines(tables))
		},
	}
}

func newViewsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := a.client.ListViews(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.list(views, table.Row{"view"}, relationLines(views))
		},
	}
}

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show a table's columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := a.client.TableSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			lines := make([]table.Row, len(cols))
			for i, c := range cols {
				lines[i] = table.Row{c.Name, c.DataType, c.IsNullable, formatValue(defaultOrNil(c))}
			}
			return a.out.list(cols, table.Row{"column", "type", "nullable", "default"}, lines)
		},
	}
}

func newFormCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "form <table>",
		Short: "Show the input fields used to insert into a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.client.TableForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			lines := make([]table.Row, 0, len(fields))
			for _, f := range fields {
				required := ""
				switch {
				case f.AutoGenerated:
					required = "auto"
				case f.Required:
					required = "yes"
				}
				hint := f.Placeholder
				if len(f.Options) > 0 {
					hint = strings.Join(f.Options, " | ")
				}
				lines = append(lines, table.Row{f.Name, f.Label, f.Kind, required, hint})
			}
			return a.out.list(fields, table.Row{"field", "label", "kind", "required", "hint"}, lines)
		},
	}
}

func newRowsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rows <table>",
		Short: "Show the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.client.TableRows(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.rows(rows)
		},
	}
}

func newViewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <view>",
		Short: "Show the first rows of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.client.ViewRows(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.rows(rows)
		},
	}
}

func relationLines(rels []models.Relation) []table.Row {
	lines := make([]table.Row, len(rels))
	for i, r := range rels {
		lines[i] = table.Row{r.Name}
	}
	return lines
}

func defaultOrNil(c models.Column) any {
	if c.Default == nil {
		return nil
	}
	return *c.Default
}
