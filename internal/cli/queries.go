package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newQueriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the canned queries",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			list := a.catalog.List()
			lines := make([]table.Row, len(list))
			for i, q := range list {
				lines[i] = table.Row{q.ID, q.Name, q.Description}
			}
			return a.out.list(list, table.Row{"id", "name", "description"}, lines)
		},
	}
}

func newQueryCommand(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:     "query <id>",
		Short:   "Run a canned query",
		Example: "  dbadmin query query2 --param branchName='Uptown Branch'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, ok := a.catalog.Find(args[0])
			if !ok {
				return fmt.Errorf("unknown query %q, see 'dbadmin queries'", args[0])
			}
			overrides, err := parseParams(params)
			if err != nil {
				return err
			}
			rows, err := a.client.RunQuery(cmd.Context(), q, overrides)
			if err != nil {
				return err
			}
			return a.out.rows(rows)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "name=value substitution (repeatable)")
	return cmd
}

func newExecCommand(a *app) *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a SQL statement as is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseParams(params)
			if err != nil {
				return err
			}
			rows, err := a.client.ExecuteQuery(cmd.Context(), args[0], overrides)
			if err != nil {
				return err
			}
			return a.out.rows(rows)
		},
	}
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "name=value substitution (repeatable)")
	return cmd
}

// parseParams turns name=value pairs into string parameters.
func parseParams(pairs []string) (map[string]any, error) {
	values, err := parseAssignments(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}
