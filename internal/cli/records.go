package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/models"
)

func newInsertCommand(a *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "insert <table> --set column=value ...",
		Short:   "Insert a record after validating it against the table's form",
		Example: "  dbadmin insert customer --set first_name=Jane --set last_name=Doe --set credit_score=720",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.prepare(cmd, args[0], sets, false)
			if err != nil {
				return err
			}
			row, err := a.client.Insert(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			return a.out.record(row)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to insert (repeatable)")
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "update <table> <id> --set column=value ...",
		Short:   "Update a record by primary key",
		Example: "  dbadmin update loan 5 --set status=Paid",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.prepare(cmd, args[0], sets, true)
			if err != nil {
				return err
			}
			row, err := a.client.Update(cmd.Context(), args[0], args[1], data)
			if err != nil {
				return err
			}
			return a.out.record(row)
		},
	}
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to change (repeatable)")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete a record by primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.out.message(msg.Message)
		},
	}
}

// prepare validates column=value pairs against the table's form and
// converts them into a request body. Per field problems go to stderr.
func (a *app) prepare(cmd *cobra.Command, table string, sets []string, partial bool) (*models.Row, error) {
	values, err := parseAssignments(sets)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no columns provided, use --set column=value")
	}

	fields, err := a.client.TableForm(cmd.Context(), table)
	if err != nil {
		return nil, err
	}

	if problems := form.ValidateAll(fields, values, partial); problems != nil {
		w := cmd.ErrOrStderr()
		for _, name := range sortedKeys(problems) {
			fmt.Fprintf(w, "  %s: %s\n", name, problems[name])
		}
		return nil, fmt.Errorf("validation failed for %d field(s)", len(problems))
	}
	return form.Coerce(fields, values)
}

// parseAssignments splits column=value pairs. Values may contain '='.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected column=value, got %q", p)
		}
		out[name] = value
	}
	return out, nil
}
