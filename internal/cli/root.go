// Package cli is the dbadmin terminal front end: browse tables and views,
// edit records through schema driven forms and run canned queries against
// a dbadmin API server.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/form"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/internal/queries"
	"github.com/GregMSThompson/dbadmin/pkg/client"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// apiClient is the part of *client.Client the commands use.
type apiClient interface {
	ListTables(ctx context.Context) ([]models.Relation, error)
	ListViews(ctx context.Context) ([]models.Relation, error)
	TableSchema(ctx context.Context, table string) ([]models.Column, error)
	TableForm(ctx context.Context, table string) ([]form.Field, error)
	TableRows(ctx context.Context, table string) ([]models.Row, error)
	ViewRows(ctx context.Context, view string) ([]models.Row, error)
	Insert(ctx context.Context, table string, data *models.Row) (*models.Row, error)
	Update(ctx context.Context, table, id string, data *models.Row) (*models.Row, error)
	Delete(ctx context.Context, table, id string) (dto.MessageResponse, error)
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]models.Row, error)
	RunQuery(ctx context.Context, q models.PredefinedQuery, overrides map[string]any) ([]models.Row, error)
}

// app carries what every command needs once flags are parsed.
type app struct {
	settings *Settings
	client   apiClient
	catalog  *queries.Catalog
	out      renderer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{catalog: queries.Builtin()}

	rootCmd := &cobra.Command{
		Use:     "dbadmin",
		Short:   "Browse and edit a database through the dbadmin API",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			settings, err := loadSettings(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.settings = settings
			a.out = renderer{w: cmd.OutOrStdout(), format: settings.Output}

			log := logger.New(settings.LogLevel, logger.NewTextHandler)
			a.client = client.New(settings.APIURL,
				client.WithHTTPClient(&http.Client{Timeout: settings.Timeout}),
				client.WithToken(settings.Token),
				client.WithLogger(log),
			)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("api-url", "", "API base URL (default "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for servers with auth enabled")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level for request failures (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("timeout", "", "HTTP timeout per request (default 60s)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newTablesCommand(a),
		newViewsCommand(a),
		newSchemaCommand(a),
		newFormCommand(a),
		newRowsCommand(a),
		newViewCommand(a),
		newInsertCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newQueriesCommand(a),
		newQueryCommand(a),
		newExecCommand(a),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
