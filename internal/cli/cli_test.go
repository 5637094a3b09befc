package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerForm = `[
	{"name":"customer_id","label":"Customer ID","kind":"number","data_type":"integer","integer":true,"required":false,"auto_generated":true},
	{"name":"first_name","label":"First Name","kind":"text","data_type":"character varying","required":true},
	{"name":"email","label":"Email","kind":"email","data_type":"character varying","required":false},
	{"name":"credit_score","label":"Credit Score","kind":"number","data_type":"integer","integer":true,"required":false}
]`

type request struct {
	Method string
	Path   string
	Body   string
}

// fakeAPI answers by "METHOD path" and records every request.
func fakeAPI(t *testing.T, routes map[string]string) (string, *[]request) {
	t.Helper()
	var seen []request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		resp, ok := routes[r.Method+" "+r.URL.Path]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Record not found"}`))
			return
		}
		if r.Method == http.MethodPost && r.URL.Path != "/api/execute-query" {
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api", &seen
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--output", "table"}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTablesJSON(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{
		"GET /api/tables": `[{"table_name":"account"},{"table_name":"customer"}]`,
	})

	out, _, err := run(t, url, "tables", "-o", "json")
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []map[string]string{{"table_name": "account"}, {"table_name": "customer"}}, got)
}

func TestRowsRendersTable(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{
		"GET /api/tables/customer": `[{"customer_id":1,"first_name":"Jane","email":null},{"customer_id":2,"first_name":"Raj","email":"raj@example.com"}]`,
	})

	out, _, err := run(t, url, "rows", "customer")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestRowsEmpty(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{"GET /api/views/v_summary": `[]`})

	out, _, err := run(t, url, "view", "v_summary")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", out)
}

func TestInsertValidatesBeforeSubmitting(t *testing.T) {
	url, seen := fakeAPI(t, map[string]string{
		"GET /api/tables/customer/form": customerForm,
	})

	_, stderr, err := run(t, url, "insert", "customer", "--set", "credit_score=100", "--set", "email=nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, stderr, "credit_score:")
	assert.Contains(t, stderr, "email:")
	assert.Contains(t, stderr, "first_name:")

	for _, r := range *seen {
		assert.NotEqual(t, http.MethodPost, r.Method)
	}
}

func TestInsertCoercesAndSubmits(t *testing.T) {
	url, seen := fakeAPI(t, map[string]string{
		"GET /api/tables/customer/form": customerForm,
		"POST /api/tables/customer":     `{"customer_id":7,"first_name":"Jane","email":null,"credit_score":720}`,
	})

	out, _, err := run(t, url, "insert", "customer", "--set", "credit_score=720", "--set", "first_name=Jane", "-o", "json")
	require.NoError(t, err)

	post := (*seen)[len(*seen)-1]
	assert.Equal(t, http.MethodPost, post.Method)
	assert.JSONEq(t, `{"first_name":"Jane","credit_score":720}`, post.Body)
	assert.Contains(t, out, `"customer_id": 7`)
}

func TestUpdateOnlyChecksSuppliedColumns(t *testing.T) {
	url, seen := fakeAPI(t, map[string]string{
		"GET /api/tables/customer/form": customerForm,
		"PUT /api/tables/customer/7":    `{"customer_id":7,"first_name":"Jane","email":"jane@example.com","credit_score":720}`,
	})

	out, _, err := run(t, url, "update", "customer", "7", "--set", "email=jane@example.com")
	require.NoError(t, err)

	put := (*seen)[len(*seen)-1]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.JSONEq(t, `{"email":"jane@example.com"}`, put.Body)
	assert.Contains(t, out, "jane@example.com")
}

func TestUpdateUnknownColumn(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{
		"GET /api/tables/customer/form": customerForm,
	})

	_, stderr, err := run(t, url, "update", "customer", "7", "--set", "nickname=JJ")
	require.Error(t, err)
	assert.Contains(t, stderr, "nickname:")
}

func TestDeleteNotFound(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{})

	_, _, err := run(t, url, "delete", "customer", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Record not found")
}

func TestDeletePrintsMessage(t *testing.T) {
	url, _ := fakeAPI(t, map[string]string{
		"DELETE /api/tables/customer/3": `{"message":"Record deleted successfully"}`,
	})

	out, _, err := run(t, url, "delete", "customer", "3")
	require.NoError(t, err)
	assert.Equal(t, "Record deleted successfully\n", out)
}

func TestQueryAppliesOverrides(t *testing.T) {
	url, seen := fakeAPI(t, map[string]string{
		"POST /api/execute-query": `[{"transaction_id":1,"branch_name":"Uptown Branch"}]`,
	})

	out, _, err := run(t, url, "query", "query2", "--param", "branchName=Uptown Branch")
	require.NoError(t, err)
	assert.Contains(t, out, "Uptown Branch")

	var body struct {
		Query      string         `json:"query"`
		Parameters map[string]any `json:"parameters"`
	}
	require.Len(t, *seen, 1)
	require.NoError(t, json.Unmarshal([]byte((*seen)[0].Body), &body))
	assert.Contains(t, body.Query, "'branchName'")
	assert.Equal(t, "Uptown Branch", body.Parameters["branchName"])
}

func TestQueryUnknownID(t *testing.T) {
	url, seen := fakeAPI(t, map[string]string{})

	_, _, err := run(t, url, "query", "query99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown query")
	assert.Empty(t, *seen)
}

func TestQueriesListsCatalog(t *testing.T) {
	out, _, err := run(t, "http://127.0.0.1:1/api", "queries")
	require.NoError(t, err)
	assert.Contains(t, out, "query1")
	assert.Contains(t, out, "query12")
}

func TestRejectsUnknownOutput(t *testing.T) {
	_, _, err := run(t, "http://127.0.0.1:1/api", "queries", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSettingsTimeout(t *testing.T) {
	cmd := NewRootCmd()
	flags := cmd.PersistentFlags()

	s, err := loadSettings(flags)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, s.Timeout)

	require.NoError(t, flags.Set("timeout", "5s"))
	s, err = loadSettings(flags)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.Timeout)

	require.NoError(t, flags.Set("timeout", "0s"))
	_, err = loadSettings(flags)
	assert.Error(t, err)
}

func TestTimeoutAppliesToRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	_, _, err := run(t, srv.URL+"/api", "tables", "--timeout", "50ms")
	require.Error(t, err)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", "note=x=y", " b =", "c=two words"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "note": "x=y", "b": "", "c": "two words"}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=1"})
	assert.Error(t, err)
}
