package services

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/dbadmin/internal/dto"
	"github.com/GregMSThompson/dbadmin/internal/errs"
	"github.com/GregMSThompson/dbadmin/internal/models"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

type queryQSStore interface {
	Execute(ctx context.Context, query string) ([]models.Row, error)
}

type queryService struct {
	store   queryQSStore
	timeout time.Duration
}

func NewQueryService(store queryQSStore, timeout time.Duration) *queryService {
	return &queryService{store: store, timeout: timeout}
}

// Execute substitutes parameters into the statement and runs it as is.
func (s *queryService) Execute(ctx context.Context, req dto.RawExecuteQueryRequest) ([]models.Row, error) {
	var query string
	if err := json.Unmarshal(req.Query, &query); err != nil || strings.TrimSpace(query) == "" {
		return nil, errs.NewValidationError(errs.MsgInvalidQuery)
	}

	prepared := Substitute(query, decodeParameters(req.Parameters))

	log := logger.FromContext(ctx)
	log.Info("executing query", "query", prepared)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.store.Execute(ctx, prepared)
	if err != nil {
		log.Error("query failed", "error", err)
		return nil, errs.NewQueryError(err)
	}
	return rows, nil
}

// decodeParameters returns nil unless raw holds a JSON object.
func decodeParameters(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		return nil
	}
	return params
}

// Substitute replaces every '<key>' in query with the parameter value:
// quoted for strings (inner quotes doubled), bare for numbers. Values of
// any other type are skipped. Keys are applied in sorted order.
func Substitute(query string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		placeholder := "'" + k + "'"
		switch v := params[k].(type) {
		case string:
			query = strings.ReplaceAll(query, placeholder, "'"+strings.ReplaceAll(v, "'", "''")+"'")
		case json.Number:
			query = strings.ReplaceAll(query, placeholder, v.String())
		case float64:
			query = strings.ReplaceAll(query, placeholder, strconv.FormatFloat(v, 'f', -1, 64))
		case int:
			query = strings.ReplaceAll(query, placeholder, strconv.Itoa(v))
		case int64:
			query = strings.ReplaceAll(query, placeholder, strconv.FormatInt(v, 10))
		}
	}
	return query
}
