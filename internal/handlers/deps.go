package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/dbadmin/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	CatalogSvc      catalogService
	RecordSvc       recordService
	QuerySvc        queryService
}
