package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/ledtoggle/internal/api/models"
	"github.com/smazurov/ledtoggle/internal/logging"
)

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Recent log entries from the in-memory ring buffer, oldest first",
		Tags:        []string{"logs"},
		Errors:      []int{401, 422},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		var source []logging.LogEntry
		if input.Module == "" {
			source = logging.GetBuffer().Tail(input.Limit)
		} else {
			// Filter first so limit applies to the module's own entries.
			all := logging.GetBuffer().ReadAll()
			for _, entry := range all {
				if entry.Module == input.Module {
					source = append(source, entry)
				}
			}
			if len(source) > input.Limit {
				source = source[len(source)-input.Limit:]
			}
		}

		entries := make([]models.LogEntryData, 0, len(source))
		for _, entry := range source {
			entries = append(entries, models.LogEntryData{
				Timestamp:  entry.Timestamp,
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
				Line:       logging.FormatLogLine(entry),
			})
		}

		return &models.LogsResponse{
			Body: models.LogsData{Entries: entries, Count: len(entries)},
		}, nil
	})
}
