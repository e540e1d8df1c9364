package service

import (
	"context"
	"fmt"

	"pictiv/internal/config"
	"pictiv/internal/database"
	"pictiv/internal/models"
)

const (
	markSet    = "✅ Set"
	markNotSet = "❌ Not Set"
)

// Diagnostics is the connectivity report served on /test.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type DiagnosticsService struct {
	store database.Store
	cfg   config.DatabaseConfig
}

func NewDiagnosticsService(store database.Store, cfg config.DatabaseConfig) *DiagnosticsService {
	return &DiagnosticsService{store: store, cfg: cfg}
}

// Check never fails: each check is guarded on its own and reports its
// problem in the Database field.
func (s *DiagnosticsService) Check(ctx context.Context) Diagnostics {
	report := Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	s.checkStore(ctx, &report)

	report.DatabaseURL = presence(s.cfg.URL)
	report.DatabaseName = presence(s.cfg.Name)
	return report
}

func (s *DiagnosticsService) checkStore(ctx context.Context, report *Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			report.Database = "❌ Error: " + truncate(fmt.Sprint(r), models.MaxDiagnosticsErrorLen)
		}
	}()

	if !database.IsAvailable(s.store) {
		report.Database = "⚠️  Available but not initialized"
		return
	}

	report.Database = "✅ Available"
	report.ConnectionStatus = "Connected"
	s.checkCollections(ctx, report)
}

func (s *DiagnosticsService) checkCollections(ctx context.Context, report *Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			report.Database = "⚠️  Connected but Error: " + truncate(fmt.Sprint(r), models.MaxDiagnosticsErrorLen)
		}
	}()

	names, err := s.store.ListCollections(ctx)
	if err != nil {
		report.Database = "⚠️  Connected but Error: " + truncate(err.Error(), models.MaxDiagnosticsErrorLen)
		return
	}
	if len(names) > models.MaxDiagnosticsCollections {
		names = names[:models.MaxDiagnosticsCollections]
	}
	if names == nil {
		names = []string{}
	}
	report.Collections = names
	report.Database = "✅ Connected & Working"
}

func presence(v string) string {
	if v != "" {
		return markSet
	}
	return markNotSet
}
