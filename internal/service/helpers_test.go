package service

import (
	"sync"
	"testing"
	"time"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []hub.Event
}

func (p *recordingPublisher) Broadcast(_ string, event hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{DBType: config.DBTypeSQLite, DBSynchronize: true}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestServices(t *testing.T) (*CategoryService, *GameService, *recordingPublisher) {
	t.Helper()
	db := newTestDB(t)
	events := &recordingPublisher{}
	categories := NewCategoryService(db, logging.Discard(), events)
	games := NewGameService(db, categories, logging.Discard(), events)
	return categories, games, events
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func gameInput(title string, categoryID uint) CreateGameInput {
	return CreateGameInput{
		Title:       title,
		Price:       price("9.99"),
		Developer:   "Acme",
		ReleaseDate: NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Category:    &CategoryRef{ID: categoryID},
	}
}
