package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core/model"
	"github.com/atelierhq/procura/internal/core/summary"
)

type quoteRecord struct {
	ID            string `gorm:"primaryKey"`
	SupplierName  string
	MarkupPercent *float64
	Currency      string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type catalogItemRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Status      string
	TradePrice  *float64
	RetailPrice *float64
	Currency    string
	LeadTime    string
	UpdatedAt   time.Time
}

type reportRecord struct {
	QuoteID   string `gorm:"primaryKey"`
	Supplier  string // JSON SupplierInfo
	Notes     string
	CreatedAt time.Time
}

// resultRecord stores one MatchResult as JSON. Results are immutable once
// written; only the resolved overlay columns change.
type resultRecord struct {
	ID                    string `gorm:"primaryKey"`
	QuoteID               string `gorm:"index"`
	Position              int
	Payload               string
	Resolved              bool
	ResolvedCatalogItemID string
}

type quoteLineRecord struct {
	ID            string `gorm:"primaryKey"`
	QuoteID       string `gorm:"index"`
	CatalogItemID string
	Description   string
	Quantity      int
	UnitPrice     float64
	LeadTime      string
}

type activityRecord struct {
	ID            uint `gorm:"primaryKey;autoIncrement"`
	QuoteID       string
	CatalogItemID string
	Action        string
	PriceBefore   *float64
	PriceAfter    *float64
	ActorID       string
	CreatedAt     time.Time
}

type GormStore struct {
	db *gorm.DB
}

func Open(cfg config.DatabaseConfig) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&quoteRecord{}, &catalogItemRecord{}, &reportRecord{},
		&resultRecord{}, &quoteLineRecord{}, &activityRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Printf("Connected to %s database", cfg.Driver)
	return &GormStore{db: db}, nil
}

func (s *GormStore) SaveReport(ctx context.Context, report *model.MatchReport) error {
	supplierJSON, err := json.Marshal(report.Supplier)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A new analysis replaces the prior result set wholesale.
		if err := tx.Where("quote_id = ?", report.QuoteID).Delete(&resultRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", report.QuoteID).Delete(&reportRecord{}).Error; err != nil {
			return err
		}

		rec := reportRecord{
			QuoteID:   report.QuoteID,
			Supplier:  string(supplierJSON),
			Notes:     report.Notes,
			CreatedAt: report.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}

		for i, r := range report.Results {
			payload, err := json.Marshal(r)
			if err != nil {
				return err
			}
			row := resultRecord{
				ID:       r.ID,
				QuoteID:  report.QuoteID,
				Position: i,
				Payload:  string(payload),
				Resolved: report.Resolved[r.ID],
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) GetReport(ctx context.Context, quoteID string) (*model.MatchReport, error) {
	var rec reportRecord
	err := s.db.WithContext(ctx).First(&rec, "quote_id = ?", quoteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []resultRecord
	if err := s.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}

	report := &model.MatchReport{
		QuoteID:   quoteID,
		Notes:     rec.Notes,
		Resolved:  map[string]bool{},
		CreatedAt: rec.CreatedAt,
	}
	if rec.Supplier != "" {
		if err := json.Unmarshal([]byte(rec.Supplier), &report.Supplier); err != nil {
			return nil, err
		}
	}
	for _, row := range rows {
		var r model.MatchResult
		if err := json.Unmarshal([]byte(row.Payload), &r); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, r)
		if row.Resolved {
			report.Resolved[r.ID] = true
		}
	}

	// The summary is derived state, recomputed on every read.
	report.Summary = summary.Summarize(report.Results, report.Resolved)
	return report, nil
}

func (s *GormStore) MarkExtraResolved(ctx context.Context, quoteID, resultID, catalogItemID string) error {
	res := s.db.WithContext(ctx).Model(&resultRecord{}).
		Where("id = ? AND quote_id = ?", resultID, quoteID).
		Updates(map[string]interface{}{
			"resolved":                 true,
			"resolved_catalog_item_id": catalogItemID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no match result %s for quote %s", resultID, quoteID)
	}
	return nil
}

func (s *GormStore) QuoteLines(ctx context.Context, quoteID string) ([]model.QuoteLineItem, error) {
	var rows []quoteLineRecord
	if err := s.db.WithContext(ctx).Where("quote_id = ?", quoteID).Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]model.QuoteLineItem, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, model.QuoteLineItem{
			ID:            row.ID,
			CatalogItemID: row.CatalogItemID,
			Description:   row.Description,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			LeadTime:      row.LeadTime,
		})
	}
	return lines, nil
}

func (s *GormStore) GetQuote(ctx context.Context, quoteID string) (*Quote, error) {
	var rec quoteRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", quoteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Quote{
		ID:            rec.ID,
		SupplierName:  rec.SupplierName,
		MarkupPercent: rec.MarkupPercent,
		Currency:      rec.Currency,
		Status:        rec.Status,
	}, nil
}

func (s *GormStore) ApplyMutations(ctx context.Context, quoteID string, mutations []model.CatalogMutation, audit []model.AuditEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auditByItem := map[string][]model.AuditEntry{}
		for _, a := range audit {
			if a.CatalogItemID == "" {
				// Quote-level entries (e.g. a revision request) have no
				// catalog row; record them directly.
				if err := tx.Create(&activityRecord{
					QuoteID:   quoteID,
					Action:    a.Action,
					ActorID:   a.ActorID,
					CreatedAt: time.Now().UTC(),
				}).Error; err != nil {
					return err
				}
				continue
			}
			auditByItem[a.CatalogItemID] = append(auditByItem[a.CatalogItemID], a)
		}

		for _, m := range mutations {
			var item catalogItemRecord
			err := tx.First(&item, "id = ?", m.CatalogItemID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The resolver filtered empty links, but a stale id can
				// still point at a deleted row. Same policy: warn and move on.
				log.Printf("catalog: no record %s, skipping mutation", m.CatalogItemID)
				continue
			}
			if err != nil {
				return err
			}

			priceBefore := item.TradePrice

			item.Status = m.Status
			if m.TradePrice != nil {
				item.TradePrice = m.TradePrice
			}
			if m.RetailPrice != nil {
				item.RetailPrice = m.RetailPrice
			}
			if m.Currency != "" {
				item.Currency = m.Currency
			}
			if m.LeadTime != "" {
				item.LeadTime = m.LeadTime
			}
			if err := tx.Save(&item).Error; err != nil {
				return err
			}

			for _, a := range auditByItem[m.CatalogItemID] {
				if err := tx.Create(&activityRecord{
					QuoteID:       quoteID,
					CatalogItemID: a.CatalogItemID,
					Action:        a.Action,
					PriceBefore:   priceBefore,
					PriceAfter:    a.PriceAfter,
					ActorID:       a.ActorID,
					CreatedAt:     time.Now().UTC(),
				}).Error; err != nil {
					return err
				}
			}
			delete(auditByItem, m.CatalogItemID)
		}
		return nil
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
