package catalog

import (
	"context"
	"time"

	"github.com/atelierhq/procura/internal/core/model"
)

// CatalogItem is the read/write shape of one catalog record as exposed to
// callers of the concrete store.
type CatalogItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	TradePrice  *float64 `json:"trade_price,omitempty"`
	RetailPrice *float64 `json:"retail_price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	LeadTime    string   `json:"lead_time,omitempty"`
}

func (s *GormStore) SaveQuote(ctx context.Context, q Quote) error {
	return s.db.WithContext(ctx).Save(&quoteRecord{
		ID:            q.ID,
		SupplierName:  q.SupplierName,
		MarkupPercent: q.MarkupPercent,
		Currency:      q.Currency,
		Status:        q.Status,
	}).Error
}

func (s *GormStore) SaveCatalogItem(ctx context.Context, item CatalogItem) error {
	return s.db.WithContext(ctx).Save(&catalogItemRecord{
		ID:          item.ID,
		Name:        item.Name,
		Status:      item.Status,
		TradePrice:  item.TradePrice,
		RetailPrice: item.RetailPrice,
		Currency:    item.Currency,
		LeadTime:    item.LeadTime,
		UpdatedAt:   time.Now().UTC(),
	}).Error
}

func (s *GormStore) GetCatalogItem(ctx context.Context, id string) (*CatalogItem, error) {
	var rec catalogItemRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &CatalogItem{
		ID:          rec.ID,
		Name:        rec.Name,
		Status:      rec.Status,
		TradePrice:  rec.TradePrice,
		RetailPrice: rec.RetailPrice,
		Currency:    rec.Currency,
		LeadTime:    rec.LeadTime,
	}, nil
}

func (s *GormStore) SaveQuoteLines(ctx context.Context, quoteID string, lines []model.QuoteLineItem) error {
	for _, l := range lines {
		rec := quoteLineRecord{
			ID:            l.ID,
			QuoteID:       quoteID,
			CatalogItemID: l.CatalogItemID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			LeadTime:      l.LeadTime,
		}
		if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
			return err
		}
	}
	return nil
}

// Activity returns the audit trail for a quote in insertion order.
func (s *GormStore) Activity(ctx context.Context, quoteID string) ([]model.AuditEntry, error) {
	var rows []activityRecord
	if err := s.db.WithContext(ctx).Where("quote_id = ?", quoteID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]model.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.AuditEntry{
			CatalogItemID: row.CatalogItemID,
			Action:        row.Action,
			PriceBefore:   row.PriceBefore,
			PriceAfter:    row.PriceAfter,
			ActorID:       row.ActorID,
		})
	}
	return entries, nil
}
