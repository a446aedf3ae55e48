package repos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"yuvax/internal/domain"
)

type CampaignRepo struct{ db *sqlx.DB }

func NewCampaignRepo(db *sqlx.DB) *CampaignRepo { return &CampaignRepo{db: db} }

// campaignRow mirrors the campaigns table; times are RFC3339 TEXT in sqlite.
type campaignRow struct {
	ID            string         `db:"id"`
	ProductRef    string         `db:"product_ref"`
	OriginalPrice float64        `db:"original_price"`
	SalePrice     float64        `db:"sale_price"`
	StartTime     string         `db:"start_time"`
	EndTime       string         `db:"end_time"`
	TotalStock    int            `db:"total_stock"`
	Sold          int            `db:"sold"`
	Active        bool           `db:"active"`
	Featured      bool           `db:"featured"`
	CreatedAt     sql.NullString `db:"created_at"`
	UpdatedAt     sql.NullString `db:"updated_at"`
}

func (r campaignRow) toDomain() domain.Campaign {
	c := domain.Campaign{
		ID:            r.ID,
		ProductRef:    r.ProductRef,
		OriginalPrice: r.OriginalPrice,
		SalePrice:     r.SalePrice,
		TotalStock:    r.TotalStock,
		Sold:          r.Sold,
		Active:        r.Active,
		Featured:      r.Featured,
	}
	c.StartTime, _ = time.Parse(time.RFC3339, r.StartTime)
	c.EndTime, _ = time.Parse(time.RFC3339, r.EndTime)
	if r.CreatedAt.Valid {
		c.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt.String)
	}
	if r.UpdatedAt.Valid {
		c.UpdatedAt, _ = time.Parse(time.RFC3339, r.UpdatedAt.String)
	}
	return c
}

func (r *CampaignRepo) Create(c domain.Campaign) error {
	_, err := r.db.Exec(`
		INSERT INTO campaigns(id, product_ref, original_price, sale_price, start_time, end_time,
		  total_stock, sold, active, featured, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
	`, c.ID, c.ProductRef, c.OriginalPrice, c.SalePrice,
		c.StartTime.UTC().Format(time.RFC3339), c.EndTime.UTC().Format(time.RFC3339),
		c.TotalStock, c.Active, c.Featured, c.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (r *CampaignRepo) Get(id string) (domain.Campaign, error) {
	var row campaignRow
	err := r.db.Get(&row, `SELECT * FROM campaigns WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Campaign{}, domain.ErrCampaignNotFound
	}
	if err != nil {
		return domain.Campaign{}, err
	}
	return row.toDomain(), nil
}

// Update writes the admin-settable fields. sold is never written here; the
// total_stock guard refuses to drop below what is already sold.
func (r *CampaignRepo) Update(c domain.Campaign, now time.Time) error {
	res, err := r.db.Exec(`
		UPDATE campaigns
		SET product_ref = ?, original_price = ?, sale_price = ?, start_time = ?, end_time = ?,
		    total_stock = ?, active = ?, featured = ?, updated_at = ?
		WHERE id = ? AND sold <= ?
	`, c.ProductRef, c.OriginalPrice, c.SalePrice,
		c.StartTime.UTC().Format(time.RFC3339), c.EndTime.UTC().Format(time.RFC3339),
		c.TotalStock, c.Active, c.Featured, now.UTC().Format(time.RFC3339),
		c.ID, c.TotalStock)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Distinguish a missing row from a stock guard refusal.
		if _, err := r.Get(c.ID); err != nil {
			return err
		}
		return domain.ErrInvalidStockAdjustment
	}
	return nil
}

func (r *CampaignRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM campaigns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// ListLive returns campaigns LIVE at now, soonest-ending first so the most
// urgent deals surface on top.
func (r *CampaignRepo) ListLive(now time.Time) ([]domain.Campaign, error) {
	var rows []campaignRow
	ts := now.UTC().Format(time.RFC3339)
	err := r.db.Select(&rows, `
		SELECT * FROM campaigns
		WHERE active = 1 AND start_time <= ? AND end_time >= ? AND total_stock - sold > 0
		ORDER BY end_time ASC
	`, ts, ts)
	if err != nil {
		return nil, err
	}
	return toCampaigns(rows), nil
}

// ListUpcoming returns campaigns not yet started, soonest-starting first.
func (r *CampaignRepo) ListUpcoming(now time.Time, limit int) ([]domain.Campaign, error) {
	var rows []campaignRow
	err := r.db.Select(&rows, `
		SELECT * FROM campaigns
		WHERE active = 1 AND start_time > ?
		ORDER BY start_time ASC
		LIMIT ?
	`, now.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	return toCampaigns(rows), nil
}

// ListAll returns every campaign for the admin view, newest window first.
func (r *CampaignRepo) ListAll() ([]domain.Campaign, error) {
	var rows []campaignRow
	err := r.db.Select(&rows, `SELECT * FROM campaigns ORDER BY start_time DESC`)
	if err != nil {
		return nil, err
	}
	return toCampaigns(rows), nil
}

// Debit atomically takes quantity units if enough stock remains. The check
// and the write are a single statement, so remaining stock can never go
// negative regardless of concurrent callers.
func (r *CampaignRepo) Debit(id string, quantity int, now time.Time) error {
	res, err := r.db.Exec(`
		UPDATE campaigns
		SET sold = sold + ?, updated_at = ?
		WHERE id = ? AND total_stock - sold >= ?
	`, quantity, now.UTC().Format(time.RFC3339), id, quantity)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Credit returns quantity units on release. Guarded so sold never drops
// below zero even if called twice by mistake.
func (r *CampaignRepo) Credit(id string, quantity int, now time.Time) error {
	res, err := r.db.Exec(`
		UPDATE campaigns
		SET sold = sold - ?, updated_at = ?
		WHERE id = ? AND sold >= ?
	`, quantity, now.UTC().Format(time.RFC3339), id, quantity)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("credit refused for %s: unknown campaign or sold < %d", id, quantity)
	}
	return nil
}

func toCampaigns(rows []campaignRow) []domain.Campaign {
	out := make([]domain.Campaign, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
