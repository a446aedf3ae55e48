package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"yuvax/internal/domain"
)

type ReservationRepo struct{ db *sqlx.DB }

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

type reservationRow struct {
	ID          string  `db:"id"`
	CampaignID  string  `db:"campaign_id"`
	Quantity    int     `db:"quantity"`
	UnitPrice   float64 `db:"unit_price"`
	Status      string  `db:"status"`
	RequestedAt string  `db:"requested_at"`
	ExpiresAt   string  `db:"expires_at"`
}

func (r reservationRow) toDomain() domain.Reservation {
	res := domain.Reservation{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		Status:     domain.ReservationStatus(r.Status),
	}
	res.RequestedAt, _ = time.Parse(time.RFC3339, r.RequestedAt)
	res.ExpiresAt, _ = time.Parse(time.RFC3339, r.ExpiresAt)
	return res
}

func (r *ReservationRepo) Create(res domain.Reservation) error {
	_, err := r.db.Exec(`
		INSERT INTO reservations(id, campaign_id, quantity, unit_price, status, requested_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.CampaignID, res.Quantity, res.UnitPrice, string(res.Status),
		res.RequestedAt.UTC().Format(time.RFC3339), res.ExpiresAt.UTC().Format(time.RFC3339))
	return err
}

func (r *ReservationRepo) Get(id string) (domain.Reservation, error) {
	var row reservationRow
	err := r.db.Get(&row, `SELECT * FROM reservations WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if err != nil {
		return domain.Reservation{}, err
	}
	return row.toDomain(), nil
}

// TransitionStatus moves id from one status to another. It reports whether
// this call won the transition; a false return means a concurrent path
// (confirm, release, or the expiry sweep) got there first. This single
// guarded statement is the per-reservation mutual-exclusion point.
func (r *ReservationRepo) TransitionStatus(id string, from, to domain.ReservationStatus) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE reservations SET status = ? WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListExpired returns PENDING reservations whose hold TTL elapsed before now.
func (r *ReservationRepo) ListExpired(now time.Time, limit int) ([]domain.Reservation, error) {
	var rows []reservationRow
	err := r.db.Select(&rows, `
		SELECT * FROM reservations
		WHERE status = 'PENDING' AND expires_at < ?
		ORDER BY expires_at ASC
		LIMIT ?
	`, now.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListExpiredByCampaign returns one campaign's overdue PENDING reservations,
// used for lazy expiry on the reserve path.
func (r *ReservationRepo) ListExpiredByCampaign(campaignID string, now time.Time) ([]domain.Reservation, error) {
	var rows []reservationRow
	err := r.db.Select(&rows, `
		SELECT * FROM reservations
		WHERE campaign_id = ? AND status = 'PENDING' AND expires_at < ?
	`, campaignID, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListByCampaign returns all reservations for one campaign, newest first
// (admin audit view).
func (r *ReservationRepo) ListByCampaign(campaignID string) ([]domain.Reservation, error) {
	var rows []reservationRow
	err := r.db.Select(&rows, `
		SELECT * FROM reservations WHERE campaign_id = ? ORDER BY requested_at DESC
	`, campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListLatest returns the newest reservations across campaigns (admin view).
func (r *ReservationRepo) ListLatest(limit int) ([]domain.Reservation, error) {
	var rows []reservationRow
	err := r.db.Select(&rows, `
		SELECT * FROM reservations ORDER BY requested_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
