package repos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"yuvax/internal/domain"
	"yuvax/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Single connection so every caller sees the same in-memory database.
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE campaigns(
	  id TEXT PRIMARY KEY,
	  product_ref TEXT NOT NULL,
	  original_price NUMERIC NOT NULL,
	  sale_price NUMERIC NOT NULL,
	  start_time TEXT NOT NULL,
	  end_time TEXT NOT NULL,
	  total_stock INTEGER NOT NULL,
	  sold INTEGER NOT NULL DEFAULT 0,
	  active INTEGER NOT NULL DEFAULT 1,
	  featured INTEGER NOT NULL DEFAULT 0,
	  created_at TEXT,
	  updated_at TEXT
	);
	CREATE TABLE reservations(
	  id TEXT PRIMARY KEY,
	  campaign_id TEXT NOT NULL,
	  quantity INTEGER NOT NULL,
	  unit_price NUMERIC NOT NULL,
	  status TEXT NOT NULL,
	  requested_at TEXT NOT NULL,
	  expires_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func seedCampaign(t *testing.T, repo *repos.CampaignRepo, id string, total, sold int) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := domain.Campaign{
		ID:            id,
		ProductRef:    "prod-" + id,
		OriginalPrice: 1000,
		SalePrice:     750,
		StartTime:     now.Add(-time.Hour),
		EndTime:       now.Add(time.Hour),
		TotalStock:    total,
		Active:        true,
		CreatedAt:     now,
	}
	if err := repo.Create(c); err != nil {
		t.Fatal(err)
	}
	if sold > 0 {
		if err := repo.Debit(id, sold, now); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCampaignRepo_DebitGuard(t *testing.T) {
	db := memdb(t)
	repo := repos.NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedCampaign(t, repo, "fs-1", 10, 0)

	if err := repo.Debit("fs-1", 6, now); err != nil {
		t.Fatal(err)
	}
	// 4 remaining; a second debit of 6 must fail without partial effect.
	if err := repo.Debit("fs-1", 6, now); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	c, err := repo.Get("fs-1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Sold != 6 || c.Remaining() != 4 {
		t.Fatalf("want sold=6 remaining=4, got sold=%d remaining=%d", c.Sold, c.Remaining())
	}

	// Exact remaining drains to zero.
	if err := repo.Debit("fs-1", 4, now); err != nil {
		t.Fatal(err)
	}
	c, _ = repo.Get("fs-1")
	if c.Remaining() != 0 {
		t.Fatalf("want remaining=0, got %d", c.Remaining())
	}
	if err := repo.Debit("fs-1", 1, now); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock on empty, got %v", err)
	}
}

func TestCampaignRepo_CreditGuard(t *testing.T) {
	db := memdb(t)
	repo := repos.NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedCampaign(t, repo, "fs-1", 10, 3)

	if err := repo.Credit("fs-1", 3, now); err != nil {
		t.Fatal(err)
	}
	c, _ := repo.Get("fs-1")
	if c.Sold != 0 || c.Remaining() != 10 {
		t.Fatalf("want sold=0 remaining=10, got sold=%d remaining=%d", c.Sold, c.Remaining())
	}

	// Crediting past zero is refused rather than going negative.
	if err := repo.Credit("fs-1", 1, now); err == nil {
		t.Fatal("want error crediting below zero")
	}
}

func TestCampaignRepo_UpdateStockGuard(t *testing.T) {
	db := memdb(t)
	repo := repos.NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedCampaign(t, repo, "fs-1", 10, 7)

	c, err := repo.Get("fs-1")
	if err != nil {
		t.Fatal(err)
	}

	// Lowering total below sold must fail, not clamp.
	c.TotalStock = 5
	if err := repo.Update(c, now); !errors.Is(err, domain.ErrInvalidStockAdjustment) {
		t.Fatalf("want ErrInvalidStockAdjustment, got %v", err)
	}

	// Restock is fine.
	c.TotalStock = 20
	if err := repo.Update(c, now); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.Get("fs-1")
	if got.TotalStock != 20 || got.Sold != 7 {
		t.Fatalf("want total=20 sold=7, got total=%d sold=%d", got.TotalStock, got.Sold)
	}

	// Unknown id reports not found.
	c.ID = "missing"
	if err := repo.Update(c, now); !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("want ErrCampaignNotFound, got %v", err)
	}
}

func TestCampaignRepo_Listings(t *testing.T) {
	db := memdb(t)
	repo := repos.NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id string, start, end time.Time, total int, active bool) {
		t.Helper()
		err := repo.Create(domain.Campaign{
			ID: id, ProductRef: "prod-" + id, OriginalPrice: 100, SalePrice: 50,
			StartTime: start, EndTime: end, TotalStock: total, Active: active, CreatedAt: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	mk("live-late", now.Add(-time.Hour), now.Add(3*time.Hour), 5, true)
	mk("live-soon", now.Add(-time.Hour), now.Add(time.Hour), 5, true)
	mk("upcoming-b", now.Add(2*time.Hour), now.Add(4*time.Hour), 5, true)
	mk("upcoming-a", now.Add(time.Hour), now.Add(4*time.Hour), 5, true)
	mk("ended", now.Add(-3*time.Hour), now.Add(-time.Hour), 5, true)
	mk("disabled", now.Add(-time.Hour), now.Add(time.Hour), 5, false)
	mk("drained", now.Add(-time.Hour), now.Add(time.Hour), 2, true)
	if err := repo.Debit("drained", 2, now); err != nil {
		t.Fatal(err)
	}

	live, err := repo.ListLive(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 2 || live[0].ID != "live-soon" || live[1].ID != "live-late" {
		t.Fatalf("want [live-soon live-late], got %+v", ids(live))
	}

	up, err := repo.ListUpcoming(now, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 2 || up[0].ID != "upcoming-a" || up[1].ID != "upcoming-b" {
		t.Fatalf("want [upcoming-a upcoming-b], got %+v", ids(up))
	}

	one, err := repo.ListUpcoming(now, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0].ID != "upcoming-a" {
		t.Fatalf("want bounded page [upcoming-a], got %+v", ids(one))
	}
}

func ids(list []domain.Campaign) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}
