package repository

import (
	"context"
	"database/sql"

	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/models"
	"github.com/Dheeraj-Sharma-gif/WeFn/internal/domain/repository"
	pkgclickhouse "github.com/Dheeraj-Sharma-gif/WeFn/pkg/clickhouse"
)

// ClickHouseHistory appends successful widget polls to ClickHouse for
// offline analysis. Rows past the retention window are dropped by the
// table's TTL.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

var pollHistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS poll_history (
		widget_id String,
		owner_id  String,
		shape     LowCardinality(String),
		records   UInt32,
		polled_at DateTime,
		raw       String
	) ENGINE = MergeTree()
	ORDER BY (widget_id, polled_at)
	TTL polled_at + INTERVAL 30 DAY`,
}

// NewClickHouseHistory creates the history store and ensures the
// schema exists.
func NewClickHouseHistory(ctx context.Context, client *pkgclickhouse.Client) (repository.History, error) {
	if err := client.InitSchema(ctx, pollHistorySchema); err != nil {
		return nil, err
	}
	return &ClickHouseHistory{db: client.DB(), table: "poll_history"}, nil
}

func (h *ClickHouseHistory) AppendPoll(ctx context.Context, rec *models.PollRecord) error {
	q := "INSERT INTO " + h.table + " (widget_id, owner_id, shape, records, polled_at, raw) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := h.db.ExecContext(ctx, q,
		rec.WidgetID,
		rec.OwnerID,
		rec.Shape,
		uint32(rec.Records),
		rec.PolledAt,
		string(rec.Raw),
	)
	return err
}
