package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m04kA/CourtBookingService/pkg/metrics"
)

const defaultStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, снимающая длительность запросов и статистику пула
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
	name    string
}

// Wrap оборачивает соединение без фонового сбора статистики пула
func Wrap(db *sql.DB, m *metrics.Metrics, name string) *DB {
	return &DB{db: db, metrics: m, name: name}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, name string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m, name)
	go wrapped.collectPoolStats(defaultStatsInterval, stopCh)
	return wrapped
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(d.name, operation(query), time.Since(start), err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(d.name, operation(query), time.Since(start), err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(d.name, operation(query), time.Since(start), row.Err())
	return row
}

func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return d.db.BeginTx(ctx, opts)
}

// WrapTx оборачивает транзакцию теми же метриками
func (d *DB) WrapTx(tx *sql.Tx) TxExecutor {
	return &SqlTxWrapper{tx: tx, metrics: d.metrics, name: d.name}
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			d.recordPoolStats()
		}
	}
}

func (d *DB) recordPoolStats() {
	if d.metrics == nil {
		return
	}
	stats := d.db.Stats()
	d.metrics.DBOpenConnections.WithLabelValues(d.name).Set(float64(stats.OpenConnections))
	d.metrics.DBInUse.WithLabelValues(d.name).Set(float64(stats.InUse))
	d.metrics.DBIdle.WithLabelValues(d.name).Set(float64(stats.Idle))
	d.metrics.DBWaitCount.WithLabelValues(d.name).Set(float64(stats.WaitCount))
}

// SqlTxWrapper транзакция с метриками
type SqlTxWrapper struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
	name    string
}

func (w *SqlTxWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := w.tx.ExecContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(w.name, operation(query), time.Since(start), err)
	return res, err
}

func (w *SqlTxWrapper) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := w.tx.QueryContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(w.name, operation(query), time.Since(start), err)
	return rows, err
}

func (w *SqlTxWrapper) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := w.tx.QueryRowContext(ctx, query, args...)
	w.metrics.ObserveDBQuery(w.name, operation(query), time.Since(start), row.Err())
	return row
}

// operation первое ключевое слово запроса в нижнем регистре: select, insert, update, delete
func operation(query string) string {
	q := strings.TrimSpace(query)
	if i := strings.IndexAny(q, " \n\t("); i > 0 {
		q = q[:i]
	}
	if q == "" {
		return "unknown"
	}
	return strings.ToLower(q)
}
