package database

import (
	"time"

	"gorm.io/gorm"

	"brightscope/internal/metrics"
)

const startedAtKey = "brightscope:query_started_at"

// InstrumentQueries records per-operation query counts and latency.
func InstrumentQueries(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(startedAtKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(startedAtKey)
			if !ok {
				return
			}
			started, ok := v.(time.Time)
			if !ok {
				return
			}
			metrics.RecordDBQuery(operation, time.Since(started), tx.Error)
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, fn func(*gorm.DB)) error
		finish   func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("metrics:before_"+s.op, before); err != nil {
			return err
		}
		if err := s.finish("metrics:after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}

// ReportPoolStats copies connection pool gauges into metrics.
func ReportPoolStats(db *gorm.DB) {
	stats, err := Stats(db)
	if err != nil {
		return
	}
	metrics.UpdateDBConnections(stats.InUse, stats.Idle)
}
