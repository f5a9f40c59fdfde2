package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig tunes statement-level tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes query variables in spans. Keep off outside dev,
	// credential values pass through these queries.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns db tracing defaults with tracing off.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin layers slow-query span events on top of otelgorm.
type DBTracingPlugin struct {
	cfg DBTracingConfig
	log *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, log *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{cfg: cfg, log: log}
}

// RegisterOtelGorm installs otelgorm plus timing callbacks on db. With
// tracing disabled it is a no-op.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.cfg.Enabled {
		p.log.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.cfg.DBSystem)}
	if !p.cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return fmt.Errorf("register timing callbacks: %w", err)
	}

	p.log.Info("database tracing enabled",
		zap.Bool("log_full_sql", p.cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", p.cfg.SlowQueryThresh),
	)
	return nil
}

// gormRegisterer matches the Register method on gorm's unexported callback
// type, which cannot be named directly.
type gormRegisterer interface {
	Register(name string, fn func(*gorm.DB)) error
}

type gormHook struct {
	name   string
	before gormRegisterer
	after  gormRegisterer
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []gormHook{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}

	markStart := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
		}
	}

	for _, h := range hooks {
		if err := h.before.Register("trace_timing:"+h.name, markStart); err != nil {
			return err
		}
		if err := h.after.Register("trace_annotate:"+h.name, p.annotateSpan); err != nil {
			return err
		}
	}
	return nil
}

// annotateSpan decorates the statement's span with row counts, errors and a
// slow-query event when the threshold is exceeded.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.cfg.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.cfg.SlowQueryThresh.Milliseconds()),
		))
	}
}

type dbTracingContextKey string

const queryStartKey dbTracingContextKey = "query_start"
