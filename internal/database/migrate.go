package database

import (
	"context"
	"database/sql"

	"github.com/honeynil/kapitalist/migrations"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseZapLogger{s: logger.Named("migrate").Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

type gooseZapLogger struct{ s *zap.SugaredLogger }

func (l gooseZapLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l gooseZapLogger) Fatalf(format string, v ...interface{}) {
	l.s.Errorf(format, v...)
}
