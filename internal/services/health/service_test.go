package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService(nil).Status(context.Background())
	if got["ok"] != true || got["storage"] != "memory" {
		t.Fatalf("unexpected status: %v", got)
	}
}

func TestStatusReportsDatabasePing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db)

	mock.ExpectPing()
	if got := svc.Status(context.Background()); got["ok"] != true || got["database"] != "up" {
		t.Fatalf("unexpected status: %v", got)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if got := svc.Status(context.Background()); got["ok"] != false || got["database"] != "unreachable" {
		t.Fatalf("unexpected status: %v", got)
	}
}
