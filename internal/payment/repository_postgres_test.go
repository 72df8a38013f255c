package payment

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
)

func TestPostgresCreate_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	p := Payment{
		ID:             "uuid-1",
		OrderID:        1,
		Amount:         money.FromFloat(300),
		Currency:       "USD",
		ModuleName:     "bank_transfer",
		TransactionRef: "tx-1",
		Status:         StatusRequested,
		CreatedAt:      "2026-08-30T00:00:00Z",
	}

	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs("uuid-1", 1, "300.00", "USD", "bank_transfer", "tx-1", "requested", "2026-08-30T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// the select returns the row that actually won the conflict, which may
	// carry a different payment id than the one we tried to insert
	rows := sqlmock.NewRows([]string{"paymentId", "orderId", "amount", "currency", "moduleName", "transactionRef", "status", "createdAt"}).
		AddRow("uuid-0", 1, "300.00", "USD", "bank_transfer", "tx-1", "approved", "2026-08-29T00:00:00Z")
	mock.ExpectQuery(`SELECT (.+) FROM payments`).
		WithArgs(1, "bank_transfer", "tx-1").
		WillReturnRows(rows)

	got, err := repo.Create(p)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got.ID != "uuid-0" || got.Status != StatusApproved {
		t.Fatalf("expected the stored row back, got %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresListByOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"paymentId", "orderId", "amount", "currency", "moduleName", "transactionRef", "status", "createdAt"}).
		AddRow("uuid-1", 5, "300.00", "USD", "bank_transfer", "tx-1", "approved", "2026-08-29T00:00:00Z").
		AddRow("uuid-2", 5, "150.00", "USD", "bank_transfer", "tx-2", "rejected", "2026-08-30T00:00:00Z")
	mock.ExpectQuery(`SELECT (.+) FROM payments WHERE "orderId"`).
		WithArgs(5).
		WillReturnRows(rows)

	payments, err := repo.ListByOrder(5)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].Amount.String() != "300.00" || payments[1].Status != StatusRejected {
		t.Fatalf("unexpected payments: %+v", payments)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE payments SET status`).
		WithArgs("missing", "approved").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.UpdateStatus("missing", StatusApproved); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
