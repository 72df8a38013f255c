package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"productID", "productName", "subSkuFamilyId", "unitPrice",
		"moq", "stock", "groupCode",
		"hasExpressDeliveryCharge", "hasSameLocationCharge",
		"deliveryChargeCostType", "deliveryChargeValue", "deliveryChargeMessage",
		"createdAt", "updatedAt",
	})
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := productRows().
		AddRow(9, "Ceramic Tile 60x60", "TL-60", "12.50", 100, 5000, "TILE",
			true, false, "Percentage", 10.0, "Express handling applies", "t", "u")
	mock.ExpectQuery("FROM products p").WithArgs(9).WillReturnRows(rows)

	p, err := repo.GetByID(9)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.ID != 9 || p.MOQ != 100 || p.GroupCode != "TILE" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Price.String() != "12.50" {
		t.Fatalf("unexpected price %s", p.Price)
	}
	if !p.HasExpressDeliveryCharge || p.DeliveryChargeCostType != CostTypePercentage {
		t.Fatalf("charge metadata not scanned: %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products p").WithArgs(404).WillReturnRows(productRows())

	if _, err := repo.GetByID(404); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByIDs_PreservesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := productRows().
		AddRow(2, "B", "", "20.00", 1, 10, "", false, false, "", 0.0, "", "t", "u").
		AddRow(1, "A", "", "10.00", 1, 10, "", false, false, "", 0.0, "", "t", "u")
	mock.ExpectQuery("array_position").WithArgs(pq.Array([]int{2, 1})).WillReturnRows(rows)

	products, err := repo.ListByIDs([]int{2, 1})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(products) != 2 || products[0].ID != 2 || products[1].ID != 1 {
		t.Fatalf("order not preserved: %+v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGroupMOQs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"groupCode", "totalMoq"}).AddRow("TILE", 50)
	mock.ExpectQuery("FROM product_groups").WillReturnRows(rows)

	moqs, err := repo.GroupMOQs([]string{"TILE", "NOPE"})
	if err != nil {
		t.Fatalf("GroupMOQs: %v", err)
	}
	if moqs["TILE"] != 50 {
		t.Fatalf("expected 50, got %d", moqs["TILE"])
	}
	if _, ok := moqs["NOPE"]; ok {
		t.Fatalf("unknown code should be absent")
	}
}
