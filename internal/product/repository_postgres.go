package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `
        p."productID", p."productName", coalesce(p."subSkuFamilyId", ''), p."unitPrice",
        p.moq, p.stock, coalesce(p."groupCode", ''),
        p."hasExpressDeliveryCharge", p."hasSameLocationCharge",
        coalesce(p."deliveryChargeCostType", ''), coalesce(p."deliveryChargeValue", 0),
        coalesce(p."deliveryChargeMessage", ''),
        coalesce(p."createdAt", ''), coalesce(p."updatedAt", '')
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products p ORDER BY p."productID"`)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products p WHERE p."productID" = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(`
        SELECT `+productColumns+`
        FROM products p
        WHERE p."productID" = ANY($1::int[])
        ORDER BY array_position($1::int[], p."productID")
    `, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows), nil
}

func (r *PostgresRepository) GetGroup(code string) (Group, error) {
	var g Group
	err := r.db.QueryRow(`SELECT "groupCode", "totalMoq" FROM product_groups WHERE "groupCode" = $1`, code).
		Scan(&g.Code, &g.TotalMOQ)
	if err == sql.ErrNoRows {
		return Group{}, ErrGroupNotFound
	}
	return g, err
}

func (r *PostgresRepository) GroupMOQs(codes []string) (map[string]int, error) {
	out := make(map[string]int, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(`SELECT "groupCode", "totalMoq" FROM product_groups WHERE "groupCode" = ANY($1::text[])`, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var moq int
		if err := rows.Scan(&code, &moq); err != nil {
			return nil, err
		}
		out[code] = moq
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SubSKUFamilyID, &p.Price,
		&p.MOQ, &p.Stock, &p.GroupCode,
		&p.HasExpressDeliveryCharge, &p.HasSameLocationCharge,
		&p.DeliveryChargeCostType, &p.DeliveryChargeValue, &p.DeliveryChargeMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanProducts(rows *sql.Rows) []Product {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
