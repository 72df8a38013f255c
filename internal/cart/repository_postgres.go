package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/lib/pq"
)

// PostgresRepository keeps the cart as a jsonb map of productID -> quantity
// on the user row and joins the products table for constraint data.
type PostgresRepository struct {
	db *sql.DB
}

const (
	enrichCartQuery = `
        SELECT p."productID", p."productName", coalesce(p."subSkuFamilyId", ''), p."unitPrice",
               p.moq, p.stock, coalesce(p."groupCode", '')
        FROM products p
        WHERE p."productID" = ANY($1::int[])
        ORDER BY array_position($1::int[], p."productID")
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetItems(userID int) ([]Item, error) {
	m, err := r.loadCart(userID)
	if err != nil {
		return nil, err
	}
	return r.enrich(m)
}

func (r *PostgresRepository) SetQuantity(userID, productID, qty int) ([]Item, error) {
	m, err := r.loadCart(userID)
	if err != nil {
		return nil, err
	}
	m[strconv.Itoa(productID)] = qty
	if err := r.storeCart(userID, m); err != nil {
		return nil, err
	}
	return r.enrich(m)
}

func (r *PostgresRepository) Remove(userID, productID int) ([]Item, error) {
	m, err := r.loadCart(userID)
	if err != nil {
		return nil, err
	}
	delete(m, strconv.Itoa(productID))
	if err := r.storeCart(userID, m); err != nil {
		return nil, err
	}
	return r.enrich(m)
}

func (r *PostgresRepository) Clear(userID int) error {
	if _, err := r.loadCart(userID); err != nil {
		return err
	}
	return r.storeCart(userID, map[string]int{})
}

func (r *PostgresRepository) loadCart(userID int) (map[string]int, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(`SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m := make(map[string]int)
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *PostgresRepository) storeCart(userID int, m map[string]int) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE users SET cart = $1 WHERE "userId" = $2`, string(b), userID)
	return err
}

func (r *PostgresRepository) enrich(m map[string]int) ([]Item, error) {
	ids := make([]int, 0, len(m))
	for k := range m {
		if pid, err := strconv.Atoi(k); err == nil {
			ids = append(ids, pid)
		}
	}
	if len(ids) == 0 {
		return []Item{}, nil
	}

	rows, err := r.db.Query(enrichCartQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0, len(ids))
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.SubSKUFamilyID, &it.UnitPrice,
			&it.MOQ, &it.Stock, &it.GroupCode); err != nil {
			return nil, err
		}
		it.Quantity = m[strconv.Itoa(it.ProductID)]
		out = append(out, it)
	}
	return out, rows.Err()
}
