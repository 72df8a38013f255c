package order

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `"orderID", "userID", status, currency, items, subtotal, "appliedCharges", "totalAmount",
    coalesce("currentLocation", ''), coalesce("deliveryLocation", ''), coalesce("deliveryChargeOption", ''),
    coalesce("paymentMethod", ''), coalesce("createdAt", ''), coalesce("updatedAt", '')`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	chargesJSON, err := json.Marshal(ord.AppliedCharges)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRow(`INSERT INTO orders ("userID", status, currency, items, subtotal, "appliedCharges", "totalAmount",
            "currentLocation", "deliveryLocation", "deliveryChargeOption", "paymentMethod", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING "orderID"`,
		ord.UserID, ord.Status, ord.Currency, itemsJSON, ord.Subtotal, chargesJSON, ord.TotalAmount,
		ord.CurrentLocation, ord.DeliveryLocation, ord.DeliveryChargeOption, ord.PaymentMethod,
		ord.CreatedAt, ord.UpdatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderID" = $1`, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

// Patch loads, mutates and rewrites the order row. Charges are appended
// to the stored array, never replaced.
func (r *PostgresRepository) Patch(id int, p Patch) (Order, error) {
	ord, err := r.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	ord = applyPatch(ord, p)

	chargesJSON, err := json.Marshal(ord.AppliedCharges)
	if err != nil {
		return Order{}, err
	}
	_, err = r.db.Exec(`UPDATE orders
        SET status=$2, "appliedCharges"=$3, "totalAmount"=$4, "deliveryChargeOption"=$5, "paymentMethod"=$6, "updatedAt"=$7
        WHERE "orderID"=$1`,
		id, ord.Status, chargesJSON, ord.TotalAmount, ord.DeliveryChargeOption, ord.PaymentMethod, ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) List(userID int, status Status, page, pageSize int) ([]Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	countQuery := `SELECT count(*) FROM orders WHERE "userID" = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRow(countQuery, userID, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
        WHERE "userID" = $1 AND ($2 = '' OR status = $2)
        ORDER BY "orderID" DESC
        LIMIT $3 OFFSET $4`,
		userID, string(status), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, ord)
	}
	return orders, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON, chargesJSON []byte
	err := row.Scan(&ord.ID, &ord.UserID, &ord.Status, &ord.Currency, &itemsJSON, &ord.Subtotal,
		&chargesJSON, &ord.TotalAmount, &ord.CurrentLocation, &ord.DeliveryLocation,
		&ord.DeliveryChargeOption, &ord.PaymentMethod, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
			return Order{}, err
		}
	}
	if len(chargesJSON) > 0 {
		if err := json.Unmarshal(chargesJSON, &ord.AppliedCharges); err != nil {
			return Order{}, err
		}
	}
	return ord, nil
}
