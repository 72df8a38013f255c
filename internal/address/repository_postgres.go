package address

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `"addressId", "userId", "addressDesc", phone, "addressName", coalesce(location, ''), coalesce("createdAt", ''), coalesce("updatedAt", '')`

	insertAddressQuery = `
        INSERT INTO address ("userId", "addressDesc", phone, "addressName", location, "createdAt", "updatedAt")
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING "addressId"
    `

	updateAddressQuery = `
        UPDATE address
        SET "addressDesc" = $3, phone = $4, "addressName" = $5, location = $6, "updatedAt" = $7
        WHERE "userId" = $1 AND "addressId" = $2
        RETURNING ` + addressColumns + `
    `

	deleteAddressQuery = `
        DELETE FROM address WHERE "userId" = $1 AND "addressId" = $2
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(`SELECT `+addressColumns+` FROM address WHERE "userId" = $1 ORDER BY "addressId"`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.AddressID, &a.UserID, &a.AddressDesc, &a.Phone, &a.AddressName, &a.Location, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddAddress(a Address) (Address, error) {
	err := r.db.QueryRow(insertAddressQuery,
		a.UserID, a.AddressDesc, a.Phone, a.AddressName, a.Location, a.CreatedAt, a.UpdatedAt).
		Scan(&a.AddressID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) UpdateAddress(a Address) (Address, error) {
	row := r.db.QueryRow(updateAddressQuery,
		a.UserID, a.AddressID, a.AddressDesc, a.Phone, a.AddressName, a.Location, a.UpdatedAt)

	var out Address
	err := row.Scan(&out.AddressID, &out.UserID, &out.AddressDesc, &out.Phone, &out.AddressName, &out.Location, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return out, nil
}

func (r *PostgresRepository) DeleteAddress(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
