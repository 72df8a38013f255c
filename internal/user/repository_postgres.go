package user

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	userColumns = `"userId", email, password, "firstName", "lastName", phone, coalesce(company, ''),
        coalesce("orderIds", '{}'), coalesce("createAt", ''), coalesce("updateAt", '')`

	insertUserQuery = `
        INSERT INTO users (email, password, "firstName", "lastName", phone, company, "createAt", "updateAt")
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING "userId"
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE "userId" = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertUserQuery,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Company, u.CreatedAt, u.UpdatedAt).
		Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) AppendOrderID(userID, orderID int) (User, error) {
	_, err := r.db.Exec(`UPDATE users SET "orderIds" = array_append(coalesce("orderIds", '{}'), $2) WHERE "userId" = $1`, userID, orderID)
	if err != nil {
		return User{}, err
	}
	return r.GetByID(userID)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var orderIDs pq.Int64Array
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.Company,
		&orderIDs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.OrderIDs = make([]int, 0, len(orderIDs))
	for _, id := range orderIDs {
		u.OrderIDs = append(u.OrderIDs, int(id))
	}
	return u, nil
}
