package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"event-tickets-backend/model"
)

const userColumns = `id, email, name, phone, role, subject, created_at`

func (s *MySQL) GetUserBySubject(ctx context.Context, subject string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE subject = ?;`
	row := s.db.QueryRowContext(ctx, q, subject)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getUserBySubject: error scanning user: %w", err)
	}
	return u, nil
}

func (s *MySQL) PutUser(ctx context.Context, u *model.User) error {
	q := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?);`
	_, err := s.db.ExecContext(ctx, q, u.ID, u.Email, u.Name, u.Phone, string(u.Role), u.Subject, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("putUser: error inserting user: %w", err)
	}
	return nil
}

func (s *MySQL) UpdateUser(ctx context.Context, id string, cols []string, vals []interface{}) error {
	if len(cols) == 0 {
		return nil
	}
	set := make([]string, 0, len(cols))
	for _, c := range cols {
		set = append(set, fmt.Sprintf("%s = ?", c))
	}
	args := append(append([]interface{}{}, vals...), id)

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = ?;`, strings.Join(set, ", "))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("updateUser: error updating user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updateUser: error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var role string
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &phone, &role, &u.Subject, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.Phone = nullableString(phone)
	return &u, nil
}
