package repository

import (
	"context"
	"fmt"
	"strings"

	"pharmastore/m/domain"
)

var userColumns = []string{"id", "username", "email", "password", "role", "created_at"}

// CreateUser stores u with an already-hashed password and returns its id.
func (r *Repository) CreateUser(ctx context.Context, q Querier, u domain.User) (int64, error) {
	ib := flavor.NewInsertBuilder()
	ib.InsertInto("users").
		Cols("username", "email", "password", "role", "created_at").
		Values(u.Username, strings.ToLower(u.Email), u.Password, u.Role, r.timestamp())

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, q Querier, email string) (*domain.User, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(userColumns...).From("users").Where(sb.Equal("email", strings.ToLower(email)))

	var user domain.User
	if err := r.getOne(ctx, q, &user, sb); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
