// Package users persists account records.
package users

import (
	"context"

	"github.com/mlegrand/gotasks/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
