package repository

import (
	"github.com/wrenchworks/repair-shop-service/internal/db"
)

// Repositories provides access to all repository instances
type Repositories struct {
	User   *UserRepository
	Client *ClientRepository
	Part   *PartRepository
	Order  *OrderRepository
	Stats  *StatsRepository
}

// NewRepositories creates a new repositories container
func NewRepositories(database *db.Postgres) *Repositories {
	return &Repositories{
		User:   NewUserRepository(database.DB),
		Client: NewClientRepository(database.DB),
		Part:   NewPartRepository(database.DB),
		Order:  NewOrderRepository(database.DB),
		Stats:  NewStatsRepository(database.DB),
	}
}
