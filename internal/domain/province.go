// internal/domain/province.go
package domain

import "time"

// Province is a location used to give free-text transfer locations a
// structured reference once a transfer is claimed.
type Province struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
