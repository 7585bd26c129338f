// internal/repository/hawala_repo.go
package repository

import (
	"context"
	"time"

	"hawala-backoffice/internal/domain"
)

// HawalaRepository defines send-side transfer storage.
type HawalaRepository interface {
	// Create inserts the transfer. A zero HawalaNumber is replaced by the
	// current maximum plus one, computed inside the insert; a concurrent
	// insert taking the same number surfaces as util.ErrDuplicateEntry.
	Create(ctx context.Context, q DBExecutor, hawala *domain.SendHawala) error
	GetByNumber(ctx context.Context, q DBExecutor, number int64) (*domain.SendHawala, error)
	GetByNumberForUpdate(ctx context.Context, q DBExecutor, number int64) (*domain.SendHawala, error)
	List(ctx context.Context, q DBExecutor, filter domain.HawalaFilter) ([]domain.SendHawala, int64, error)
	UpdateStatus(ctx context.Context, q DBExecutor, id int64, status domain.HawalaStatus) error
}

// ClaimRepository defines receive-side claim storage.
type ClaimRepository interface {
	// Create returns util.ErrAlreadyClaimed when the transfer already has a claim.
	Create(ctx context.Context, q DBExecutor, claim *domain.ReceiveHawala) error
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.ReceiveHawala, error)
	GetBySendHawalaID(ctx context.Context, q DBExecutor, sendHawalaID int64) (*domain.ReceiveHawala, error)
	List(ctx context.Context, q DBExecutor, filter domain.ClaimFilter) ([]domain.ReceiveHawala, int64, error)
	// MarkVerified stamps the verifier once; util.ErrInvalidState if already verified.
	MarkVerified(ctx context.Context, q DBExecutor, id, exchangerID int64, at time.Time) error
}
