package conversion

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"hawala-backoffice/internal/domain"
)

type loggingService struct {
	logger *slog.Logger
	next   Service
}

// NewLoggingService decorates a Service with debug-level call logging.
func NewLoggingService(logger *slog.Logger, s Service) Service {
	return &loggingService{
		logger: logger,
		next:   s,
	}
}

func (s *loggingService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyRef) (res Result, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "conversion",
			"method", "convert",
			"amount", amount,
			"from", from.String(),
			"to", to.String(),
			"converted", res.Converted,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}
