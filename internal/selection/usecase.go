package selection

import (
	"context"

	"github.com/stridewear/catalog-service/internal/selection/dto"
)

// UseCase evaluates a shopper's in-progress color/size selection. Every call
// re-reads stock; nothing is held across user actions, so a purchase by
// another shopper shows up on the next evaluation.
type UseCase interface {
	Evaluate(ctx context.Context, input *dto.EvaluateInput) (*dto.Result, error)
}
