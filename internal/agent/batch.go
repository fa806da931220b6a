package agent

import (
	"context"

	"shoken-assist/backend/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds in-flight generation requests of a batch
const DefaultBatchConcurrency = 4

// BatchResult is the outcome of one batch row. Exactly one of Remark and Err is set.
type BatchResult struct {
	Index  int
	Remark *model.GeneratedRemark
	Err    error
}

// GenerateBatch generates one remark per request with at most concurrency
// requests in flight. A failed row does not stop the others. Results keep
// the order of reqs. The returned error is non-nil only when ctx ends.
func (a *RemarkAgent) GenerateBatch(ctx context.Context, uc *UserContext, reqs []model.RemarkRequest, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{Index: i, Err: err}
				return err
			}
			remark, err := a.GenerateRemark(gctx, uc, req)
			results[i] = BatchResult{Index: i, Remark: remark, Err: err}
			return nil
		})
	}

	err := g.Wait()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	a.logger.Info("Batch finished",
		zap.String("user", uc.UserID),
		zap.Int("rows", len(reqs)),
		zap.Int("failed", failed))
	return results, err
}
