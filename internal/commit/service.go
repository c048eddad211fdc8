package commit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockroom-backend/internal/archive"
	"stockroom-backend/internal/catalog"
	"stockroom-backend/internal/worklist"
	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
	"stockroom-backend/pkg/metrics"
)

const defaultLockTimeout = 5 * time.Second

// Service turns a working list into reservations plus an archive record.
type Service interface {
	Commit(ctx context.Context, userID int64) (*Result, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	worklist    *worklist.Repository
	catalog     *catalog.Repository
	archive     *archive.Repository
	metrics     *metrics.CommitMetrics
	logg        *logger.Logger
	lockTimeout time.Duration
	now         func() time.Time
}

// Option tweaks service construction.
type Option func(*service)

// WithLockTimeout bounds how long a commit may wait on row locks.
func WithLockTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithClock overrides the time source used for archive labels.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a commit service.
func NewService(
	tx txRunner,
	worklistRepo *worklist.Repository,
	catalogRepo *catalog.Repository,
	archiveRepo *archive.Repository,
	commitMetrics *metrics.CommitMetrics,
	logg *logger.Logger,
	opts ...Option,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if worklistRepo == nil {
		return nil, fmt.Errorf("worklist repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if archiveRepo == nil {
		return nil, fmt.Errorf("archive repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		tx:          tx,
		worklist:    worklistRepo,
		catalog:     catalogRepo,
		archive:     archiveRepo,
		metrics:     commitMetrics,
		logg:        logg,
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Commit snapshots the user's working list, locks the affected ledger rows
// and splits every line into a fulfillable portion and a surplus portion.
// Only the fulfillable portion is reserved and archived; for every line
// fulfillable + surplus equals the requested quantity. The whole operation
// runs in one transaction bounded by the lock timeout, so a competing
// commit either waits briefly or the caller gets a retryable failure.
func (s *service) Commit(ctx context.Context, userID int64) (*Result, error) {
	start := s.now()
	ctx = s.logg.WithUserID(ctx, userID)

	ctx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var result *Result
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.commitTx(ctx, tx, userID)
		return txErr
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "commit timed out waiting for stock locks")
		}
		s.observe("error", start, nil)
		return nil, err
	}

	s.observe(outcomeOf(result), start, result)

	if !result.Empty() {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"fulfillable": len(result.Fulfillable),
			"surplus":     len(result.Surplus),
		})
		s.logg.Info(ctx, "working list committed")
	}
	return result, nil
}

func (s *service) commitTx(ctx context.Context, tx *gorm.DB, userID int64) (*Result, error) {
	items, err := s.worklist.WithTx(tx).ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading working list")
	}
	if len(items) == 0 {
		return &Result{Fulfillable: []Line{}, Surplus: []Line{}}, nil
	}

	cat := s.catalog.WithTx(tx)

	// Lock rows in ascending id order so two commits over overlapping
	// products always contend in the same sequence.
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	locked := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		product, err := cat.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// product vanished since it was listed; its line is dropped
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking product")
		}
		locked[id] = product
	}

	if len(locked) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyList, "every listed product is gone from the catalog")
	}

	department, err := singleDepartment(locked)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fulfillable: []Line{},
		Surplus:     []Line{},
		Department:  &department,
	}

	for _, item := range items {
		product, ok := locked[item.ProductID]
		if !ok {
			continue
		}

		requested := decimal.NewFromInt(int64(item.Quantity))
		available := catalog.Available(product.StockQty, product.Reserved)

		take := decimal.Min(requested, available)
		if take.IsPositive() {
			if err := cat.IncrementReserved(ctx, tx, product.ID, take); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserving stock")
			}
			result.Fulfillable = append(result.Fulfillable, Line{
				ProductID: product.ID,
				Article:   product.Article,
				Name:      product.Name,
				Quantity:  take,
			})
		}

		if rest := requested.Sub(take); rest.IsPositive() {
			result.Surplus = append(result.Surplus, Line{
				ProductID: product.ID,
				Article:   product.Article,
				Name:      product.Name,
				Quantity:  rest,
			})
		}
	}

	result.FileName = archive.FileName(department, s.now())

	if len(result.Fulfillable) > 0 {
		saved := &models.SavedList{
			UserID:   userID,
			FileName: result.FileName,
			Items:    make([]models.SavedListItem, 0, len(result.Fulfillable)),
		}
		for _, line := range result.Fulfillable {
			saved.Items = append(saved.Items, models.SavedListItem{
				ArticleName: line.Name,
				Quantity:    line.Quantity,
			})
		}
		if err := s.archive.WithTx(tx).Create(ctx, saved); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archiving commit")
		}
		result.ArchiveID = &saved.ID
	}

	if err := s.worklist.WithTx(tx).DeleteAllForUser(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing working list")
	}
	return result, nil
}

// singleDepartment asserts the locked snapshot stays inside one department.
// AddLine already guarantees this; a mixed snapshot means the catalog was
// reshuffled under a live list and the commit must not guess.
func singleDepartment(locked map[uuid.UUID]*models.Product) (int, error) {
	department := 0
	first := true
	for _, product := range locked {
		if first {
			department = product.Department
			first = false
			continue
		}
		if product.Department != department {
			return 0, pkgerrors.New(pkgerrors.CodeConflict,
				"working list spans multiple departments")
		}
	}
	return department, nil
}

func (s *service) observe(outcome string, start time.Time, result *Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncCommit(outcome)
	s.metrics.ObserveDuration(outcome, s.now().Sub(start))
	if result != nil {
		s.metrics.AddLines("fulfillable", len(result.Fulfillable))
		s.metrics.AddLines("surplus", len(result.Surplus))
	}
}

func outcomeOf(result *Result) string {
	if result.Empty() {
		return "noop"
	}
	return "success"
}
