package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory/internal/domain/models"
	repo "github.com/mamadbah2/inventory/internal/repository/sheets"
	"github.com/mamadbah2/inventory/internal/validation"
)

// ErrInvalidIndex indicates an index below 1 was passed to a mutation.
var ErrInvalidIndex = errors.New("invalid item index")

// RemoteError wraps a failure of the worksheet store.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ChangeRecorder stores successful mutations for auditing.
type ChangeRecorder interface {
	SaveChange(ctx context.Context, event models.ChangeEvent) error
}

// ChangeNotifier announces successful mutations.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, event models.ChangeEvent) error
}

// Service reads and mutates the inventory worksheet. It keeps no item state:
// every call works on a fresh fetch or purely on the index contract.
type Service struct {
	repo      repo.Repository
	recorder  ChangeRecorder
	notifier  ChangeNotifier
	worksheet string
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithRecorder enables the audit trail.
func WithRecorder(r ChangeRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithNotifier enables change notifications.
func WithNotifier(n ChangeNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithWorksheet labels change events with the worksheet name.
func WithWorksheet(name string) Option {
	return func(s *Service) { s.worksheet = name }
}

// NewService constructs the inventory service.
func NewService(repository repo.Repository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repository,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare makes sure the worksheet exists and carries the expected header.
func (s *Service) Prepare(ctx context.Context) error {
	ctx, cancel := s.remoteContext(ctx)
	defer cancel()

	if err := s.repo.EnsureWorksheet(ctx, models.Header); err != nil {
		return &RemoteError{Op: "prepare worksheet", Err: err}
	}
	return nil
}

// List fetches and maps every inventory row.
func (s *Service) List(ctx context.Context) ([]models.Item, error) {
	ctx, cancel := s.remoteContext(ctx)
	defer cancel()

	rows, err := s.repo.FetchAllRows(ctx)
	if err != nil {
		return nil, &RemoteError{Op: "retrieve inventory data", Err: err}
	}

	items, err := models.MapRows(rows)
	if err != nil {
		s.logger.Error("inventory rows could not be mapped", zap.Error(err))
		return nil, err
	}

	s.logger.Debug("inventory listed", zap.Int("items", len(items)))
	return items, nil
}

// Search returns items whose name contains term, ignoring case. An empty
// term matches everything.
func (s *Service) Search(ctx context.Context, term string) ([]models.Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByName(items, term), nil
}

// FilterByName keeps the items whose name contains term, ignoring case.
func FilterByName(items []models.Item, term string) []models.Item {
	needle := strings.ToLower(term)

	found := make([]models.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			found = append(found, item)
		}
	}
	return found
}

// Add appends a new item after the last row.
func (s *Service) Add(ctx context.Context, item models.Item) error {
	if err := validation.ValidateItem(item); err != nil {
		return err
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	if err := s.repo.AppendRow(rctx, item.Values()); err != nil {
		return &RemoteError{Op: "save item", Err: err}
	}

	s.logger.Info("item added", zap.String("name", item.Name))
	s.publish(ctx, models.ChangeAdd, item)
	return nil
}

// Update overwrites the four cells of current with the values of item.
// Only the fields that changed are validated. The cells are written one by
// one; a failure leaves the earlier cells applied.
func (s *Service) Update(ctx context.Context, current, item models.Item) error {
	index := current.Index
	if index < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if err := validation.ValidateChanges(current, item); err != nil {
		return err
	}
	item.Index = index

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	row := item.StoreRow()
	for i, value := range item.Values() {
		column := i + 1
		if err := s.repo.UpdateCell(rctx, row, column, value); err != nil {
			s.logger.Error("item update stopped part way",
				zap.Int("row", row),
				zap.Int("column", column),
				zap.Int("applied", i),
				zap.Error(err))
			return &RemoteError{Op: fmt.Sprintf("update item (column %s)", models.Header[i]), Err: err}
		}
	}

	s.logger.Info("item updated", zap.Int("index", index), zap.String("name", item.Name))
	s.publish(ctx, models.ChangeUpdate, item)
	return nil
}

// Delete removes the item at index.
func (s *Service) Delete(ctx context.Context, item models.Item) error {
	if item.Index < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, item.Index)
	}

	rctx, cancel := s.remoteContext(ctx)
	defer cancel()

	if err := s.repo.DeleteRow(rctx, item.StoreRow()); err != nil {
		return &RemoteError{Op: "delete item", Err: err}
	}

	s.logger.Info("item deleted", zap.Int("index", item.Index), zap.String("name", item.Name))
	s.publish(ctx, models.ChangeDelete, item)
	return nil
}

// publish hands the change to the optional recorder and notifier. Their
// failures are logged only.
func (s *Service) publish(ctx context.Context, action models.ChangeAction, item models.Item) {
	if s.recorder == nil && s.notifier == nil {
		return
	}

	event := models.NewChangeEvent(action, item, s.now().UTC())
	event.Worksheet = s.worksheet

	if s.recorder != nil {
		if err := s.recorder.SaveChange(ctx, event); err != nil {
			s.logger.Warn("failed to record inventory change", zap.String("action", string(action)), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyChange(ctx, event); err != nil {
			s.logger.Warn("failed to send change notification", zap.String("action", string(action)), zap.Error(err))
		}
	}
}

func (s *Service) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
