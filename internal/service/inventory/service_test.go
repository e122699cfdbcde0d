package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/inventory/internal/domain/models"
	"github.com/mamadbah2/inventory/internal/validation"
)

// fakeSheet is an in-memory worksheet honouring the 1-based row and column
// conventions of the real store.
type fakeSheet struct {
	rows [][]string

	fetchErr   error
	appendErr  error
	deleteErr  error
	updateErr  error
	failColumn int

	ensured []string
	appends [][]string
	deletes []int
	updates []string
}

func newFakeSheet(rows ...[]string) *fakeSheet {
	grid := [][]string{append([]string(nil), models.Header...)}
	return &fakeSheet{rows: append(grid, rows...)}
}

func (f *fakeSheet) EnsureWorksheet(ctx context.Context, header []string) error {
	f.ensured = header
	return nil
}

func (f *fakeSheet) FetchAllRows(ctx context.Context) ([][]string, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([][]string, len(f.rows))
	for i, row := range f.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeSheet) AppendRow(ctx context.Context, values []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, values)
	f.rows = append(f.rows, append([]string(nil), values...))
	return nil
}

func (f *fakeSheet) DeleteRow(ctx context.Context, row int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, row)
	f.rows = append(f.rows[:row-1], f.rows[row:]...)
	return nil
}

func (f *fakeSheet) UpdateCell(ctx context.Context, row, column int, value string) error {
	if f.updateErr != nil && column == f.failColumn {
		return f.updateErr
	}
	f.updates = append(f.updates, fmt.Sprintf("R%dC%d=%s", row, column, value))
	f.rows[row-1][column-1] = value
	return nil
}

type recorderFunc func(ctx context.Context, event models.ChangeEvent) error

func (f recorderFunc) SaveChange(ctx context.Context, event models.ChangeEvent) error {
	return f(ctx, event)
}

type notifierFunc func(ctx context.Context, event models.ChangeEvent) error

func (f notifierFunc) NotifyChange(ctx context.Context, event models.ChangeEvent) error {
	return f(ctx, event)
}

func TestPrepare(t *testing.T) {
	sheet := newFakeSheet()
	svc := NewService(sheet, nil)

	require.NoError(t, svc.Prepare(context.Background()))
	assert.Equal(t, models.Header, sheet.ensured)
}

func TestList(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"}, []string{"Milk", "Fresh", "2", "l"})
	svc := NewService(sheet, nil)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Item{
		{Index: 1, Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"},
		{Index: 2, Name: "Milk", Type: "Fresh", Quantity: "2", Unit: "l"},
	}, items)
}

func TestList_Errors(t *testing.T) {
	boom := errors.New("transport closed")
	svc := NewService(&fakeSheet{fetchErr: boom}, nil)

	_, err := svc.List(context.Background())
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "retrieve inventory data", remote.Op)
	assert.ErrorIs(t, err, boom)

	svc = NewService(newFakeSheet([]string{"Flour", "Dry"}), nil)
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, models.ErrRowOutOfRange)
}

func TestSearch(t *testing.T) {
	sheet := newFakeSheet(
		[]string{"Flour", "Dry", "5", "kg"},
		[]string{"Rice flour", "Dry", "1", "kg"},
		[]string{"Milk", "Fresh", "2", "l"},
	)
	svc := NewService(sheet, nil)

	found, err := svc.Search(context.Background(), "FLOUR")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].Index)
	assert.Equal(t, 2, found[1].Index)

	found, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = svc.Search(context.Background(), "sugar")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAdd(t *testing.T) {
	sheet := newFakeSheet()
	svc := NewService(sheet, nil)

	require.NoError(t, svc.Add(context.Background(), models.Item{Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"}))
	assert.Equal(t, [][]string{{"Flour", "Dry", "5", "kg"}}, sheet.appends)

	err := svc.Add(context.Background(), models.Item{Name: "123", Type: "Dry", Quantity: "5", Unit: "kg"})
	assert.ErrorIs(t, err, validation.ErrKind)
	assert.Len(t, sheet.appends, 1)
}

func TestAdd_RemoteFailure(t *testing.T) {
	svc := NewService(&fakeSheet{appendErr: errors.New("403")}, nil)

	err := svc.Add(context.Background(), models.Item{Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"})
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "save item: 403", err.Error())
}

func TestUpdate_RoundTrip(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"}, []string{"Milk", "Fresh", "2", "l"})
	svc := NewService(sheet, nil)

	current := models.Item{Index: 2, Name: "Milk", Type: "Fresh", Quantity: "2", Unit: "l"}
	submitted := models.Item{Name: "Oat milk", Type: "Fresh", Quantity: "2.5", Unit: "l"}
	require.NoError(t, svc.Update(context.Background(), current, submitted))
	assert.Equal(t, []string{"R3C1=Oat milk", "R3C2=Fresh", "R3C3=2.5", "R3C4=l"}, sheet.updates)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	submitted.Index = 2
	assert.Equal(t, submitted, items[1])
	assert.Equal(t, "Flour", items[0].Name)
}

func TestUpdate_PartialFailure(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"})
	sheet.updateErr = errors.New("quota")
	sheet.failColumn = 3
	svc := NewService(sheet, nil)

	current := models.Item{Index: 1, Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"}
	err := svc.Update(context.Background(), current, models.Item{Name: "Wheat", Type: "Dry", Quantity: "9", Unit: "kg"})
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "update item (column Quantity)", remote.Op)
	assert.Equal(t, []string{"R2C1=Wheat", "R2C2=Dry"}, sheet.updates)
}

func TestUpdate_Rejected(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"})
	svc := NewService(sheet, nil)

	current := models.Item{Index: 1, Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"}

	assert.ErrorIs(t, svc.Update(context.Background(), models.Item{}, models.Item{Name: "a", Type: "b", Quantity: "1", Unit: "c"}), ErrInvalidIndex)
	assert.ErrorIs(t, svc.Update(context.Background(), current, models.Item{Name: "a", Type: "b", Quantity: "0", Unit: "c"}), validation.ErrKind)
	assert.Empty(t, sheet.updates)
}

func TestUpdate_KeptFieldsAreNotRevalidated(t *testing.T) {
	tests := []struct {
		name    string
		current models.Item
	}{
		{"zero quantity", models.Item{Index: 1, Name: "Flour", Type: "Dry", Quantity: "0", Unit: "kg"}},
		{"digit only name", models.Item{Index: 1, Name: "2024", Type: "Dry", Quantity: "5", Unit: "kg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := newFakeSheet(tt.current.Values())
			svc := NewService(sheet, nil)

			updated := tt.current
			updated.Unit = "bag"
			require.NoError(t, svc.Update(context.Background(), tt.current, updated))
			assert.Equal(t, "R2C4=bag", sheet.updates[3])

			updated.Unit = "12"
			assert.ErrorIs(t, svc.Update(context.Background(), tt.current, updated), validation.ErrKind)
		})
	}
}

func TestDelete_UsesStoreRow(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"}, []string{"Milk", "Fresh", "2", "l"})
	svc := NewService(sheet, nil)

	require.NoError(t, svc.Delete(context.Background(), models.Item{Index: 1, Name: "Flour"}))
	assert.Equal(t, []int{2}, sheet.deletes)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.Item{Index: 1, Name: "Milk", Type: "Fresh", Quantity: "2", Unit: "l"}, items[0])

	assert.ErrorIs(t, svc.Delete(context.Background(), models.Item{}), ErrInvalidIndex)
}

func TestPublish(t *testing.T) {
	sheet := newFakeSheet([]string{"Flour", "Dry", "5", "kg"})
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	var recorded, notified []models.ChangeEvent
	svc := NewService(sheet, nil,
		WithWorksheet("inventory_sheet"),
		WithTimeout(time.Second),
		WithRecorder(recorderFunc(func(ctx context.Context, e models.ChangeEvent) error {
			recorded = append(recorded, e)
			return errors.New("mongo down")
		})),
		WithNotifier(notifierFunc(func(ctx context.Context, e models.ChangeEvent) error {
			notified = append(notified, e)
			return nil
		})),
	)
	svc.now = func() time.Time { return at }

	require.NoError(t, svc.Delete(context.Background(), models.Item{Index: 1, Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg"}))

	require.Len(t, recorded, 1)
	require.Len(t, notified, 1)
	assert.Equal(t, models.ChangeEvent{
		Action: models.ChangeDelete, Index: 1, Name: "Flour", Type: "Dry", Quantity: "5", Unit: "kg",
		Worksheet: "inventory_sheet", CreatedAt: at,
	}, recorded[0])
}

func TestPublish_NotCalledOnFailure(t *testing.T) {
	calls := 0
	svc := NewService(&fakeSheet{deleteErr: errors.New("nope")}, nil,
		WithNotifier(notifierFunc(func(ctx context.Context, e models.ChangeEvent) error {
			calls++
			return nil
		})),
	)

	assert.Error(t, svc.Delete(context.Background(), models.Item{Index: 1}))
	assert.Zero(t, calls)
}
