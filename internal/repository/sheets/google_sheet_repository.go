package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/inventory/internal/config"
	"github.com/mamadbah2/inventory/internal/domain/models"
)

// ErrWorksheetNotFound indicates the configured worksheet does not exist.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Repository defines the worksheet operations the inventory relies on. Rows
// and columns are 1-based, as displayed by Google Sheets.
type Repository interface {
	EnsureWorksheet(ctx context.Context, header []string) error
	FetchAllRows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
	DeleteRow(ctx context.Context, row int) error
	UpdateCell(ctx context.Context, row, column int, value string) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	logger        *zap.Logger

	mu      sync.Mutex
	sheetID *int64
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Extra client options are appended after the credentials option.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		logger:        logger,
	}, nil
}

// EnsureWorksheet creates the worksheet when missing and writes header into
// row 1 when that row is empty.
func (r *GoogleSheetRepository) EnsureWorksheet(ctx context.Context, header []string) error {
	_, err := r.lookupSheetID(ctx)
	if errors.Is(err, ErrWorksheetNotFound) {
		err = r.addWorksheet(ctx)
	}
	if err != nil {
		return err
	}

	headerRange := a1Range(r.worksheet, "1:1")
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header %s: %w", headerRange, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	target := a1Range(r.worksheet, "A1")
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{toInterfaces(header)}}
	if _, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, target, payload).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("write header %s: %w", target, err)
	}

	r.logger.Info("header written to empty worksheet", zap.String("worksheet", r.worksheet))
	return nil
}

// FetchAllRows reads every populated row of the worksheet, header first.
// The API drops trailing empty cells, so rows are padded back to the width
// of the header with empty strings.
func (r *GoogleSheetRepository) FetchAllRows(ctx context.Context) ([][]string, error) {
	sheetRange := a1Range(r.worksheet, "")

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	width := models.FieldCount
	if len(resp.Values) > 0 && len(resp.Values[0]) > width {
		width = len(resp.Values[0])
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, max(width, len(row)))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}

	r.logger.Debug("rows fetched", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return rows, nil
}

// AppendRow appends the provided values after the last populated row.
func (r *GoogleSheetRepository) AppendRow(ctx context.Context, values []string) error {
	sheetRange := a1Range(r.worksheet, "A:D")
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{toInterfaces(values)}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// DeleteRow removes a whole worksheet row, shifting the rows below it up.
func (r *GoogleSheetRepository) DeleteRow(ctx context.Context, row int) error {
	if row < 1 {
		return fmt.Errorf("row %d out of range", row)
	}

	sheetID, err := r.lookupSheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
					// Zero is a valid sheet id and start index.
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}

	if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", row, err)
	}

	r.logger.Debug("row deleted from sheet", zap.String("worksheet", r.worksheet), zap.Int("row", row))
	return nil
}

// UpdateCell overwrites a single cell.
func (r *GoogleSheetRepository) UpdateCell(ctx context.Context, row, column int, value string) error {
	if row < 1 || column < 1 {
		return fmt.Errorf("cell R%dC%d out of range", row, column)
	}

	cell := a1Range(r.worksheet, cellRef(row, column))
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}

	if _, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, cell, payload).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("update cell %s: %w", cell, err)
	}

	r.logger.Debug("cell updated", zap.String("cell", cell))
	return nil
}

func (r *GoogleSheetRepository) lookupSheetID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sheetID != nil {
		return *r.sheetID, nil
	}

	ss, err := r.service.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("load spreadsheet metadata: %w", err)
	}

	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == r.worksheet {
			id := sh.Properties.SheetId
			r.sheetID = &id
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrWorksheetNotFound, r.worksheet)
}

func (r *GoogleSheetRepository) addWorksheet(ctx context.Context) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: r.worksheet},
			},
		}},
	}

	resp, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add worksheet %s: %w", r.worksheet, err)
	}

	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		id := resp.Replies[0].AddSheet.Properties.SheetId
		r.mu.Lock()
		r.sheetID = &id
		r.mu.Unlock()
	}

	r.logger.Info("worksheet created", zap.String("worksheet", r.worksheet))
	return nil
}

// a1Range quotes the worksheet title and appends an optional cell reference.
func a1Range(worksheet, ref string) string {
	quoted := "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}

// cellRef renders a 1-based row and column in A1 notation.
func cellRef(row, column int) string {
	return columnName(column) + fmt.Sprint(row)
}

func columnName(column int) string {
	var name []byte
	for column > 0 {
		column--
		name = append([]byte{byte('A' + column%26)}, name...)
		column /= 26
	}
	return string(name)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
