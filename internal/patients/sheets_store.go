package patients

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SheetsConfig locates the patient spreadsheet.
type SheetsConfig struct {
	// SpreadsheetID wins over Title when set.
	SpreadsheetID string
	// Title is looked up through Drive when no id is configured.
	Title string
	// Range in A1 notation. Empty means the whole first sheet.
	Range string
}

// SheetsStore reads patient rows from a Google spreadsheet. The first row
// holds the column names.
type SheetsStore struct {
	sheets *sheets.Service
	drive  *drive.Service
	cfg    SheetsConfig
}

// GoogleCredentials returns client options for a service account JSON key with
// the read-only scopes the store needs.
func GoogleCredentials(credsJSON string) []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsJSON([]byte(credsJSON)),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope, drive.DriveMetadataReadonlyScope),
	}
}

func NewSheetsStore(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" && strings.TrimSpace(cfg.Title) == "" {
		return nil, fmt.Errorf("patients: spreadsheet id or title is required")
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("patients: create sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("patients: create drive client: %w", err)
	}

	return &SheetsStore{sheets: sheetsSvc, drive: driveSvc, cfg: cfg}, nil
}

func (s *SheetsStore) FetchAll(ctx context.Context) (RecordSet, error) {
	id, err := s.spreadsheetID(ctx)
	if err != nil {
		return nil, err
	}

	readRange, err := s.readRange(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := s.sheets.Spreadsheets.Values.Get(id, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read values: %v", ErrStoreUnavailable, err)
	}

	return rowsToRecords(resp.Values), nil
}

func (s *SheetsStore) spreadsheetID(ctx context.Context) (string, error) {
	if id := strings.TrimSpace(s.cfg.SpreadsheetID); id != "" {
		return id, nil
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(s.cfg.Title, "'", `\'`), spreadsheetMimeType)

	list, err := s.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: find spreadsheet %q: %v", ErrStoreUnavailable, s.cfg.Title, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: spreadsheet %q not found", ErrStoreUnavailable, s.cfg.Title)
	}
	return list.Files[0].Id, nil
}

func (s *SheetsStore) readRange(ctx context.Context, id string) (string, error) {
	if r := strings.TrimSpace(s.cfg.Range); r != "" {
		return r, nil
	}

	meta, err := s.sheets.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: read spreadsheet metadata: %v", ErrStoreUnavailable, err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return "", fmt.Errorf("%w: spreadsheet has no sheets", ErrStoreUnavailable)
	}
	return quoteSheetTitle(meta.Sheets[0].Properties.Title), nil
}

func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// rowsToRecords maps every row after the header to a Record. Blank header
// cells are dropped, missing trailing cells read as "", empty rows are skipped.
func rowsToRecords(rows [][]interface{}) RecordSet {
	if len(rows) == 0 {
		return RecordSet{}
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		headers[i] = strings.TrimSpace(cellString(cell))
	}

	out := make(RecordSet, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		rec := make(Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			v := ""
			if i < len(row) {
				v = cellString(row[i])
			}
			rec[h] = v
		}
		out = append(out, rec)
	}
	return out
}

func rowIsEmpty(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(cellString(cell)) != "" {
			return false
		}
	}
	return true
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
