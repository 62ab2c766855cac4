package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// gradeRange covers the whole journal grid; sheets past column Z or row 100
// do not occur in practice.
const gradeRange = "A1:Z100"

// Client reads group journals from the Google Sheets API with a read-only
// service account.
type Client struct {
	svc *sheets.Service
	log zerolog.Logger
}

// NewClient creates a Sheets client from a service-account credentials file.
func NewClient(ctx context.Context, credentialsPath string, log zerolog.Logger) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	log.Info().Msg("Google Sheets service initialized")

	return &Client{
		svc: svc,
		log: log.With().Str("component", "sheets_client").Logger(),
	}, nil
}

// SheetNames returns the spreadsheet's tab titles in document order.
func (c *Client) SheetNames(ctx context.Context, spreadsheetID string) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			names = append(names, sheet.Properties.Title)
		}
	}
	return names, nil
}

// StudentGrades fetches one subject sheet and extracts the student's row.
// Returns nil (no error) when the sheet has no row for the student.
func (c *Client) StudentGrades(ctx context.Context, spreadsheetID, sheetName, studentName string) (*model.SubjectGrades, error) {
	readRange := fmt.Sprintf("%s!%s", sheetName, gradeRange)
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", readRange, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		values = append(values, cells)
	}

	return ParseStudentGrades(values, sheetName, studentName), nil
}
