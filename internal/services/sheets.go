package services

import (
	"context"
	"fmt"
	"strings"

	"fineops/internal/config"
	"fineops/internal/utils/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService appends report rows to the configured worksheet using
// a service-account credential.
type SheetsService struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	log           *logger.Logger
}

func NewSheetsService(ctx context.Context, cfg config.SheetsConfig) (*SheetsService, error) {
	id, err := SpreadsheetIDFromURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetsService{
		svc:           svc,
		spreadsheetID: id,
		worksheet:     cfg.WorksheetName,
		log:           logger.New("sheets"),
	}, nil
}

// SpreadsheetIDFromURL extracts the spreadsheet ID from the /d/<id>/
// segment of a full spreadsheet URL.
func SpreadsheetIDFromURL(rawURL string) (string, error) {
	_, rest, found := strings.Cut(rawURL, "/d/")
	if !found {
		return "", fmt.Errorf("spreadsheet URL %q has no /d/ segment", rawURL)
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", fmt.Errorf("spreadsheet URL %q has an empty ID", rawURL)
	}
	return id, nil
}

// AppendRow appends one row after the last non-empty row of the
// worksheet.
func (s *SheetsService) AppendRow(ctx context.Context, values []interface{}) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.worksheet+"!A1", body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append spreadsheet row: %w", err)
	}
	return nil
}
