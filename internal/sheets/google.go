package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"egunkari/internal/config"
)

// Values are written RAW so timestamps, JSON comment lists and bcrypt hashes
// are stored verbatim instead of being reinterpreted by the sheet.
const valueInputOption = "RAW"

// GoogleStore is a Store backed by a single Google spreadsheet.
type GoogleStore struct {
	service       *gsheets.Service
	spreadsheetID string
}

// serviceAccount mirrors the fields of a service-account key file.
type serviceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// NewGoogleStore authenticates once with the configured service account.
// The returned store is meant to be shared by every request.
func NewGoogleStore(ctx context.Context, cfg *config.Config) (*GoogleStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("missing SPREADSHEET_ID")
	}

	credsJSON, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, credsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	service, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	log.Printf("[GoogleStore] Sheets client initialized: spreadsheet=%s", cfg.SpreadsheetID)
	return &GoogleStore{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

func credentialsJSON(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleCredentialsFile != "" {
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials: %w", err)
		}
		return data, nil
	}

	if cfg.GoogleClientEmail == "" || cfg.GooglePrivateKey == "" {
		return nil, fmt.Errorf("missing google service account configuration")
	}
	return json.Marshal(serviceAccount{
		Type:         "service_account",
		ProjectID:    cfg.GoogleProjectID,
		PrivateKeyID: cfg.GooglePrivateKeyID,
		PrivateKey:   cfg.GooglePrivateKey,
		ClientEmail:  cfg.GoogleClientEmail,
		ClientID:     cfg.GoogleClientID,
		TokenURI:     "https://oauth2.googleapis.com/token",
	})
}

func (s *GoogleStore) Get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rng, err)
	}
	return toStrings(resp.Values), nil
}

func (s *GoogleStore) Append(ctx context.Context, rng string, rows [][]string) error {
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, rng, &gsheets.ValueRange{
		Values: toInterfaces(rows),
	}).ValueInputOption(valueInputOption).InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", rng, err)
	}
	return nil
}

func (s *GoogleStore) Update(ctx context.Context, rng string, rows [][]string) error {
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, &gsheets.ValueRange{
		Values: toInterfaces(rows),
	}).ValueInputOption(valueInputOption).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (s *GoogleStore) EnsureSheet(ctx context.Context, title string, headers []string) error {
	spreadsheet, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	_, err = s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{
					Title: title,
					GridProperties: &gsheets.GridProperties{
						RowCount:    1000,
						ColumnCount: int64(len(headers)),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}

	header := Range{Sheet: title, StartCol: 0, StartRow: 1, EndCol: len(headers) - 1, EndRow: 1}
	if err := s.Update(ctx, header.String(), [][]string{headers}); err != nil {
		return err
	}
	log.Printf("[GoogleStore] Created sheet %s", title)
	return nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}

func toInterfaces(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
