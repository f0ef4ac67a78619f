package reports

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// SheetsExporter appends end of day summaries to a shared spreadsheet
// the owners use for bookkeeping.
type SheetsExporter struct {
	sheetsService *sheets.Service
	spreadsheetID string
}

func NewSheetsExporter() (*SheetsExporter, error) {
	ctx := context.Background()

	spreadsheetID := os.Getenv("EOD_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("EOD_SPREADSHEET_ID environment variable is not set")
	}

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		log.Println("Using Google credentials from environment variable")
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		log.Println("Using Google credentials from local file")
		b, readErr := os.ReadFile("configs/google-credentials.json")
		if readErr != nil {
			return nil, fmt.Errorf("unable to read credentials file: %w", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %w", err)
	}

	return &SheetsExporter{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Export appends one row per payment method plus a totals row.
func (e *SheetsExporter) Export(summary *DailySummary) error {
	rows := [][]interface{}{
		{
			summary.Date,
			"TOTAL",
			summary.OrderCount,
			summary.GrossRevenue.StringFixed(2),
			summary.TotalVAT.StringFixed(2),
			summary.TotalDiscount.StringFixed(2),
		},
	}

	for _, p := range summary.ByPayment {
		rows = append(rows, []interface{}{
			summary.Date,
			p.Method,
			p.Count,
			p.Amount.StringFixed(2),
			"",
			"",
		})
	}

	valueRange := &sheets.ValueRange{Values: rows}

	_, err := e.sheetsService.Spreadsheets.Values.
		Append(e.spreadsheetID, "A1", valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("unable to append rows to spreadsheet: %w", err)
	}

	return nil
}
