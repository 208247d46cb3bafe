// Package sheets appends usage rows to the externally owned spreadsheet.
// The sheet, its column headers, and sharing with the service account are
// provisioned out-of-band; this package only ever appends.
package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

type Appender struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// New builds an appender authenticated with service-account credentials.
func New(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*Appender, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets credentials: %w", err)
	}
	return NewWithOptions(ctx, spreadsheetID, option.WithTokenSource(creds.TokenSource))
}

// NewWithOptions builds an appender with raw client options. Tests use it
// to point the service at a local fake and skip authentication.
func NewWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Appender, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Appender{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// AppendRow appends one row to the first sheet.
func (a *Appender) AppendRow(ctx context.Context, row []interface{}) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	_, err := a.svc.Spreadsheets.Values.
		Append(a.spreadsheetID, "A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	return nil
}

// Title fetches the spreadsheet title, confirming the ID and permissions.
func (a *Appender) Title(ctx context.Context) (string, error) {
	ss, err := a.svc.Spreadsheets.Get(a.spreadsheetID).
		Fields("properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("sheets get: %w", err)
	}
	if ss.Properties == nil {
		return "", nil
	}
	return ss.Properties.Title, nil
}
