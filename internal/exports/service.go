// Package exports produces the spreadsheet export of all leads with their
// most recent lifecycle activity.
package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	leadsrepo "lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/xuri/excelize/v2"
)

const (
	notAvailable = "N/A"
	timeLayout   = "02/01/2006 15:04:05"
	sheetName    = "Leads"
)

// Format selects the export encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat defaults to xlsx when empty.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case "", FormatXLSX:
		return FormatXLSX, true
	case FormatCSV:
		return FormatCSV, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type of the encoded file.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Header is the first row of every export.
var Header = []string{
	"Nome Completo",
	"Email",
	"Telefono",
	"Interesse",
	"Stato",
	"Canale Preferito",
	"Data Creazione",
	"Data Ultima Azione",
	"Tipo Ultima Attività",
	"Dettagli Attività",
}

var columnWidths = []float64{25, 30, 18, 30, 18, 16, 20, 20, 22, 40}

// Source lists every lead with its latest log entry, newest lead first.
type Source interface {
	ListWithLastEvent(ctx context.Context) ([]leadsrepo.LeadWithLastEvent, error)
}

// Service builds lead exports.
type Service struct {
	source   Source
	log      *logger.Logger
	location *time.Location
}

// New creates an export service. Timestamps are rendered in loc (UTC when nil).
func New(source Source, log *logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, log: log, location: loc}
}

// Records returns the header followed by one record per lead.
func (s *Service) Records(ctx context.Context) ([][]string, error) {
	items, err := s.source.ListWithLastEvent(ctx)
	if err != nil {
		s.log.DatabaseError("leads.list_with_last_event", err)
		return nil, apperr.Upstream("leads.list_with_last_event", err)
	}

	records := make([][]string, 0, len(items)+1)
	records = append(records, Header)
	for _, item := range items {
		records = append(records, s.record(item))
	}
	return records, nil
}

// Write encodes the export into w.
func (s *Service) Write(ctx context.Context, w io.Writer, format Format) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return WriteCSV(w, records)
	}
	return WriteXLSX(w, records)
}

// FileName is the suggested download name for an export taken at now.
func FileName(format Format, now time.Time) string {
	return fmt.Sprintf("leads_export_%s.%s", now.Format("2006-01-02"), format)
}

func (s *Service) record(item leadsrepo.LeadWithLastEvent) []string {
	lead := item.Lead
	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}

	lastAt, lastAction, lastDetail := notAvailable, notAvailable, notAvailable
	if e := item.LastEvent; e != nil {
		lastAt = e.CreatedAt.In(s.location).Format(timeLayout)
		lastAction = e.Action
		if e.Detail != "" {
			lastDetail = e.Detail
		}
	}

	return []string{
		lead.Name,
		email,
		lead.Phone,
		lead.Interest,
		string(lead.State),
		string(lead.Channel),
		lead.CreatedAt.In(s.location).Format(timeLayout),
		lastAt,
		lastAction,
		lastDetail,
	}
}

// WriteCSV writes records as comma separated values.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes records to a single-sheet workbook.
func WriteXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	for i, width := range columnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	for i, record := range records {
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
