package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"lead_outreach_backend/internal/leads/domain"
	leadsrepo "lead_outreach_backend/internal/leads/repository"
	"lead_outreach_backend/platform/apperr"
	"lead_outreach_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeSource struct {
	items []leadsrepo.LeadWithLastEvent
	err   error
}

func (f fakeSource) ListWithLastEvent(context.Context) ([]leadsrepo.LeadWithLastEvent, error) {
	return f.items, f.err
}

func sampleItems() []leadsrepo.LeadWithLastEvent {
	email := "giulia@example.test"
	created := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return []leadsrepo.LeadWithLastEvent{
		{
			Lead: domain.Lead{
				ID: uuid.New(), Name: "Giulia Verdi", Phone: "+393331112222", Email: &email,
				Interest: "impianti", Channel: domain.ChannelBoth, State: domain.StateApproved, CreatedAt: created,
			},
			LastEvent: &domain.LifecycleEvent{Action: domain.ActionMessageApproved, Detail: "channel=email", CreatedAt: created.Add(time.Hour)},
		},
		{
			Lead: domain.Lead{
				ID: uuid.New(), Name: "Marco Neri", Phone: "+393334445555",
				Channel: domain.ChannelWhatsApp, State: domain.StateNew, CreatedAt: created,
			},
		},
	}
}

func TestRecordsIncludeLastActivity(t *testing.T) {
	svc := New(fakeSource{items: sampleItems()}, logger.New("test"), nil)

	records, err := svc.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"Giulia Verdi", "giulia@example.test", "+393331112222", "impianti", "approved", "both",
		"02/03/2026 09:30:00", "02/03/2026 10:30:00", domain.ActionMessageApproved, "channel=email",
	}, records[1])

	assert.Equal(t, "", records[2][1])
	assert.Equal(t, []string{notAvailable, notAvailable, notAvailable}, records[2][7:])
}

func TestWriteCSVRoundTrips(t *testing.T) {
	svc := New(fakeSource{items: sampleItems()}, logger.New("test"), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf, FormatCSV))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 3)
	assert.Equal(t, "Marco Neri", parsed[2][0])
}

func TestWriteXLSXSingleSheet(t *testing.T) {
	svc := New(fakeSource{items: sampleItems()}, logger.New("test"), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tipo Ultima Attività", rows[0][8])
	assert.Equal(t, "Giulia Verdi", rows[1][0])
}

func TestRecordsWrapsStoreFailure(t *testing.T) {
	svc := New(fakeSource{err: errors.New("connection reset")}, logger.New("test"), nil)

	_, err := svc.Records(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)

	f, ok = ParseFormat("csv")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	_, ok = ParseFormat("pdf")
	assert.False(t, ok)

	assert.Equal(t, "leads_export_2026-10-19.csv", FileName(FormatCSV, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
}
