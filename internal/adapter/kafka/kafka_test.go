package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/ine-crime-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	finished := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	summary := domain.RunSummary{
		RunDate:        "20240426",
		Indicator:      domain.IndicatorCode,
		YearsRequested: 12,
		YearsFetched:   11,
		FailedYears:    []string{"S7A2015"},
		Rows:           340,
		RawObject:      "extract/extract-20240426.json",
		CleanObject:    "data/data-20240426.csv",
		FinishedAt:     finished,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("20240426"), msg.Key)
	assert.Contains(t, string(msg.Value), `"years_fetched":11`)
	assert.Contains(t, string(msg.Value), `"failed_years":["S7A2015"]`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "indicator", msg.Headers[0].Key)
	assert.Equal(t, []byte("0008074"), msg.Headers[0].Value)
	assert.Equal(t, "finished_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(finished.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_OmitsEmptyFailedYears(t *testing.T) {
	msg, err := serializeToMessage(domain.RunSummary{RunDate: "20240426"})
	require.NoError(t, err)
	assert.NotContains(t, string(msg.Value), "failed_years")
}
