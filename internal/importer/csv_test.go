package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVCanonicalHeaders(t *testing.T) {
	in := strings.Join([]string{
		"event_date,event_time,event_type,address,address2,city,state,zip,start_date,end_date",
		"2099-06-01,3pm - 5pm,fair,1 Main St,Suite 2,New York,NY,10001,,",
		"",
		",,festival,2 Oak Ave,,Chicago,IL,60601,2099-07-01,2099-07-03",
	}, "\n")

	drafts, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 2) // the blank line is skipped

	assert.Equal(t, "2099-06-01", drafts[0].EventDate)
	assert.Equal(t, "3pm - 5pm", drafts[0].EventTime)
	assert.Equal(t, "fair", drafts[0].EventType)
	assert.Equal(t, "Suite 2", drafts[0].Address2)
	assert.Equal(t, "10001", drafts[0].Zip)
	assert.Empty(t, drafts[0].StartDate)

	assert.Empty(t, drafts[1].EventDate)
	assert.Equal(t, "2099-07-01", drafts[1].StartDate)
	assert.Equal(t, "2099-07-03", drafts[1].EndDate)
}

func TestParseCSVAliasHeaders(t *testing.T) {
	in := strings.Join([]string{
		"date,time,type,address,city,state,zip",
		" 2099-06-01 , 4-6pm , market ,3 Pine Rd,Miami,FL,33101",
	}, "\n")

	drafts, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	// Aliases map onto the canonical fields and cells are trimmed.
	assert.Equal(t, "2099-06-01", drafts[0].EventDate)
	assert.Equal(t, "4-6pm", drafts[0].EventTime)
	assert.Equal(t, "market", drafts[0].EventType)
	assert.Equal(t, "Miami", drafts[0].City)
}

func TestParseCSVEmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseCSVRaggedRow(t *testing.T) {
	in := strings.Join([]string{
		"event_date,event_time,event_type,address,city,state,zip",
		"2099-06-01,3pm - 5pm,fair,1 Main St,New York", // state and zip missing
	}, "\n")

	drafts, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Empty(t, drafts[0].State)
	assert.Empty(t, drafts[0].Zip)
}
