package infrastructure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSourceMapsHeaderToNamedFields(t *testing.T) {
	input := strings.Join([]string{
		"Campaign_Name,Platform,Impressions,clicks,conversions,spend,revenue,target_audience,ad_copy,keywords",
		`Summer Sale,Google Ads,1000,50,5,100.50,300.00,founders,"Grow, faster",growth`,
		"Winter Push,Facebook Ads,2000,80,8,200,500,smb owners,Save big,",
	}, "\n")

	rows, err := NewCSVSource(strings.NewReader(input), 0).Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Summer Sale", rows[0]["campaign_name"])
	assert.Equal(t, "Grow, faster", rows[0]["ad_copy"])
	assert.Equal(t, "growth", rows[0]["keywords"])
	assert.Equal(t, "", rows[1]["keywords"])
}

func TestCSVSourceShortRecordLeavesFieldsEmpty(t *testing.T) {
	input := "campaign_name,platform,impressions\nOnly Name"

	rows, err := NewCSVSource(strings.NewReader(input), 0).Rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Only Name", rows[0]["campaign_name"])
	assert.Equal(t, "", rows[0]["platform"])
}

func TestCSVSourceEmptyFile(t *testing.T) {
	_, err := NewCSVSource(strings.NewReader(""), 0).Rows()
	require.Error(t, err)
}

func TestCSVSourceRowLimit(t *testing.T) {
	input := "campaign_name\na\nb\nc"

	_, err := NewCSVSource(strings.NewReader(input), 2).Rows()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row limit")
}
