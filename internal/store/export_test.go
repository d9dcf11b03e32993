package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmscope/swarmscope/internal/event"
)

func TestExportCSV(t *testing.T) {
	st, err := Load(writeDecisions(t, sampleDecisions))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,timestamp,type,status,participants", lines[0])
	assert.Equal(t, "d-1,2026-03-01T10:00:00Z,consensus_proposed,pending,Lyra;Otto", lines[1])
	assert.Equal(t, "d-2,2026-03-01T10:01:00Z,consensus_reached,approved,Lyra;Otto", lines[2])
}

func TestExportCSV_Empty(t *testing.T) {
	st, err := Load(writeDecisions(t, `[]`))
	require.ErrorIs(t, err, ErrEmptyResult)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(&buf))
	assert.Equal(t, "id,timestamp,type,status,participants\n", buf.String())
}

func TestExportJSON_RoundTrip(t *testing.T) {
	st, err := Load(writeDecisions(t, sampleDecisions))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf))

	var events []event.ConsensusEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, st.At(0).ID, events[0].ID)
	assert.Equal(t, st.At(1).Links, events[1].Links)
}
