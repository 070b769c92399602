package ironmancom

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEventID(t *testing.T) {
	id, err := ParseEventID([]byte(`<a href="https://labs-v2.competitor.com/results/event/` + eventUUID + `">`))
	require.NoError(t, err)
	require.Equal(t, eventUUID, id)

	_, err = ParseEventID([]byte(`<a href="https://labs-v2.competitor.com/results/event/short">`))
	require.ErrorIs(t, err, ErrNoEventID)
}

func TestParseSubevents(t *testing.T) {
	subevents, err := ParseSubevents(strings.NewReader(eventPage))
	require.NoError(t, err)
	require.Len(t, subevents, 3)
	require.Equal(t, Subevent{EventID: "sub-2024", Name: "2024 IRONMAN Alpha", Date: "06/09/2024"}, subevents[0])

	year, err := subevents[1].Year()
	require.NoError(t, err)
	require.Equal(t, 2023, year)

	_, err = ParseSubevents(strings.NewReader("<html></html>"))
	require.ErrorIs(t, err, ErrNoNextData)
}

func TestFilterYears(t *testing.T) {
	subevents := []Subevent{
		{EventID: "a", Date: "06/09/2024"},
		{EventID: "b", Date: "06/10/2023"},
		{EventID: "c", Date: "not a date"},
	}

	require.Len(t, FilterYears(context.Background(), subevents, nil), 3)

	filtered := FilterYears(context.Background(), subevents, []int{2023, 2022})
	require.Equal(t, []Subevent{{EventID: "b", Date: "06/10/2023"}}, filtered)
}

const slotsPage = `<html><body>
<table>
	<tr><th>Race</th><th>Date</th><th>Location</th><th>Women</th><th>Men</th></tr>
	<tr><td>IRONMAN&nbsp;Texas</td><td>April 26, 2025</td><td> The Woodlands,   TX </td><td>20</td><td>35</td></tr>
	<tr><td>IRONMAN 70.3 Oregon</td><td>July 13, 2025</td><td>Salem, OR</td><td>TBD</td><td>12</td></tr>
	<tr><td colspan="5">Europe</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestParseSlotsTable(t *testing.T) {
	rows, err := ParseSlotsTable(strings.NewReader(slotsPage))
	require.NoError(t, err)
	require.Equal(t, []SlotRow{
		{Race: "IRONMAN Texas", Date: "April 26, 2025", Location: "The Woodlands, TX", WomenSlots: 20, MenSlots: 35},
		{Race: "IRONMAN 70.3 Oregon", Date: "July 13, 2025", Location: "Salem, OR", WomenSlots: 0, MenSlots: 12},
	}, rows)

	rows, err = ParseSlotsTable(strings.NewReader("<p>no table</p>"))
	require.NoError(t, err)
	require.Empty(t, rows)
}
