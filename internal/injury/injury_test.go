package injury

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportHTML = `
<html><body>
<table>
  <thead><tr><th>Player</th><th>Pos</th><th>Updated</th><th>Injury</th><th>Status</th></tr></thead>
  <tbody>
    <tr>
      <td><span class="CellPlayerName--long"><a href="/p/1">Joel Embiid</a></span></td>
      <td>C</td><td>Jan 9</td><td>Knee</td>
      <td>Out for the season following knee surgery</td>
    </tr>
    <tr>
      <td><a href="/p/2">Tyrese Maxey</a></td>
      <td>PG</td><td>Jan 9</td><td>Ankle</td>
      <td>Game Time Decision</td>
    </tr>
    <tr>
      <td>Paul George</td>
      <td>SF</td><td>Jan 8</td><td>Hamstring</td>
      <td>Out indefinitely</td>
    </tr>
    <tr><td></td><td></td><td></td><td></td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestParseReport(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(reportHTML))
	require.NoError(t, err)

	reports := ParseReport(doc)
	require.Len(t, reports, 3, "empty rows are skipped")

	assert.Equal(t, Report{Player: "Joel Embiid", Status: "Out for the season following knee surgery"}, reports[0])
	assert.Equal(t, "Tyrese Maxey", reports[1].Player)
	assert.Equal(t, "Paul George", reports[2].Player)
}

func TestUnavailable(t *testing.T) {
	assert.True(t, Unavailable("Out"))
	assert.True(t, Unavailable("out"))
	assert.True(t, Unavailable("Expected to be out until March"))
	assert.True(t, Unavailable("Recovering from knee surgery"))
	assert.True(t, Unavailable("Out indefinitely"))
	assert.True(t, Unavailable("Sidelined indefinitely"))

	assert.False(t, Unavailable("Game Time Decision"))
	assert.False(t, Unavailable("Questionable"))
	assert.False(t, Unavailable("Day-to-day"))
	assert.False(t, Unavailable("Probable"))
	// "out" must match as a word, not inside another one.
	assert.False(t, Unavailable("Working on outside shooting"))
}

func TestExclusions(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(reportHTML))
	require.NoError(t, err)

	excluded := Exclusions(ParseReport(doc))
	assert.Len(t, excluded, 2)
	assert.Contains(t, excluded, "Joel Embiid")
	assert.Contains(t, excluded, "Paul George")
	assert.NotContains(t, excluded, "Tyrese Maxey")
}
