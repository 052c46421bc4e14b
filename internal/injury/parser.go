package injury

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Report is one injury-report row. Only the name and status columns are
// consumed; everything else on the page is ignored.
type Report struct {
	Player string
	Status string
}

// ParseReport extracts {player, status} rows from the injury page. The
// report is a set of per-team tables; the player name is the first cell
// and the status the last. Markup shifts between redesigns, so parsing is
// positional rather than class-based, with a class-based fallback for the
// long-form player name span.
func ParseReport(doc *goquery.Document) []Report {
	var reports []Report

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		nameCell := cells.First()
		name := strings.TrimSpace(nameCell.Find("span.CellPlayerName--long a").Text())
		if name == "" {
			name = strings.TrimSpace(nameCell.Find("a").First().Text())
		}
		if name == "" {
			name = strings.TrimSpace(nameCell.Text())
		}

		status := strings.TrimSpace(cells.Last().Text())

		if name == "" || status == "" {
			return
		}

		reports = append(reports, Report{Player: name, Status: status})
	})

	return reports
}
