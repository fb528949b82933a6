package sii

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"uffetcher/internal/fetcher"
)

// maxListedSections caps how many div ids are logged when a month section is missing
const maxListedSections = 10

// Extract locates the value published for key inside a parsed SII year page.
//
// The page is expected to hold one div per month (id "mes_<Month>") with a
// table whose header cells are bare day numbers, each followed by the value
// cell. Any missing piece yields a FetchError of type ErrorTypeNotFound.
func Extract(ctx context.Context, doc *goquery.Document, key fetcher.DateKey, casing MonthCase) (string, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	w := &walker{ctx: ctx, span: span, key: key}

	sectionID, err := SectionID(key.Month, casing)
	if err != nil {
		return "", w.miss("month", "error", err.Error())
	}
	span.SetAttributes(attribute.String("section_id", sectionID))

	section := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, ok := s.Attr("id")
		return ok && id == sectionID
	}).First()
	if section.Length() == 0 {
		return "", w.miss("section", "section_id", sectionID, "available", sectionIDs(doc))
	}

	table := section.Find("table").First()
	if table.Length() == 0 {
		return "", w.miss("table", "section_id", sectionID)
	}

	day := strconv.Itoa(key.Day)
	header := table.Find("th").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == day
	}).First()
	if header.Length() == 0 {
		return "", w.miss("day_header", "day", day)
	}

	cell := nextElement(header.Get(0), atom.Td)
	if cell == nil {
		return "", w.miss("value_cell", "day", day)
	}

	value := strings.TrimSpace(doc.FindNodes(cell).Text())
	if value == "" {
		return "", w.miss("value_empty", "day", day)
	}

	span.SetAttributes(attribute.String("value", value))
	return value, nil
}

// walker reports a failed traversal step as a not found error
type walker struct {
	ctx  context.Context
	span trace.Span
	key  fetcher.DateKey
}

func (w *walker) miss(step string, attrs ...any) error {
	args := append([]any{"step", step, "date", w.key.String()}, attrs...)
	slog.DebugContext(w.ctx, "UF value lookup missed", args...)
	w.span.AddEvent("miss", trace.WithAttributes(attribute.String("step", step)))

	return fetcher.NewNotFoundError(fmt.Sprintf("UF value not found for date %s", w.key))
}

// sectionIDs lists the first div ids on the page, to spot markup drift
func sectionIDs(doc *goquery.Document) []string {
	ids := []string{}
	doc.Find("div[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		ids = append(ids, id)
		return len(ids) < maxListedSections
	})
	return ids
}

// nextElement returns the first element of type a that follows n in document order
func nextElement(n *html.Node, a atom.Atom) *html.Node {
	for cur := following(n); cur != nil; cur = following(cur) {
		if cur.Type == html.ElementNode && cur.DataAtom == a {
			return cur
		}
	}
	return nil
}

// following returns the node after n in a pre-order walk of the whole tree
func following(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}
