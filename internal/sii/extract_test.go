package sii

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"uffetcher/internal/fetcher"
	"uffetcher/internal/testutil"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestExtract_MinimalPage(t *testing.T) {
	doc := parse(t, `<div id="mes_Enero"><table><tr><th>10</th><td>36.123,45</td></tr></table></div>`)

	value, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 1, Day: 10}, MonthCaseCapitalized)

	require.NoError(t, err)
	assert.Equal(t, "36.123,45", value)
}

func TestExtract_LowerCaseSections(t *testing.T) {
	doc := parse(t, `
	<html><body>
	  <div id="mes_enero">
	    <table>
	      <tr><th>10</th><td>36.123,45</td></tr>
	    </table>
	  </div>
	</body></html>`)
	key := fetcher.DateKey{Year: 2024, Month: 1, Day: 10}

	value, err := Extract(context.Background(), doc, key, MonthCaseLower)
	require.NoError(t, err)
	assert.Equal(t, "36.123,45", value)

	_, err = Extract(context.Background(), doc, key, MonthCaseCapitalized)
	assert.Equal(t, fetcher.ErrorTypeNotFound, fetcher.TypeOf(err))
}

func TestExtract_PicksRequestedMonthAndDay(t *testing.T) {
	page := (&testutil.SIIPage{}).
		Month("mes_Enero", map[int]string{1: "33.100,00", 5: "33.150,50", 10: "33.200,10"}).
		Month("mes_Febrero", map[int]string{1: "34.000,00", 5: "34.050,25", 10: "34.100,99"}).
		HTML()
	doc := parse(t, page)

	tests := []struct {
		month, day int
		want       string
	}{
		{1, 1, "33.100,00"},
		{1, 5, "33.150,50"},
		{1, 10, "33.200,10"},
		{2, 5, "34.050,25"},
		{2, 10, "34.100,99"},
	}

	for _, tt := range tests {
		key := fetcher.DateKey{Year: 2024, Month: tt.month, Day: tt.day}
		t.Run(key.String(), func(t *testing.T) {
			value, err := Extract(context.Background(), doc, key, MonthCaseCapitalized)
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestExtract_DayMatchIsExact(t *testing.T) {
	// "1" must not match "10" or "11", and "01" is never rendered
	doc := parse(t, `<div id="mes_Marzo"><table>
		<tr><th>10</th><td>a</td></tr>
		<tr><th>11</th><td>b</td></tr>
		<tr><th> 1 </th><td>c</td></tr>
	</table></div>`)

	value, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 3, Day: 1}, MonthCaseCapitalized)
	require.NoError(t, err)
	assert.Equal(t, "c", value)
}

func TestExtract_ValueCellNotSibling(t *testing.T) {
	// SII lays out several day columns per row; the value is the next td in document order
	doc := parse(t, `<div id="mes_Abril"><table>
		<tr><th>1</th><th>2</th></tr>
		<tr><td> 37.000,01 </td><td>37.010,02</td></tr>
	</table></div>`)

	value, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 4, Day: 1}, MonthCaseCapitalized)
	require.NoError(t, err)
	assert.Equal(t, "37.000,01", value)
}

func TestExtract_NotFound(t *testing.T) {
	key := fetcher.DateKey{Year: 2024, Month: 1, Day: 10}

	tests := []struct {
		name string
		page string
	}{
		{"empty page", ``},
		{"no month section", `<div id="mes_Febrero"><table><tr><th>10</th><td>1</td></tr></table></div>`},
		{"section is not a div", `<section id="mes_Enero"><table><tr><th>10</th><td>1</td></tr></table></section>`},
		{"no table", `<div id="mes_Enero"><p>10 36.123,45</p></div>`},
		{"empty table", `<div id="mes_Enero"><table></table></div>`},
		{"no day header", `<div id="mes_Enero"><table><tr><th>9</th><td>1</td></tr><tr><th>11</th><td>2</td></tr></table></div>`},
		{"day as data cell", `<div id="mes_Enero"><table><tr><td>10</td><td>36.123,45</td></tr></table></div>`},
		{"no value cell", `<div id="mes_Enero"><table><tr><th>10</th></tr></table></div>`},
		{"empty value cell", `<div id="mes_Enero"><table><tr><th>10</th><td>  </td></tr></table></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(context.Background(), parse(t, tt.page), key, MonthCaseCapitalized)
			require.Error(t, err)
			assert.Equal(t, fetcher.ErrorTypeNotFound, fetcher.TypeOf(err))
		})
	}
}

func TestExtract_NonNumericValueIsReturned(t *testing.T) {
	doc := parse(t, `<div id="mes_Enero"><table><tr><th>10</th><td>n/d</td></tr></table></div>`)

	value, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 1, Day: 10}, MonthCaseCapitalized)
	require.NoError(t, err)
	assert.Equal(t, "n/d", value)
}

func TestExtract_Idempotent(t *testing.T) {
	page := (&testutil.SIIPage{}).Month("mes_Junio", map[int]string{15: "37.500,12"}).HTML()
	key := fetcher.DateKey{Year: 2024, Month: 6, Day: 15}

	first, err := Extract(context.Background(), parse(t, page), key, MonthCaseCapitalized)
	require.NoError(t, err)
	second, err := Extract(context.Background(), parse(t, page), key, MonthCaseCapitalized)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// captureTelemetry routes debug logs into a buffer and package spans into a recorder
func captureTelemetry(t *testing.T) (*bytes.Buffer, *tracetest.SpanRecorder) {
	t.Helper()

	var buf bytes.Buffer
	prevLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prevTracer := tracer
	tracer = tp.Tracer("uffetcher/internal/sii")

	t.Cleanup(func() {
		slog.SetDefault(prevLogger)
		tracer = prevTracer
		_ = tp.Shutdown(context.Background())
	})
	return &buf, recorder
}

func endedSpan(t *testing.T, recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range recorder.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not recorded", "no ended span named %q", name)
	return nil
}

func TestExtract_MissingSectionIsTraced(t *testing.T) {
	logs, recorder := captureTelemetry(t)
	doc := parse(t, `<div id="a"></div><div id="b"></div><div id="mes_Febrero"><table><tr><th>1</th><td>36.940,52</td></tr></table></div>`)

	_, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 1, Day: 10}, MonthCaseCapitalized)
	require.Error(t, err)
	assert.Equal(t, fetcher.ErrorTypeNotFound, fetcher.TypeOf(err))

	out := logs.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "step=section")
	assert.Contains(t, out, "date=2024-01-10")
	assert.Contains(t, out, "section_id=mes_Enero")
	assert.Contains(t, out, `available="[a b mes_Febrero]"`)

	span := endedSpan(t, recorder, "Extract")
	events := span.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "miss", events[0].Name)
	assert.Contains(t, events[0].Attributes, attribute.String("step", "section"))
}

func TestExtract_AvailableSectionsAreCapped(t *testing.T) {
	logs, _ := captureTelemetry(t)

	var page strings.Builder
	ids := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("d%02d", i)
		ids = append(ids, id)
		fmt.Fprintf(&page, `<div id="%s"></div>`, id)
	}
	doc := parse(t, page.String())

	assert.Equal(t, ids[:maxListedSections], sectionIDs(doc))

	_, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 1, Day: 10}, MonthCaseCapitalized)
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, `available="[`+strings.Join(ids[:maxListedSections], " ")+`]"`)
	assert.NotContains(t, out, ids[10])
	assert.NotContains(t, out, ids[11])
}

func TestExtract_LaterStepMissIsTraced(t *testing.T) {
	logs, recorder := captureTelemetry(t)
	doc := parse(t, `<div id="mes_Enero"><table><tr><th>9</th><td>36.100,00</td></tr></table></div>`)

	_, err := Extract(context.Background(), doc, fetcher.DateKey{Year: 2024, Month: 1, Day: 10}, MonthCaseCapitalized)
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, "step=day_header")
	assert.Contains(t, out, "day=10")
	assert.NotContains(t, out, "available=")

	events := endedSpan(t, recorder, "Extract").Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Attributes, attribute.String("step", "day_header"))
}
