package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"delivery-dashboard/models"
	"delivery-dashboard/storage"
	"delivery-dashboard/utils"
)

const header = "Agent Name,Location,Order Type,Rating\n"

func newTestLoader() *Loader { return NewLoader(utils.NewNopLogger()) }

func loadCSV(t *testing.T, in string) (*Dataset, error) {
	t.Helper()
	return newTestLoader().Load(context.Background(), storage.NewCSVReaderFrom(strings.NewReader(in)))
}

// asLoadError fails the test unless err wraps a *LoadError.
func asLoadError(t *testing.T, err error) *LoadError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a load error, got nil")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	return loadErr
}

func TestLoadResolvesCoordinates(t *testing.T) {
	ds, err := loadCSV(t, header+
		"  Zomato ,Delhi,Food,4.5\n"+
		"Swiggy   Instamart,Mumbai, Grocery ,3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", ds.Len())
	}

	rows := ds.All()
	want := models.Review{
		AgentName: "Zomato", Location: "Delhi", OrderType: "Food", Rating: 4.5,
		Latitude: 28.6139, Longitude: 77.2090,
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}
	if rows[1].AgentName != "Swiggy Instamart" {
		t.Errorf("AgentName: got %q, want %q", rows[1].AgentName, "Swiggy Instamart")
	}
	if rows[1].OrderType != "Grocery" {
		t.Errorf("OrderType: got %q, want Grocery", rows[1].OrderType)
	}
	if rows[1].Latitude != 19.0760 {
		t.Errorf("Latitude: got %v, want 19.0760", rows[1].Latitude)
	}
}

func TestLoadUnknownLocationIsFatal(t *testing.T) {
	ds, err := loadCSV(t, header+
		"X,Delhi,Express,4.5\n"+
		"Y,Atlantis,Express,3.0\n")
	if ds != nil {
		t.Errorf("expected no dataset on failure")
	}
	loadErr := asLoadError(t, err)

	var unknown *UnknownLocationError
	if !errors.As(err, &unknown) || unknown.Location != "Atlantis" {
		t.Errorf("expected UnknownLocationError for Atlantis, got %v", err)
	}
	if loadErr.Line != 3 || loadErr.Column != storage.ColumnLocation {
		t.Errorf("got line %d column %q, want line 3 column %q", loadErr.Line, loadErr.Column, storage.ColumnLocation)
	}
	if want := `line 3, column "Location": unknown location "Atlantis"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	_, err := loadCSV(t, "Agent Name,Location,Rating\nX,Delhi,4.5\n")
	loadErr := asLoadError(t, err)
	if loadErr.Line != 0 {
		t.Errorf("Line: got %d, want 0", loadErr.Line)
	}
	if !errors.Is(err, storage.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestLoadRejectsBadRows(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"empty order type", "X,Delhi,,4.5", storage.ColumnOrderType},
		{"empty agent", " ,Delhi,Food,4.5", storage.ColumnAgentName},
		{"empty rating", "X,Delhi,Food,", storage.ColumnRating},
		{"bad rating", "X,Delhi,Food,great", storage.ColumnRating},
		{"nan rating", "X,Delhi,Food,NaN", storage.ColumnRating},
		{"lowercase city", "X,delhi,Food,4", storage.ColumnLocation},
		{"all fields empty", ",,,", storage.ColumnAgentName},
		{"all fields whitespace", " , , , ", storage.ColumnAgentName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadCSV(t, header+tt.row+"\n")
			loadErr := asLoadError(t, err)
			if loadErr.Column != tt.column {
				t.Errorf("Column: got %q, want %q", loadErr.Column, tt.column)
			}
			if loadErr.Line != 2 {
				t.Errorf("Line: got %d, want 2", loadErr.Line)
			}
		})
	}
}

func TestLoadEmptyFieldRowAfterValidRows(t *testing.T) {
	_, err := loadCSV(t, header+"X,Delhi,Express,4.5\n\n,,,\n")
	loadErr := asLoadError(t, err)
	if loadErr.Line != 4 {
		t.Errorf("Line: got %d, want 4", loadErr.Line)
	}
}

func TestLoadSkipsEmptyLines(t *testing.T) {
	ds, err := loadCSV(t, header+"X,Delhi,Express,4.5\n\n\nY,Pune,Food,3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Len: got %d, want 2", ds.Len())
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	ds, err := loadCSV(t, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Len: got %d, want 0", ds.Len())
	}
	if got := TopStats(ds.All()); got != models.EmptyTopStats() {
		t.Errorf("TopStats: got %+v, want empty sentinel", got)
	}
}

func TestBuildKeepsOutOfScaleRatings(t *testing.T) {
	ds, err := newTestLoader().Build([]*models.RawReview{
		{Line: 1, AgentName: "X", Location: "Pune", OrderType: "Food", Rating: "5.5"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ds.All()[0].Rating; got != 5.5 {
		t.Errorf("Rating: got %v, want 5.5", got)
	}
}

type failingSource struct{}

func (failingSource) Read(context.Context) ([]*models.RawReview, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) Close() error { return nil }

func TestLoadSourceError(t *testing.T) {
	_, err := newTestLoader().Load(context.Background(), failingSource{})
	asLoadError(t, err)
	if err.Error() != "load: connection refused" {
		t.Errorf("error: got %q", err)
	}
}

func TestPrintReport(t *testing.T) {
	svc := newTestService()

	var buf bytes.Buffer
	PrintReport(&buf, svc.Report(models.NewFilter("All", "All")))
	out := buf.String()
	for _, want := range []string{"Total orders           : \033[1m6", "3.25/5", "Mumbai (3 orders)", "Food"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	buf.Reset()
	PrintReport(&buf, svc.Report(models.NewFilter("Nobody", "All")))
	out = buf.String()
	for _, want := range []string{
		"Agent: \033[1mNobody",
		"Average rating         : \033[1mN/A",
		"Highest rating : N/A",
		"No location data",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("empty report missing %q", want)
		}
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Food", "Food"},
		{strings.Repeat("a", 18), strings.Repeat("a", 18)},
		{strings.Repeat("a", 20), strings.Repeat("a", 15) + "..."},
		{strings.Repeat("é", 18), strings.Repeat("é", 18)},
		{strings.Repeat("é", 20), strings.Repeat("é", 15) + "..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, 18)
		if got != tt.want {
			t.Errorf("truncate(%q): got %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q) produced invalid UTF-8: %q", tt.in, got)
		}
	}
}
