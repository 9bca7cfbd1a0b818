package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"PortfolioDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = "urun,tur,toplamYatirim,guncelDeger,gunluk,haftalik,aylik,ucAylik,altiAylik,birYillik,tarih,adet,alisFiyati,notlar\n" +
	"ABC,Hisse,\"10.000,00\",\"12.500,00\",\"200,00\",\"500\",,,,,1.2.2024,,,x\n" +
	"  Altın   Fonu ,  Fon ,\"5.000\",\"4.750,50\",\"-25,5\",-,,,,,,10,\"500,00\",\n" +
	",Hisse,100,200,,,,,,,,,,\n" +
	"Bos,Hisse,0,200,,,,,,,,,,\n"

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"1.234,56":     1234.56,
		"":             0,
		"-":            0,
		"abc":          0,
		"10.000,00":    10000,
		"12.500":       12500,
		"1.234.567":    1234567,
		"0.125":        0.125,
		"3.5":          3.5,
		"₺ -200,50":    -200.5,
		"%12,3":        12.3,
		"1,234,5":      1234.5,
		"  42  ":       42,
		"-1.250,75 TL": -1250.75,
	}
	for in, want := range cases {
		assert.InDelta(t, want, ParseNumber(in), 1e-9, "input %q", in)
	}
}

func TestParseFeed(t *testing.T) {
	positions, err := ParseFeed([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, positions, 2, "nameless and zero-cost rows are dropped")

	abc := positions[0]
	assert.Equal(t, "ABC", abc.Name)
	assert.Equal(t, "Hisse", abc.Category)
	assert.Equal(t, 10000.0, abc.CostBasis)
	assert.Equal(t, 12500.0, abc.CurrentValue)
	assert.Equal(t, 200.0, abc.Delta(model.Daily))
	assert.Equal(t, 500.0, abc.Delta(model.Weekly))
	assert.Equal(t, 0.0, abc.Delta(model.Annual))
	assert.Equal(t, "1.2.2024", abc.AcquisitionDate)
	assert.Equal(t, 0.0, abc.Quantity)

	fund := positions[1]
	assert.Equal(t, "Altın Fonu", fund.Name)
	assert.Equal(t, "Fon", fund.Category)
	assert.Equal(t, 5000.0, fund.CostBasis)
	assert.InDelta(t, 4750.5, fund.CurrentValue, 1e-9)
	assert.InDelta(t, -25.5, fund.Delta(model.Daily), 1e-9)
	assert.Equal(t, 0.0, fund.Delta(model.Weekly))
	assert.Equal(t, 10.0, fund.Quantity)
	assert.Equal(t, 500.0, fund.UnitPurchasePrice)
}

func TestParseFeed_BOMAndMissingColumns(t *testing.T) {
	data := "\xef\xbb\xbfurun,toplamYatirim\nXYZ,\"1.000\"\n"
	positions, err := ParseFeed([]byte(data))
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "XYZ", positions[0].Name)
	assert.Equal(t, 1000.0, positions[0].CostBasis)
	assert.Equal(t, "", positions[0].Category)
}

func TestParseFeed_Malformed(t *testing.T) {
	_, err := ParseFeed([]byte(""))
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseFeed([]byte("urun,toplamYatirim\n\"ABC,100\n"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestCollect_Errors(t *testing.T) {
	ctx := context.Background()

	m := NewMockFetcher(nil)
	m.Set(nil, errors.New("connection refused"))
	_, err := NewCollector(m).Collect(ctx)
	assert.ErrorIs(t, err, ErrTransport)

	m.Set([]byte("urun,toplamYatirim\nABC,0\n"), nil)
	_, err = NewCollector(m).Collect(ctx)
	assert.ErrorIs(t, err, ErrNoData)

	m.Set([]byte(sampleFeed), nil)
	positions, err := NewCollector(m).Collect(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 2)
	assert.Equal(t, 3, m.Calls())
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("_t") == "" {
			http.Error(w, "missing cache buster", http.StatusBadRequest)
			return
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/pub?output=csv", "", 5*time.Second)
	data, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(data))

	bad := NewHTTPFetcher(srv.URL+"/%zz", "", 5*time.Second)
	_, err = bad.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, "", time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "status 410")
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleFeed), 0o644))

	positions, err := NewCollector(NewFileFetcher(path)).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, positions, 2)

	_, err = NewCollector(NewFileFetcher(path + ".missing")).Collect(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}
