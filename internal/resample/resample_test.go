package resample

import (
	"errors"
	"testing"
	"time"

	"finboard/internal/models"
)

func dailyBar(t time.Time, open, high, low, close float64, volume int64) models.Bar {
	return models.Bar{
		Timestamp: t,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

// A Monday to anchor test weeks on. 2024-01-08 is a Monday.
var monday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func fullWeek() []models.Bar {
	opens := []float64{10, 11, 12, 11, 13}
	highs := []float64{12, 13, 14, 13, 15}
	lows := []float64{9, 10, 11, 10, 12}
	closes := []float64{11, 12, 11, 13, 14}
	volumes := []int64{100, 200, 150, 175, 125}

	bars := make([]models.Bar, 5)
	for i := range bars {
		bars[i] = dailyBar(monday.AddDate(0, 0, i), opens[i], highs[i], lows[i], closes[i], volumes[i])
	}
	return bars
}

func TestResampleDailyIsIdentity(t *testing.T) {
	bars := fullWeek()
	out, err := Resample(bars, models.TimeframeDaily)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != len(bars) {
		t.Fatalf("expected %d bars, got %d", len(bars), len(out))
	}
	for i := range bars {
		if out[i] != bars[i] {
			t.Errorf("bar %d changed: got %+v, want %+v", i, out[i], bars[i])
		}
	}
}

func TestResampleWeeklyAggregation(t *testing.T) {
	out, err := Resample(fullWeek(), models.TimeframeWeekly)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 weekly bar, got %d", len(out))
	}

	w := out[0]
	if w.Open != 10 {
		t.Errorf("open: got %v, want 10", w.Open)
	}
	if w.High != 15 {
		t.Errorf("high: got %v, want 15", w.High)
	}
	if w.Low != 9 {
		t.Errorf("low: got %v, want 9", w.Low)
	}
	if w.Close != 14 {
		t.Errorf("close: got %v, want 14", w.Close)
	}
	if w.Volume != 750 {
		t.Errorf("volume: got %v, want 750", w.Volume)
	}

	// The weekly bar is stamped with the Friday ending the week.
	friday := monday.AddDate(0, 0, 4)
	if !w.Timestamp.Equal(friday) {
		t.Errorf("timestamp: got %v, want %v", w.Timestamp, friday)
	}
}

func TestResampleWeeklySplitsAcrossWeeks(t *testing.T) {
	// Friday of one week plus Monday of the next must land in separate bars.
	bars := []models.Bar{
		dailyBar(monday.AddDate(0, 0, 4), 10, 12, 9, 11, 100),
		dailyBar(monday.AddDate(0, 0, 7), 20, 22, 19, 21, 200),
	}
	out, err := Resample(bars, models.TimeframeWeekly)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 weekly bars, got %d", len(out))
	}
	if out[0].Close != 11 || out[1].Close != 21 {
		t.Errorf("closes: got %v and %v, want 11 and 21", out[0].Close, out[1].Close)
	}
}

func TestResampleMonthly(t *testing.T) {
	bars := []models.Bar{
		dailyBar(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), 10, 12, 9, 11, 100),
		dailyBar(time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), 11, 14, 10, 13, 200),
		dailyBar(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), 13, 15, 12, 14, 300),
	}
	out, err := Resample(bars, models.TimeframeMonthly)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 monthly bars, got %d", len(out))
	}

	jan := out[0]
	if jan.Open != 10 || jan.High != 14 || jan.Low != 9 || jan.Close != 13 || jan.Volume != 300 {
		t.Errorf("january aggregate wrong: %+v", jan)
	}
	janEnd := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !jan.Timestamp.Equal(janEnd) {
		t.Errorf("january timestamp: got %v, want %v", jan.Timestamp, janEnd)
	}

	feb := out[1]
	if feb.Open != 13 || feb.Close != 14 || feb.Volume != 300 {
		t.Errorf("february aggregate wrong: %+v", feb)
	}
}

func TestResampleQuarterly(t *testing.T) {
	bars := []models.Bar{
		dailyBar(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 10, 12, 9, 11, 100),
		dailyBar(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 11, 16, 10, 15, 200),
		dailyBar(time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), 15, 17, 14, 16, 300),
	}
	out, err := Resample(bars, models.TimeframeQuarterly)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 quarterly bars, got %d", len(out))
	}

	q1 := out[0]
	if q1.Open != 10 || q1.High != 16 || q1.Low != 9 || q1.Close != 15 || q1.Volume != 300 {
		t.Errorf("Q1 aggregate wrong: %+v", q1)
	}
	q1End := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if !q1.Timestamp.Equal(q1End) {
		t.Errorf("Q1 timestamp: got %v, want %v", q1.Timestamp, q1End)
	}
}

func TestResampleEmptyInput(t *testing.T) {
	out, err := Resample(nil, models.TimeframeWeekly)
	if err != nil {
		t.Fatalf("Resample returned error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d bars", len(out))
	}
}

func TestResampleUnsupportedTimeframe(t *testing.T) {
	_, err := Resample(fullWeek(), models.Timeframe("5Y"))
	if !errors.Is(err, ErrUnsupportedTimeframe) {
		t.Errorf("expected ErrUnsupportedTimeframe, got %v", err)
	}
}
