package clock

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	c := NewManual(start)

	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(90*time.Second))
	}

	later := start.AddDate(0, 0, 3)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	c := Fixed(at)
	if !c.Now().Equal(at) || !c.Now().Equal(at) {
		t.Error("Fixed clock should always report the same instant")
	}
}

func TestRealUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	if got := New(tokyo).Now().Location(); got != tokyo {
		t.Errorf("Now().Location() = %v, want %v", got, tokyo)
	}
	if got := New(nil).Now().Location(); got != time.Local {
		t.Errorf("Now().Location() = %v, want Local", got)
	}
}
