package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/traffic-signal-mcp/internal/signal"
)

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Log: zerolog.New(&buf)}

	c := signal.Candidate{Center: image.Pt(10, 20), Radius: 25}
	report := Report{FrameID: 4, FrameName: "x.png", State: "STOP & WAIT", Labels: []string{"STOP", "WAIT"}, Ambiguous: true, Candidate: &c}

	if err := sink.Send(context.Background(), report); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if entry["level"] != "warn" {
		t.Errorf("ambiguous state should log at warn, got %v", entry["level"])
	}
	if entry["state"] != "STOP & WAIT" || entry["radius"] != float64(25) {
		t.Errorf("unexpected fields: %v", entry)
	}
}

func TestMultiSink(t *testing.T) {
	var got []string
	first := SinkFunc(func(_ context.Context, r Report) error {
		got = append(got, "first:"+string(r.State))
		return errors.New("first failed")
	})
	second := SinkFunc(func(_ context.Context, r Report) error {
		got = append(got, "second:"+string(r.State))
		return nil
	})

	err := MultiSink{first, second}.Send(context.Background(), Report{State: signal.StateGo})
	if err == nil {
		t.Error("expected the first sink's error")
	}
	if len(got) != 2 || got[0] != "first:GO" || got[1] != "second:GO" {
		t.Errorf("sinks called: %v", got)
	}
}

func TestNewReport(t *testing.T) {
	c := signal.Candidate{Center: image.Pt(50, 40), Radius: 20}
	res := &signal.Result{
		State:     signal.StateGo,
		Candidate: &c,
		ROI:       image.Rect(30, 20, 70, 60),
		Ratios:    signal.ColorRatios{Green: 0.8},
		Detected:  3,
		Rejected:  1,
	}

	r := NewReport("s1", &Frame{ID: 9, Name: "n"}, res, 1500*time.Microsecond)

	if r.Session != "s1" || r.FrameID != 9 || r.FrameName != "n" {
		t.Errorf("identity fields: %+v", r)
	}
	if r.ROI == nil || *r.ROI != (signal.Region{X: 30, Y: 20, Width: 40, Height: 40}) {
		t.Errorf("ROI: got %+v", r.ROI)
	}
	if r.LatencyMS != 1.5 {
		t.Errorf("LatencyMS: got %f, want 1.5", r.LatencyMS)
	}
	if r.Ambiguous || len(r.Labels) != 1 {
		t.Errorf("labels: %v ambiguous=%v", r.Labels, r.Ambiguous)
	}

	none := NewReport("s1", &Frame{ID: 1}, &signal.Result{State: signal.StateNoSignal}, 0)
	if none.ROI != nil || none.Candidate != nil || none.Labels != nil {
		t.Errorf("NO SIGNAL report should carry no candidate data: %+v", none)
	}
}
