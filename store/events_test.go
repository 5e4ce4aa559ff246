package store_test

import (
	"os"
	"testing"
	"time"

	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

func TestEventJournal(t *testing.T) {
	path := "testdata/events"
	os.RemoveAll(path)
	defer os.RemoveAll(path)

	j := store.NewEventJournal(path)
	if err := j.Init(); err != nil {
		t.Fatalf("error init journal: %s\n", err)
	}
	defer j.Close()

	base := time.Now()
	events := []navguard.Event{
		{FlowID: "flow-1", Name: navguard.EvtIntercepted, TS: base, Details: map[string]interface{}{"url": "https://example.com"}},
		{FlowID: "flow-1", Name: navguard.EvtAnalysisOK, TS: base.Add(10 * time.Millisecond)},
		{FlowID: "flow-2", Name: navguard.EvtIntercepted, TS: base.Add(20 * time.Millisecond)},
	}
	for _, evt := range events {
		if err := j.Append(evt); err != nil {
			t.Fatalf("error appending %s: %s\n", evt.Name, err)
		}
	}

	walked := make([]navguard.Event, 0)
	err := j.Walk(func(evt navguard.Event) error {
		walked = append(walked, evt)
		return nil
	})
	if err != nil {
		t.Fatalf("error walking journal: %s\n", err)
	}
	if len(walked) != len(events) {
		t.Fatalf("expected %d events got %d\n", len(events), len(walked))
	}
	for i, evt := range walked {
		if evt.FlowID != events[i].FlowID || evt.Name != events[i].Name {
			t.Fatalf("event %d out of order: expected %s/%s got %s/%s\n",
				i, events[i].FlowID, events[i].Name, evt.FlowID, evt.Name)
		}
	}
	if walked[0].Details["url"] != "https://example.com" {
		t.Fatalf("details lost in round trip: %+v\n", walked[0].Details)
	}
}

func TestEventJournalStampsMissingTime(t *testing.T) {
	path := "testdata/events_ts"
	os.RemoveAll(path)
	defer os.RemoveAll(path)

	j := store.NewEventJournal(path)
	if err := j.Init(); err != nil {
		t.Fatalf("error init journal: %s\n", err)
	}
	defer j.Close()

	if err := j.Append(navguard.Event{FlowID: "flow-1", Name: navguard.EvtNavigate}); err != nil {
		t.Fatalf("error appending: %s\n", err)
	}
	err := j.Walk(func(evt navguard.Event) error {
		if evt.TS.IsZero() {
			t.Fatalf("append must stamp a missing timestamp\n")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("error walking journal: %s\n", err)
	}
}
