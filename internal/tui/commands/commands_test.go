package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/dateutil"
	"github.com/javiermolinar/courtside/internal/dragdrop"
	"github.com/javiermolinar/courtside/internal/llm"
)

type fakeStore struct {
	list   func(resourceIDs []string, from, to time.Time) ([]booking.Record, error)
	move   func(id, resourceID string, start, end time.Time) error
	cancel func(id string) error
}

func (f fakeStore) ListBookings(ctx context.Context, resourceIDs []string, from, to time.Time) ([]booking.Record, error) {
	if f.list == nil {
		return nil, errors.New("not implemented")
	}
	return f.list(resourceIDs, from, to)
}

func (f fakeStore) GetBooking(ctx context.Context, id string) (*booking.Record, error) {
	return nil, errors.New("not implemented")
}

func (f fakeStore) CreateBooking(ctx context.Context, rec *booking.Record) error {
	return errors.New("not implemented")
}

func (f fakeStore) MoveBooking(ctx context.Context, id, resourceID string, start, end time.Time) error {
	if f.move == nil {
		return errors.New("not implemented")
	}
	return f.move(id, resourceID, start, end)
}

func (f fakeStore) CancelBooking(ctx context.Context, id string) error {
	if f.cancel == nil {
		return errors.New("not implemented")
	}
	return f.cancel(id)
}

func (f fakeStore) Close() error {
	return nil
}

var day = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

func TestLoadRange(t *testing.T) {
	rec := booking.Record{
		ID: "b1", ResourceID: "A",
		Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour),
	}
	var gotResources []string
	store := fakeStore{list: func(ids []string, from, to time.Time) ([]booking.Record, error) {
		gotResources = ids
		return []booking.Record{rec}, nil
	}}

	rng := dateutil.DateRange{Start: day, End: day}
	msg := LoadRange(store, []string{"A"}, rng)()

	loaded, ok := msg.(RangeLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want RangeLoadedMsg", msg)
	}
	if loaded.Range != rng {
		t.Errorf("Range = %+v, want %+v", loaded.Range, rng)
	}
	if len(loaded.Records) != 1 || loaded.Records[0].ID != "b1" {
		t.Errorf("Records = %+v, want [b1]", loaded.Records)
	}
	if len(gotResources) != 1 || gotResources[0] != "A" {
		t.Errorf("resources = %v, want [A]", gotResources)
	}
}

func TestLoadRange_Error(t *testing.T) {
	store := fakeStore{list: func([]string, time.Time, time.Time) ([]booking.Record, error) {
		return nil, errors.New("boom")
	}}

	msg := LoadRange(store, nil, dateutil.DateRange{Start: day, End: day})()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("msg = %T, want ErrMsg", msg)
	}
}

func TestMoveBooking(t *testing.T) {
	a := dragdrop.Assignment{
		BookingID:  "b1",
		ResourceID: "B",
		Start:      day.Add(18 * time.Hour),
		End:        day.Add(19 * time.Hour),
	}

	tests := []struct {
		name    string
		moveErr error
	}{
		{name: "accepted", moveErr: nil},
		{name: "rejected", moveErr: booking.ErrMutationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID, gotResource string
			store := fakeStore{move: func(id, resourceID string, start, end time.Time) error {
				gotID, gotResource = id, resourceID
				return tt.moveErr
			}}

			msg := MoveBooking(store, a)()
			settled, ok := msg.(MoveSettledMsg)
			if !ok {
				t.Fatalf("msg = %T, want MoveSettledMsg", msg)
			}
			if !errors.Is(settled.Err, tt.moveErr) || (tt.moveErr == nil && settled.Err != nil) {
				t.Errorf("Err = %v, want %v", settled.Err, tt.moveErr)
			}
			if settled.Assignment.BookingID != "b1" {
				t.Errorf("Assignment = %+v", settled.Assignment)
			}
			if gotID != "b1" || gotResource != "B" {
				t.Errorf("store got (%q, %q), want (b1, B)", gotID, gotResource)
			}
		})
	}
}

func TestCancelBooking(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "cancelled", err: nil, want: "BookingCancelledMsg"},
		{name: "already cancelled", err: booking.ErrAlreadyCancelled, want: "StatusMsgCmd"},
		{name: "store error", err: errors.New("boom"), want: "ErrMsg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := fakeStore{cancel: func(string) error { return tt.err }}
			msg := CancelBooking(store, "b1")()

			var got string
			switch msg.(type) {
			case BookingCancelledMsg:
				got = "BookingCancelledMsg"
			case StatusMsgCmd:
				got = "StatusMsgCmd"
			case ErrMsg:
				got = "ErrMsg"
			}
			if got != tt.want {
				t.Fatalf("msg = %T, want %s", msg, tt.want)
			}
		})
	}
}

func TestAsk_UnsupportedProvider(t *testing.T) {
	msg := Ask(config.LLMConfig{Provider: "carrier-pigeon", Model: "x"}, llm.FilterRequest{Question: "free courts tonight"})()
	if _, ok := msg.(ErrMsg); !ok {
		t.Fatalf("msg = %T, want ErrMsg", msg)
	}
}
