package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiermolinar/courtside/internal/slot"
)

var madrid = mustLoad("Europe/Madrid")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 3600)
	}
	return loc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, madrid)
}

func TestRecordNormalize(t *testing.T) {
	t.Run("same day booking", func(t *testing.T) {
		rec := Record{
			ID:         "b1",
			ResourceID: "court-1",
			Start:      time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
			Details:    Details{Status: StatusConfirmed},
		}

		b, err := rec.Normalize(madrid)
		require.NoError(t, err)
		assert.Equal(t, "14:00", b.StartTime)
		assert.Equal(t, "15:30", b.EndTime)
		assert.True(t, b.Date.Equal(day(2025, 3, 10)))
		assert.Nil(t, b.EndDate)
		assert.False(t, b.IsOvernight())
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("crosses local midnight", func(t *testing.T) {
		rec := Record{
			ID:         "b2",
			ResourceID: "court-1",
			Start:      time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
		}

		b, err := rec.Normalize(madrid)
		require.NoError(t, err)
		assert.Equal(t, "23:00", b.StartTime)
		assert.Equal(t, "00:30", b.EndTime)
		require.NotNil(t, b.EndDate)
		assert.True(t, b.EndDate.Equal(day(2025, 3, 11)))
		assert.True(t, b.IsOvernight())
		assert.Equal(t, 3, b.Slots())
	})

	t.Run("utc date differs from local date", func(t *testing.T) {
		rec := Record{
			ID:         "b3",
			ResourceID: "court-2",
			Start:      time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		}

		b, err := rec.Normalize(madrid)
		require.NoError(t, err)
		assert.True(t, b.Date.Equal(day(2025, 3, 11)))
		assert.Equal(t, "00:00", b.StartTime)
		assert.Equal(t, "01:00", b.EndTime)
		assert.False(t, b.IsOvernight())
	})

	t.Run("off grid minutes are malformed", func(t *testing.T) {
		rec := Record{
			ID:         "b4",
			ResourceID: "court-1",
			Start:      time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC),
			End:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		}

		_, err := rec.Normalize(madrid)
		assert.ErrorIs(t, err, slot.ErrMalformedTime)
	})

	t.Run("end before start", func(t *testing.T) {
		rec := Record{
			ID:         "b5",
			ResourceID: "court-1",
			Start:      time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		}

		_, err := rec.Normalize(madrid)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestDraftNormalize(t *testing.T) {
	next := day(2025, 3, 11)
	same := day(2025, 3, 10)

	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{
			name:  "plain",
			draft: Draft{StartTime: "10:00", EndTime: "11:00"},
		},
		{
			name:  "overnight with end date",
			draft: Draft{StartTime: "23:00", EndTime: "00:30", Overnight: true, EndDate: &next},
		},
		{
			name:    "end not after start without flag",
			draft:   Draft{StartTime: "23:00", EndTime: "00:30"},
			wantErr: ErrContradictoryOvernight,
		},
		{
			name:    "flag without end date",
			draft:   Draft{StartTime: "23:00", EndTime: "00:30", Overnight: true},
			wantErr: ErrContradictoryOvernight,
		},
		{
			name:    "flag with same end date",
			draft:   Draft{StartTime: "23:00", EndTime: "00:30", Overnight: true, EndDate: &same},
			wantErr: ErrContradictoryOvernight,
		},
		{
			name:    "flag on a same-clock-day range",
			draft:   Draft{StartTime: "10:00", EndTime: "11:00", Overnight: true, EndDate: &next},
			wantErr: ErrContradictoryOvernight,
		},
		{
			name:    "end date without flag",
			draft:   Draft{StartTime: "10:00", EndTime: "11:00", EndDate: &next},
			wantErr: ErrContradictoryOvernight,
		},
		{
			name:    "off grid",
			draft:   Draft{StartTime: "10:10", EndTime: "11:00"},
			wantErr: slot.ErrMalformedTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			d.ID = "d1"
			d.ResourceID = "court-1"
			d.Date = same

			b, err := d.Normalize(madrid)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.Overnight, b.IsOvernight())
		})
	}
}

func TestIngestKeepsGoodRecords(t *testing.T) {
	good := Record{
		ID:         "ok",
		ResourceID: "court-1",
		Start:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	bad := Record{
		ID:         "bad",
		ResourceID: "court-1",
		Start:      time.Date(2025, 3, 10, 9, 20, 0, 0, time.UTC),
		End:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	draft := Draft{
		ID:         "draft",
		ResourceID: "court-2",
		Date:       day(2025, 3, 10),
		StartTime:  "18:00",
		EndTime:    "19:00",
	}

	bookings, rejected := Ingest([]Raw{FromRecord(good), FromRecord(bad), FromDraft(draft), {}}, madrid)

	require.Len(t, bookings, 2)
	assert.Equal(t, "ok", bookings[0].ID)
	assert.Equal(t, "draft", bookings[1].ID)

	require.Len(t, rejected, 2)
	assert.Equal(t, "bad", rejected[0].ID)
	assert.ErrorIs(t, rejected[0], slot.ErrMalformedTime)
	assert.True(t, errors.Is(rejected[1].Err, ErrUnknownRawBooking))
}

func TestBookingRecordRoundTrip(t *testing.T) {
	end := day(2025, 3, 11)
	b := &Booking{
		ID:         "b1",
		ResourceID: "court-1",
		Date:       day(2025, 3, 10),
		StartTime:  "23:00",
		EndTime:    "00:30",
		EndDate:    &end,
	}
	require.NoError(t, b.Validate())

	rec := b.Record()
	assert.Equal(t, time.UTC, rec.Start.Location())
	assert.Equal(t, 90*time.Minute, rec.End.Sub(rec.Start))

	back, err := rec.Normalize(madrid)
	require.NoError(t, err)
	assert.Equal(t, b.StartTime, back.StartTime)
	assert.Equal(t, b.EndTime, back.EndTime)
	assert.True(t, back.EndDate.Equal(end))
}

func TestClone(t *testing.T) {
	end := day(2025, 3, 11)
	b := &Booking{ID: "b1", EndDate: &end}
	c := b.Clone()
	*c.EndDate = day(2025, 3, 20)
	assert.True(t, b.EndDate.Equal(end))
}
