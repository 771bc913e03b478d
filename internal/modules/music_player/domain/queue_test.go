package domain

import (
	"errors"
	"strconv"
	"testing"
)

func newTestTracks(n int) []*Track {
	tracks := make([]*Track, n)
	for i := range tracks {
		id := strconv.Itoa(i + 1)
		tracks[i] = &Track{
			ID:   TrackID("track-" + id),
			Info: TrackInfo{Title: "Song " + id, Author: "Artist"},
		}
	}
	return tracks
}

func queueOf(tracks ...*Track) *Queue {
	q := NewQueue()
	q.AppendMany(tracks)
	return q
}

func idsOf(tracks []*Track) []TrackID {
	ids := make([]TrackID, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func equalIDs(a, b []TrackID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q == nil {
		t.Fatal("NewQueue returned nil")
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got length %d", q.Len())
	}
	if !q.IsEmpty() {
		t.Error("new queue should be empty")
	}
}

func TestQueue_AppendAndAppendMany(t *testing.T) {
	tracks := newTestTracks(3)
	q := NewQueue()

	q.Append(tracks[0])
	q.AppendMany(tracks[1:])

	if got := idsOf(q.PeekAll()); !equalIDs(got, idsOf(tracks)) {
		t.Errorf("expected %v, got %v", idsOf(tracks), got)
	}
}

func TestQueue_PushFrontAndPopFront(t *testing.T) {
	tracks := newTestTracks(3)
	q := queueOf(tracks[1], tracks[2])

	q.PushFront(tracks[0])
	if q.Len() != 3 {
		t.Fatalf("expected length 3, got %d", q.Len())
	}

	for i, want := range tracks {
		got, ok := q.PopFront()
		if !ok {
			t.Fatalf("pop %d: expected a track", i)
		}
		if got != want {
			t.Errorf("pop %d: expected %s, got %s", i, want.ID, got.ID)
		}
	}

	if got, ok := q.PopFront(); ok || got != nil {
		t.Errorf("expected empty pop, got %v, %v", got, ok)
	}
}

func TestQueue_RemoveAt(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		index   int
		wantErr error
		wantIDs []TrackID
	}{
		{
			name:    "remove head",
			length:  3,
			index:   1,
			wantIDs: []TrackID{"track-2", "track-3"},
		},
		{
			name:    "remove middle",
			length:  3,
			index:   2,
			wantIDs: []TrackID{"track-1", "track-3"},
		},
		{
			name:    "remove tail",
			length:  3,
			index:   3,
			wantIDs: []TrackID{"track-1", "track-2"},
		},
		{
			name:    "zero index",
			length:  3,
			index:   0,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{"track-1", "track-2", "track-3"},
		},
		{
			name:    "index past end",
			length:  3,
			index:   4,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{"track-1", "track-2", "track-3"},
		},
		{
			name:    "empty queue",
			length:  0,
			index:   1,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := newTestTracks(tt.length)
			q := queueOf(tracks...)

			removed, err := q.RemoveAt(tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && removed != tracks[tt.index-1] {
				t.Errorf("expected removed %s, got %v", tracks[tt.index-1].ID, removed)
			}
			if got := idsOf(q.PeekAll()); !equalIDs(got, tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, got)
			}
		})
	}
}

func TestQueue_SwapAt(t *testing.T) {
	tests := []struct {
		name    string
		i, j    int
		wantErr error
		wantIDs []TrackID
	}{
		{
			name:    "swap first and last",
			i:       1,
			j:       4,
			wantIDs: []TrackID{"track-4", "track-2", "track-3", "track-1"},
		},
		{
			name:    "swap adjacent",
			i:       3,
			j:       2,
			wantIDs: []TrackID{"track-1", "track-3", "track-2", "track-4"},
		},
		{
			name:    "same index",
			i:       2,
			j:       2,
			wantErr: ErrSameIndex,
			wantIDs: []TrackID{"track-1", "track-2", "track-3", "track-4"},
		},
		{
			name:    "first out of range",
			i:       0,
			j:       2,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{"track-1", "track-2", "track-3", "track-4"},
		},
		{
			name:    "second out of range",
			i:       1,
			j:       5,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{"track-1", "track-2", "track-3", "track-4"},
		},
		{
			name:    "out of range wins over same index",
			i:       9,
			j:       9,
			wantErr: ErrIndexOutOfRange,
			wantIDs: []TrackID{"track-1", "track-2", "track-3", "track-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := newTestTracks(4)
			q := queueOf(tracks...)

			first, second, err := q.SwapAt(tt.i, tt.j)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil {
				if first != tracks[tt.i-1] || second != tracks[tt.j-1] {
					t.Errorf("expected swapped tracks %s and %s, got %s and %s",
						tracks[tt.i-1].ID, tracks[tt.j-1].ID, first.ID, second.ID)
				}
			}
			if got := idsOf(q.PeekAll()); !equalIDs(got, tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, got)
			}
		})
	}
}

func TestQueue_SwapAtIsInvolution(t *testing.T) {
	tracks := newTestTracks(5)
	q := queueOf(tracks...)
	original := idsOf(q.PeekAll())

	for i := 1; i <= 5; i++ {
		for j := 1; j <= 5; j++ {
			if i == j {
				continue
			}
			if _, _, err := q.SwapAt(i, j); err != nil {
				t.Fatalf("swap(%d, %d): %v", i, j, err)
			}
			if _, _, err := q.SwapAt(i, j); err != nil {
				t.Fatalf("swap back(%d, %d): %v", i, j, err)
			}
			if got := idsOf(q.PeekAll()); !equalIDs(got, original) {
				t.Fatalf("swap(%d, %d) twice: expected %v, got %v", i, j, original, got)
			}
		}
	}
}

func TestQueue_Shuffle(t *testing.T) {
	t.Run("preserves contents", func(t *testing.T) {
		tracks := newTestTracks(20)
		q := queueOf(tracks...)

		q.Shuffle()

		if q.Len() != len(tracks) {
			t.Fatalf("expected length %d, got %d", len(tracks), q.Len())
		}
		seen := make(map[TrackID]int)
		for _, track := range q.PeekAll() {
			seen[track.ID]++
		}
		for _, track := range tracks {
			if seen[track.ID] != 1 {
				t.Errorf("expected %s exactly once, got %d", track.ID, seen[track.ID])
			}
		}
	})

	t.Run("empty queue", func(t *testing.T) {
		q := NewQueue()
		q.Shuffle()
		if q.Len() != 0 {
			t.Errorf("expected empty queue, got %d", q.Len())
		}
	})

	t.Run("single track", func(t *testing.T) {
		tracks := newTestTracks(1)
		q := queueOf(tracks...)
		q.Shuffle()
		if got := q.PeekAll(); len(got) != 1 || got[0] != tracks[0] {
			t.Errorf("expected single track unchanged, got %v", got)
		}
	})
}

func TestQueue_Replace(t *testing.T) {
	tracks := newTestTracks(3)
	q := queueOf(tracks...)

	reordered := []*Track{tracks[2], tracks[0]}
	q.Replace(reordered)

	// Mutating the argument must not leak into the queue.
	reordered[0] = tracks[1]

	want := []TrackID{"track-3", "track-1"}
	if got := idsOf(q.PeekAll()); !equalIDs(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	q.Replace(nil)
	if !q.IsEmpty() {
		t.Errorf("expected empty queue after Replace(nil), got %d", q.Len())
	}
}

func TestQueue_Clear(t *testing.T) {
	q := queueOf(newTestTracks(2)...)

	count, err := q.Clear()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected cleared count 2, got %d", count)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after Clear, got length %d", q.Len())
	}

	count, err = q.Clear()
	if !errors.Is(err, ErrAlreadyEmpty) {
		t.Errorf("expected ErrAlreadyEmpty, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected cleared count 0 for empty queue, got %d", count)
	}
}

func TestQueue_PeekAllReturnsCopy(t *testing.T) {
	tracks := newTestTracks(2)
	q := queueOf(tracks...)

	list := q.PeekAll()
	list[0] = nil

	if got, _ := q.At(1); got != tracks[0] {
		t.Error("modifying PeekAll result affected queue")
	}
}
