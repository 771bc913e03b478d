package domain

import (
	"slices"

	"github.com/samber/lo/mutable"
)

// Queue holds the tracks waiting to be played in one guild.
// The currently playing track is not part of the Queue.
//
// Queue is not safe for concurrent use; it is owned by a single player context.
// Indexes accepted and returned by its methods are 1-based.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() *Queue {
	return &Queue{
		tracks: make([]*Track, 0),
	}
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue) validIndex(index int) bool {
	return 1 <= index && index <= q.Len()
}

// Append adds a track to the tail of the queue.
func (q *Queue) Append(track *Track) {
	q.tracks = append(q.tracks, track)
}

// AppendMany adds tracks to the tail of the queue in order.
func (q *Queue) AppendMany(tracks []*Track) {
	q.tracks = append(q.tracks, tracks...)
}

// PushFront inserts a track at the head of the queue.
func (q *Queue) PushFront(track *Track) {
	q.tracks = slices.Insert(q.tracks, 0, track)
}

// PopFront removes and returns the head of the queue.
func (q *Queue) PopFront() (*Track, bool) {
	if q.IsEmpty() {
		return nil, false
	}
	head := q.tracks[0]
	q.tracks[0] = nil
	q.tracks = q.tracks[1:]
	return head, true
}

// At returns the track at the given 1-based index.
func (q *Queue) At(index int) (*Track, error) {
	if !q.validIndex(index) {
		return nil, ErrIndexOutOfRange
	}
	return q.tracks[index-1], nil
}

// RemoveAt removes and returns the track at the given 1-based index.
func (q *Queue) RemoveAt(index int) (*Track, error) {
	if !q.validIndex(index) {
		return nil, ErrIndexOutOfRange
	}
	removed := q.tracks[index-1]
	q.tracks = slices.Delete(q.tracks, index-1, index)
	return removed, nil
}

// SwapAt exchanges the tracks at the given 1-based indexes and returns them
// as they were before the swap.
func (q *Queue) SwapAt(i, j int) (*Track, *Track, error) {
	if !q.validIndex(i) || !q.validIndex(j) {
		return nil, nil, ErrIndexOutOfRange
	}
	if i == j {
		return nil, nil, ErrSameIndex
	}

	reordered := q.PeekAll()
	reordered[i-1], reordered[j-1] = reordered[j-1], reordered[i-1]
	first, second := q.tracks[i-1], q.tracks[j-1]
	q.Replace(reordered)

	return first, second, nil
}

// Replace substitutes the whole backing sequence.
func (q *Queue) Replace(tracks []*Track) {
	q.tracks = slices.Clone(tracks)
	if q.tracks == nil {
		q.tracks = make([]*Track, 0)
	}
}

// Shuffle reorders the queue with a uniformly random permutation.
func (q *Queue) Shuffle() {
	if q.Len() < 2 {
		return
	}
	shuffled := q.PeekAll()
	mutable.Shuffle(shuffled)
	q.Replace(shuffled)
}

// Clear empties the queue and returns how many tracks were removed.
// Clearing an empty queue reports ErrAlreadyEmpty.
func (q *Queue) Clear() (int, error) {
	if q.IsEmpty() {
		return 0, ErrAlreadyEmpty
	}
	n := q.Len()
	q.tracks = make([]*Track, 0)
	return n, nil
}

// PeekAll returns an ordered snapshot of the queued tracks.
func (q *Queue) PeekAll() []*Track {
	return slices.Clone(q.tracks)
}
