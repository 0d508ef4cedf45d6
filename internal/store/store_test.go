// ABOUTME: Tests for the symptom store contract
// ABOUTME: Round-trip, ordering, projections, cascading deletes and live queries
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/watch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func strp(s string) *string { return &s }

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "symptoms.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entryAt(millis int64, bodyPart string) db.Entry {
	return db.Entry{
		Severity:       5,
		PainType:       "Pochend",
		DateTimeMillis: millis,
		BodyPart:       strp(bodyPart),
	}
}

func next[T any](t *testing.T, sub *watch.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
	}
	var zero T
	return zero
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	created := time.UnixMilli(1_760_000_000_000)
	s := newTestStore(t, WithClock(func() time.Time { return created }))

	hr := 72
	entry := db.Entry{
		Severity:       8,
		PainType:       "Stechend",
		DateTimeMillis: 1_759_990_000_000,
		Medication:     "Ibuprofen",
		Dosage:         strp("400mg"),
		Trigger:        "Wetter",
		Note:           "seit dem Morgen",
		HeartRate:      &hr,
		BloodPressure:  strp("130/85"),
		BodyPart:       strp("Kopf"),
	}

	id, err := s.InsertEntry(ctx, entry)
	require.NoError(t, err)

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	want := entry
	want.ID = id
	want.CreatedAt = created.UnixMilli()
	assert.Equal(t, want, entries[0])
}

func TestOrderingAndTieBreak(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, e := range []db.Entry{
		entryAt(100, "a"), entryAt(300, "b"), entryAt(200, "c"), entryAt(300, "d"),
	} {
		_, err := s.InsertEntry(ctx, e)
		require.NoError(t, err)
	}

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		got = append(got, *e.BodyPart)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, got)
}

func TestIndexExclusion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertEntry(ctx, db.Entry{Severity: 1, PainType: "Dumpf", BodyPart: strp(""), Medication: "", Dosage: strp("5mg")})
	require.NoError(t, err)
	_, err = s.InsertEntry(ctx, db.Entry{Severity: 1, PainType: "Dumpf"})
	require.NoError(t, err)

	parts, err := s.DistinctBodyParts(ctx)
	require.NoError(t, err)
	assert.Empty(t, parts)

	meds, err := s.DistinctMedications(ctx)
	require.NoError(t, err)
	assert.Empty(t, meds)

	dosages, err := s.DosagesForMedication(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, dosages)
}

func TestCascadingDeleteByBodyPart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertEntry(ctx, entryAt(1, "Kopf"))
	require.NoError(t, err)
	_, err = s.InsertEntry(ctx, entryAt(2, "Kopf"))
	require.NoError(t, err)
	cID, err := s.InsertEntry(ctx, entryAt(3, "Rücken"))
	require.NoError(t, err)

	removed, err := s.DeleteEntriesByBodyPart(ctx, "Kopf")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, cID, entries[0].ID)

	parts, err := s.DistinctBodyParts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rücken"}, parts)
}

func TestCascadingDeleteByMedication(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, med := range []string{"Ibuprofen", "Ibuprofen", "Paracetamol"} {
		e := entryAt(1, "Knie")
		e.Medication = med
		e.Dosage = strp("1")
		_, err := s.InsertEntry(ctx, e)
		require.NoError(t, err)
	}

	removed, err := s.DeleteEntriesByMedication(ctx, "Ibuprofen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	meds, err := s.DistinctMedications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paracetamol"}, meds)

	dosages, err := s.DosagesForMedication(ctx, "Ibuprofen")
	require.NoError(t, err)
	assert.Empty(t, dosages)

	// Unknown value removes nothing and is not an error
	removed, err = s.DeleteEntriesByMedication(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestDosageScoping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, pair := range [][2]string{
		{"Ibuprofen", "400mg"}, {"Ibuprofen", "200mg"}, {"Paracetamol", "500mg"},
	} {
		e := entryAt(1, "Kopf")
		e.Medication = pair[0]
		e.Dosage = strp(pair[1])
		_, err := s.InsertEntry(ctx, e)
		require.NoError(t, err)
	}

	dosages, err := s.DosagesForMedication(ctx, "Ibuprofen")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"400mg", "200mg"}, dosages)
}

func TestIdempotentDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	keep, err := s.InsertEntry(ctx, entryAt(1, "Kopf"))
	require.NoError(t, err)
	gone, err := s.InsertEntry(ctx, entryAt(2, "Kopf"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, gone))
	after, err := s.ListEntries(ctx)
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, gone))
	again, err := s.ListEntries(ctx)
	require.NoError(t, err)

	assert.Equal(t, after, again)
	require.Len(t, again, 1)
	assert.Equal(t, keep, again[0].ID)
}

func TestLiveUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertEntry(ctx, entryAt(100, "Kopf"))
	require.NoError(t, err)

	sub, err := s.WatchAllEntries(ctx)
	require.NoError(t, err)

	r1 := next(t, sub)
	require.Len(t, r1, 1)

	newID, err := s.InsertEntry(ctx, entryAt(200, "Bauch"))
	require.NoError(t, err)

	r2 := next(t, sub)
	require.Len(t, r2, 2)
	assert.Equal(t, newID, r2[0].ID)
	assert.Equal(t, r1[0], r2[1])

	sub.Close()

	_, err = s.InsertEntry(ctx, entryAt(300, "Knie"))
	require.NoError(t, err)

	_, ok := <-sub.C()
	assert.False(t, ok, "no emission after unsubscribe")
}

func TestWatchKnownValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	parts, err := s.WatchDistinctBodyParts(ctx)
	require.NoError(t, err)
	defer parts.Close()
	meds, err := s.WatchDistinctMedications(ctx)
	require.NoError(t, err)
	defer meds.Close()
	ibu, err := s.WatchDosagesForMedication(ctx, "Ibuprofen")
	require.NoError(t, err)
	defer ibu.Close()

	assert.Empty(t, next(t, parts))
	assert.Empty(t, next(t, meds))
	assert.Empty(t, next(t, ibu))

	e := entryAt(1, "Kopf")
	e.Medication = "Ibuprofen"
	e.Dosage = strp("400mg")
	_, err = s.InsertEntry(ctx, e)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kopf"}, next(t, parts))
	assert.Equal(t, []string{"Ibuprofen"}, next(t, meds))
	assert.Equal(t, []string{"400mg"}, next(t, ibu))

	// Unrelated medication still triggers a re-emission with the same result
	other := entryAt(2, "Kopf")
	other.Medication = "Paracetamol"
	other.Dosage = strp("500mg")
	_, err = s.InsertEntry(ctx, other)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kopf"}, next(t, parts))
	assert.Equal(t, []string{"Ibuprofen", "Paracetamol"}, next(t, meds))
	assert.Equal(t, []string{"400mg"}, next(t, ibu))

	_, err = s.DeleteEntriesByBodyPart(ctx, "Kopf")
	require.NoError(t, err)

	assert.Empty(t, next(t, parts))
	assert.Empty(t, next(t, meds))
	assert.Empty(t, next(t, ibu))
}

func TestWatchSubscribersReceiveIndependentValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertEntry(ctx, entryAt(1, "Kopf"))
	require.NoError(t, err)

	first, err := s.WatchDistinctBodyParts(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := s.WatchDistinctBodyParts(ctx)
	require.NoError(t, err)
	defer second.Close()

	next(t, first)[0] = "MUTATED"
	assert.Equal(t, []string{"Kopf"}, next(t, second))

	_, err = s.InsertEntry(ctx, entryAt(2, "Knie"))
	require.NoError(t, err)

	next(t, first)[0] = "MUTATED"
	assert.Equal(t, []string{"Knie", "Kopf"}, next(t, second))
}

func TestConcurrentWritersAndWatchers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.WatchAllEntries(ctx)
	require.NoError(t, err)
	defer sub.Close()
	next(t, sub)

	const writers, perWriter = 4, 10
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := s.InsertEntry(ctx, entryAt(int64(w*100+i), "Kopf"))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	// One emission per committed write, each strictly larger than the last
	prev := 0
	for i := 0; i < writers*perWriter; i++ {
		got := next(t, sub)
		assert.Equal(t, prev+1, len(got))
		prev = len(got)
	}
	assert.Equal(t, uint64(writers*perWriter), s.Stats().Publishes)
}

func TestCancelledContextStillWrites(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.InsertEntry(ctx, entryAt(1, "Kopf"))
	require.NoError(t, err)

	count, err := s.CountEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.InsertEntry(ctx, entryAt(1, "Kopf"))
	require.NoError(t, err)

	// Make the table read-only underneath the store
	_, err = s.db.Exec(`CREATE TRIGGER block_writes BEFORE INSERT ON symptom_entries
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	_, err = s.InsertEntry(ctx, entryAt(2, "Knie"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrWriteFailure))

	count, err := s.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := Open(filepath.Join(blocker, "symptoms.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStorageUnavailable)
}

func TestCloseEndsWatches(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "symptoms.db"))
	require.NoError(t, err)

	sub, err := s.WatchDistinctBodyParts(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	for range sub.C() {
	}
}
