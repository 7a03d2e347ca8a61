package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchalloc/batchalloc/alloc"
	"github.com/batchalloc/batchalloc/alloc/roster"
	"github.com/batchalloc/batchalloc/alloc/trace"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}

const profileYAML = `strategy: key-asc
seed: 7
batches:
  - {name: Morning, capacity: 2}
  - {name: Evening, capacity: 1}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func seededRoster(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "students.csv", roster.Header+"\n"+
		"S3,Carol,60,-1\n"+
		"S1,Alice,90,-1\n"+
		"S2,Bob,70,-1\n"+
		"S4,Dan,50,-1\n")
}

func TestOpenSession_MissingRoster_StartsEmpty(t *testing.T) {
	var out bytes.Buffer
	s, err := openSession(context.Background(), &out, filepath.Join(t.TempDir(), "new.csv"), "")
	require.NoError(t, err)

	assert.Equal(t, 0, s.store.NumStudents())
	assert.Equal(t, 0, s.store.NumBatches())
	assert.Empty(t, out.String())
}

func TestOpenSession_LoadsRosterThenAddsProfileBatches(t *testing.T) {
	// GIVEN a roster and a profile with two batches
	dir := t.TempDir()
	path := seededRoster(t, dir)
	profile := writeFile(t, dir, "profile.yaml", profileYAML)

	// WHEN a session is opened
	var out bytes.Buffer
	s, err := openSession(context.Background(), &out, path, profile)
	require.NoError(t, err)

	// THEN students are loaded and the batches exist, in file order
	assert.Contains(t, out.String(), "Loaded 4 students from "+path)
	assert.Equal(t, 4, s.store.NumStudents())
	views := s.store.Batches()
	require.Len(t, views, 2)
	assert.Equal(t, "Morning", views[0].Name)
	assert.Equal(t, "Evening", views[1].Name)
}

func TestOpenSession_InvalidProfile(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "bad.yaml", "strategy: fastest\n")

	_, err := openSession(context.Background(), &bytes.Buffer{}, filepath.Join(dir, "r.csv"), profile)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fastest")
}

func TestOpenSession_RosterOverProfileLimit(t *testing.T) {
	dir := t.TempDir()
	path := seededRoster(t, dir)
	profile := writeFile(t, dir, "small.yaml", "limits: {max_students: 2}\n")

	_, err := openSession(context.Background(), &bytes.Buffer{}, path, profile)

	assert.True(t, errors.Is(err, alloc.ErrResourceExhausted), "got %v", err)
}

func TestSession_AllocateAndSave(t *testing.T) {
	// GIVEN a session whose profile holds 3 seats for 4 students
	dir := t.TempDir()
	path := seededRoster(t, dir)
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	var out bytes.Buffer
	s, err := openSession(context.Background(), &out, path, profile)
	require.NoError(t, err)

	// WHEN allocated with the profile strategy (key-asc) and saved elsewhere
	res, err := s.allocate(&out, allocOptions{})
	require.NoError(t, err)
	dest := filepath.Join(dir, "allocated.csv")
	require.NoError(t, s.save(&out, dest))

	// THEN S1,S2,S3 are dealt out and S4 is left over
	assert.Equal(t, alloc.Placement{Placed: 3, Unplaced: 1, Halted: true}, res)
	assert.Contains(t, out.String(), "Not enough capacity: 1 students left unallocated.")
	assert.Contains(t, out.String(), "Saved 4 students to "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, roster.Header+"\n"+
		"S3,Carol,60,0\n"+
		"S1,Alice,90,0\n"+
		"S2,Bob,70,1\n"+
		"S4,Dan,50,-1\n", string(data))
}

func TestSession_Allocate_UnknownStrategy(t *testing.T) {
	s, err := openSession(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "r.csv"), "")
	require.NoError(t, err)

	_, err = s.allocate(&bytes.Buffer{}, allocOptions{Strategy: "best", StrategySet: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "best")
}

func TestSession_Allocate_NoBatches(t *testing.T) {
	dir := t.TempDir()
	s, err := openSession(context.Background(), &bytes.Buffer{}, seededRoster(t, dir), "")
	require.NoError(t, err)

	_, err = s.allocate(&bytes.Buffer{}, allocOptions{})

	assert.True(t, errors.Is(err, alloc.ErrInvalidInput), "got %v", err)
}

func TestAllocOptions_Resolve_Precedence(t *testing.T) {
	profileSeed := int64(7)
	cfg := &alloc.Config{Strategy: alloc.StrategyRandom, Seed: &profileSeed}

	t.Run("profile values when flags unset", func(t *testing.T) {
		strat, sd := allocOptions{Strategy: "ignored", Seed: 99}.resolve(cfg)
		assert.Equal(t, alloc.StrategyRandom, strat)
		assert.Equal(t, int64(7), sd)
	})
	t.Run("explicit flags win", func(t *testing.T) {
		strat, sd := allocOptions{Strategy: alloc.StrategyNameAsc, StrategySet: true, Seed: 0, SeedSet: true}.resolve(cfg)
		assert.Equal(t, alloc.StrategyNameAsc, strat)
		assert.Equal(t, int64(0), sd)
	})
	t.Run("empty profile falls back to score-desc", func(t *testing.T) {
		strat, _ := allocOptions{}.resolve(&alloc.Config{})
		assert.Equal(t, alloc.StrategyScoreDesc, strat)
	})
}

func TestSession_Allocate_SameSeedSameRoster(t *testing.T) {
	run := func() string {
		dir := t.TempDir()
		path := seededRoster(t, dir)
		profile := writeFile(t, dir, "p.yaml", "batches:\n  - {name: A, capacity: 2}\n  - {name: B, capacity: 2}\n")
		s, err := openSession(context.Background(), &bytes.Buffer{}, path, profile)
		require.NoError(t, err)
		_, err = s.allocate(&bytes.Buffer{}, allocOptions{Strategy: alloc.StrategyRandom, StrategySet: true, Seed: 31, SeedSet: true})
		require.NoError(t, err)
		return string(roster.Encode(s.store.Students()))
	}
	assert.Equal(t, run(), run())
}

func TestShowStudent(t *testing.T) {
	store := alloc.NewStore(alloc.Limits{})
	_, err := store.AddBatch("Morning", 1)
	require.NoError(t, err)
	require.NoError(t, store.AddStudent("S1", "Alice", 90))
	require.NoError(t, store.AddStudent("S2", "Bob", 70))
	_, err = store.Run(alloc.ScoreDescending{}, nil)
	require.NoError(t, err)

	t.Run("allocated", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showStudent(&out, store, "S1"))
		assert.Contains(t, out.String(), "Name  : Alice")
		assert.Contains(t, out.String(), "Batch : Morning (index 0)")
	})
	t.Run("unallocated", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showStudent(&out, store, "S2"))
		assert.Contains(t, out.String(), "Batch : not allocated")
	})
	t.Run("unknown key", func(t *testing.T) {
		err := showStudent(&bytes.Buffer{}, store, "S9")
		assert.True(t, errors.Is(err, alloc.ErrNotFound))
		assert.Contains(t, err.Error(), "S9")
	})
}

func TestShowStudent_CarriedIndexWithoutBatch(t *testing.T) {
	store := alloc.NewStore(alloc.Limits{})
	require.NoError(t, store.Restore([]alloc.Student{{Key: "S1", Name: "Alice", Score: 90, Batch: 4}}))

	var out bytes.Buffer
	require.NoError(t, showStudent(&out, store, "S1"))

	assert.Contains(t, out.String(), "Batch : index 4 (not defined in this session)")
}

func TestSavedMembership(t *testing.T) {
	batches := []alloc.BatchView{
		{Index: 0, Name: "A", Capacity: 2},
		{Index: 1, Name: "B", Capacity: 2},
	}
	students := []alloc.Student{
		{Key: "S1", Batch: 1},
		{Key: "S2", Batch: alloc.NoBatch},
		{Key: "S3", Batch: 1},
		{Key: "S4", Batch: 7},
	}

	got := savedMembership(batches, students)

	assert.Empty(t, got[0].MemberKeys)
	assert.Equal(t, []string{"S1", "S3"}, got[1].MemberKeys)
	assert.Nil(t, batches[1].MemberKeys, "input views untouched")
}

func TestPrintTrace(t *testing.T) {
	tr := trace.NewAllocationTrace(trace.TraceLevelPlacements, "key-asc")
	tr.RecordPlacement(trace.PlacementRecord{Seq: 0, Key: "S1", Cursor: 0, BatchIndex: 0, BatchName: "A", Probed: 1, FillAfter: 1})
	tr.RecordPlacement(trace.PlacementRecord{Seq: 1, Key: "S2", Cursor: 1, BatchIndex: 0, BatchName: "A", Probed: 2, FillAfter: 2})
	tr.RecordHalt(trace.HaltRecord{Seq: 2, Key: "S3", Remaining: 1})

	var out bytes.Buffer
	printTrace(&out, tr)

	assert.Contains(t, out.String(), "=== Placement Trace (key-asc) ===")
	assert.Contains(t, out.String(), "#1 S2 -> batch 0 A, cursor 1, passed over 1, fill 2")
	assert.Contains(t, out.String(), "#2 S3: no free capacity, 1 keys unplaced")
	assert.Contains(t, out.String(), "Placements: 2, full batches passed over: 1, batches used: 1")
}
