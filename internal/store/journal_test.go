package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	j, err := s.OpenJournal(context.Background(), "http://api.test")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	j.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return j
}

func TestJournal_AppendAndRead(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	if err := j.Append(ctx, "plate.create", 1, nil); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	if err := j.Append(ctx, "plate.update", 1, errors.New("500 Internal Server Error")); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	if err := j.Append(ctx, "plate.delete", 2, nil); err != nil {
		t.Fatalf("append 3: %v", err)
	}

	all, err := j.Read(ctx, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Op != "plate.create" || all[2].Op != "plate.delete" {
		t.Fatalf("expected oldest-first order, got %q .. %q", all[0].Op, all[2].Op)
	}
	if !all[0].OK || all[1].OK || all[1].Error != "500 Internal Server Error" {
		t.Fatalf("unexpected outcomes: %+v", all)
	}
	if all[0].APIURL != "http://api.test" || all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("unexpected metadata: %+v", all[0])
	}

	tail, err := j.Read(ctx, 1)
	if err != nil {
		t.Fatalf("read tail: %v", err)
	}
	if len(tail) != 1 || tail[0].Op != "plate.delete" {
		t.Fatalf("unexpected tail: %+v", tail)
	}

	forPlate, err := j.ReadForPlate(ctx, 1, 0)
	if err != nil {
		t.Fatalf("read for plate: %v", err)
	}
	if len(forPlate) != 2 {
		t.Fatalf("expected 2 entries for plate 1, got %d", len(forPlate))
	}
}

func TestJournal_EmptyReadIsNonNil(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	got, err := j.Read(context.Background(), 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestJournal_NilIsError(t *testing.T) {
	t.Parallel()

	var j *Journal
	if err := j.Append(context.Background(), "x", 1, nil); err == nil {
		t.Fatalf("expected error on nil journal")
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
