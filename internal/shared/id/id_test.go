package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
	if id2.Compare(id1) <= 0 {
		t.Error("Monotonic IDs should sort after earlier ones")
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{PagePrefix, ComponentPrefix, ExportPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}
		if !IsValid(id) {
			t.Errorf("Prefixed ID should be valid: %s", id)
		}
	}
}

func TestTypedIDGeneration(t *testing.T) {
	pageID := NewPageID()
	compID := NewComponentID()
	expID := NewExportID()

	if !strings.HasPrefix(pageID.String(), "pg_") {
		t.Errorf("PageID should start with 'pg_', got: %s", pageID)
	}
	if !strings.HasPrefix(compID.String(), "cmp_") {
		t.Errorf("ComponentID should start with 'cmp_', got: %s", compID)
	}
	if !strings.HasPrefix(expID.String(), "exp_") {
		t.Errorf("ExportID should start with 'exp_', got: %s", expID)
	}
}

func TestSegment(t *testing.T) {
	seg := Segment(8)
	if len(seg) != 8 {
		t.Fatalf("expected 8 chars, got %q", seg)
	}
	if seg != strings.ToLower(seg) {
		t.Errorf("segment should be lowercase: %q", seg)
	}
	if Segment(8) == seg {
		t.Error("segments should differ between calls")
	}
}

func TestIsValid(t *testing.T) {
	if IsValid("not-a-ulid") {
		t.Error("garbage should not be valid")
	}
	if IsValid("") {
		t.Error("empty string should not be valid")
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewPageID().String())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) {
		t.Errorf("timestamp %v is earlier than %v", ts, before)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := NewComponentID().String()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}
