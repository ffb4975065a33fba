package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker(&fakePinger{}, t.TempDir())
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Fatal("expected healthy")
	}
	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("len = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy || s.Error != "" || s.CheckedAt.IsZero() {
			t.Errorf("status %q = %+v", s.Name, s)
		}
	}
}

func TestChecker_StoreFailure(t *testing.T) {
	c := NewChecker(&fakePinger{err: errors.New("database is locked")}, t.TempDir())
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Fatal("expected unhealthy")
	}
	for _, s := range c.Statuses() {
		if s.Name == "store" {
			if s.Healthy || s.Error != "database is locked" {
				t.Errorf("store status = %+v", s)
			}
		}
	}
}

func TestChecker_MissingDataDirIsHealthy(t *testing.T) {
	// An uncreated data dir is fine; first write creates it.
	c := NewChecker(&fakePinger{}, filepath.Join(t.TempDir(), "not-created-yet"))
	c.runAll(context.Background())
	if !c.IsHealthy() {
		t.Fatal("missing data dir should not fail health")
	}
}

func TestChecker_DataDirIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plainfile")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewChecker(&fakePinger{}, path)
	c.runAll(context.Background())
	if c.IsHealthy() {
		t.Fatal("file in place of data dir should fail health")
	}
}

func TestChecker_NoRunsYetIsHealthy(t *testing.T) {
	// Before the first run there are no statuses, so nothing is failing.
	c := NewChecker(&fakePinger{}, t.TempDir())
	if !c.IsHealthy() {
		t.Fatal("zero statuses should report healthy")
	}
	if len(c.Statuses()) != 0 {
		t.Fatal("expected no statuses before first run")
	}
}
