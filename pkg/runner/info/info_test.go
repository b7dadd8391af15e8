package info

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/store"
)

func TestInfo(t *testing.T) {
	t.Setenv("KIDOERS_CONFIG_PATH", "")
	p := store.NewMemory()
	if err := p.StoreMember(family.Member{ID: "m1", FamilyID: "smiths", Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if err := p.StoreRoutine(routine.Routine{ID: "r1", FamilyID: "smiths", Name: "School week", Status: routine.Draft}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	i := Info{
		Config:      &store.StaticConfig{Path: "/tmp/kidoers", FamilyID: "smiths", Window: 5 * time.Second},
		Persistence: p,
		Out:         &out,
	}
	if err := i.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"env var not set", "/tmp/kidoers", "Members: 1", "School week (draft): 0 tasks, 0 recurring", "5s"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestInfoWithoutPersistence(t *testing.T) {
	i := Info{Config: &store.StaticConfig{}, Out: &bytes.Buffer{}}
	if err := i.Do(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
