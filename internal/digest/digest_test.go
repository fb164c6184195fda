package digest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/scicat/catalog/internal/digest"
	"github.com/scicat/catalog/internal/types"
)

func TestComposeListsEachEventByScopeAndName(t *testing.T) {
	events := []types.FollowEvent{
		{Scope: "s", Name: "dataset1", Type: types.Dataset, EventType: "CLOSE", CreatedAt: time.Now()},
		{Scope: "s", Name: "file1", Type: types.File, EventType: "DETACH", CreatedAt: time.Now()},
	}
	body, err := digest.Compose(events)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(body, "s:dataset1") || !strings.Contains(body, "CLOSE") {
		t.Errorf("expected body to mention dataset1/CLOSE, got: %s", body)
	}
	if !strings.Contains(body, "s:file1") || !strings.Contains(body, "DETACH") {
		t.Errorf("expected body to mention file1/DETACH, got: %s", body)
	}
	if !strings.Contains(body, "2 updates") {
		t.Errorf("expected plural count header, got: %s", body)
	}
}

func TestComposeSingularForOneEvent(t *testing.T) {
	events := []types.FollowEvent{
		{Scope: "s", Name: "file1", Type: types.File, EventType: "CLOSE", CreatedAt: time.Now()},
	}
	body, err := digest.Compose(events)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !strings.Contains(body, "1 update") || strings.Contains(body, "1 updates") {
		t.Errorf("expected singular wording for a single event, got: %s", body)
	}
}

func TestSubjectSingularVsPlural(t *testing.T) {
	if got := digest.Subject(1); got != "1 update on your followed data" {
		t.Errorf("unexpected singular subject: %q", got)
	}
	if got := digest.Subject(3); got != "Updates on your followed data" {
		t.Errorf("unexpected plural subject: %q", got)
	}
}
