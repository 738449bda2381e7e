package router

import (
	"testing"

	"github.com/routeway/gateway/internal/api"
)

func TestResolveByPathSegmentSafe(t *testing.T) {
	table := Build([]api.Definition{
		{ID: "mockbin", Path: "/mockbin", TargetURL: "http://mockbin.com"},
	}, nil)

	// A textual prefix mid-segment must not match.
	if def, _ := resolveByPath("/mockbin-extra/anything", table); def != nil {
		t.Fatalf("mid-segment prefix must not match, got %s", def.ID)
	}

	def, pattern := resolveByPath("/mockbin/anything", table)
	if def == nil || def.ID != "mockbin" {
		t.Fatalf("expected mockbin, got %+v", def)
	}
	if pattern == nil {
		t.Fatal("expected matched pattern to be returned")
	}

	// The bare prefix matches via URI normalization.
	if def, _ := resolveByPath("/mockbin", table); def == nil || def.ID != "mockbin" {
		t.Fatalf("bare prefix should match, got %+v", def)
	}
}

func TestResolveByPathFirstInOrderWins(t *testing.T) {
	table := Build([]api.Definition{
		{ID: "general", Path: "/api", TargetURL: "http://general"},
		{ID: "specific", Path: "/api/users", TargetURL: "http://specific"},
	}, nil)

	// Definition order decides, not specificity.
	def, _ := resolveByPath("/api/users/1", table)
	if def == nil || def.ID != "general" {
		t.Fatalf("expected first definition in order, got %+v", def)
	}
}

func TestResolveByPathNoMatch(t *testing.T) {
	table := Build([]api.Definition{
		{ID: "mockbin", Path: "/mockbin", TargetURL: "http://mockbin.com"},
	}, nil)

	def, pattern := resolveByPath("/nope", table)
	if def != nil || pattern != nil {
		t.Fatalf("expected absent-absent, got %+v %v", def, pattern)
	}
}

func TestResolveByPathRoot(t *testing.T) {
	table := Build([]api.Definition{
		{ID: "catchall", Path: "/", TargetURL: "http://default"},
	}, nil)

	def, _ := resolveByPath("/anything/at/all", table)
	if def == nil || def.ID != "catchall" {
		t.Fatalf("root path should catch everything, got %+v", def)
	}
}

func TestResolveByPathTrailingSlashDefinition(t *testing.T) {
	table := Build([]api.Definition{
		{ID: "mockbin", Path: "/mockbin/", TargetURL: "http://mockbin.com"},
	}, nil)

	def, _ := resolveByPath("/mockbin/x", table)
	if def == nil || def.ID != "mockbin" {
		t.Fatalf("trailing slash in definition path should not matter, got %+v", def)
	}
}

func TestNormalizeURI(t *testing.T) {
	if got := normalizeURI("/a/b"); got != "/a/b/" {
		t.Fatalf("expected /a/b/, got %s", got)
	}
	if got := normalizeURI("/a/b/"); got != "/a/b/" {
		t.Fatalf("expected unchanged /a/b/, got %s", got)
	}
}
