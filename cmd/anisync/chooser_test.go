package main

import (
	"bytes"
	"strings"
	"testing"

	"anisync/internal/anilist"
	"anisync/internal/resolver"
	"anisync/internal/titles"
)

func chooserCandidates() []resolver.Candidate {
	return []resolver.Candidate{
		{Media: anilist.Media{ID: 1, Title: anilist.MediaTitle{English: "Monster Park I"}, Format: "TV"}, Score: 0.94},
		{Media: anilist.Media{ID: 2, Title: anilist.MediaTitle{English: "Monster Park II"}, Format: "TV"}, Score: 0.93},
	}
}

func TestConsoleChooserSelectsCandidate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	chooser := newConsoleChooser(strings.NewReader("2\n"), &out)

	media, err := chooser.Choose(titles.ParseLine("Monster Park"), chooserCandidates())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if media == nil || media.ID != 2 {
		t.Fatalf("media = %+v, want ID 2", media)
	}
	requireContains(t, out.String(), "Monster Park I")
	requireContains(t, out.String(), "Monster Park II")
}

func TestConsoleChooserEmptyAnswerSkips(t *testing.T) {
	t.Parallel()

	chooser := newConsoleChooser(strings.NewReader("\n"), &bytes.Buffer{})
	media, err := chooser.Choose(titles.ParseLine("Monster Park"), chooserCandidates())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if media != nil {
		t.Fatalf("media = %+v, want nil", media)
	}
}

func TestConsoleChooserRejectsInvalidThenAccepts(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	chooser := newConsoleChooser(strings.NewReader("9\nx\n1\n"), &out)

	media, err := chooser.Choose(titles.ParseLine("Monster Park"), chooserCandidates())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if media == nil || media.ID != 1 {
		t.Fatalf("media = %+v, want ID 1", media)
	}
	requireContains(t, out.String(), "Invalid selection")
}

func TestConsoleChooserEOFSkips(t *testing.T) {
	t.Parallel()

	chooser := newConsoleChooser(strings.NewReader(""), &bytes.Buffer{})
	media, err := chooser.Choose(titles.ParseLine("Monster Park"), chooserCandidates())
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if media != nil {
		t.Fatalf("media = %+v, want nil", media)
	}
}
