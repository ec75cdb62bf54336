package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeImage(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("not a real image"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
}

func visionServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	// Responses are keyed by request ordinal since image names are not
	// visible in the payload.
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer vision-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Errorf("unexpected message shape: %+v", req.Messages)
		}
		if !strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/") {
			t.Errorf("image url = %q", req.Messages[0].Content[1].ImageURL.URL)
		}
		calls++
		content := responses[fmt.Sprint(calls)]
		payload := map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": content}}},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestExtractor(t *testing.T, server *httptest.Server) *Extractor {
	t.Helper()
	client, err := NewClient("vision-key", server.URL, "gpt-4o", "extract titles")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewExtractor(client, nil)
}

func TestRunExtractsAndDeduplicates(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	writeImage(t, inputDir, "a.png")
	writeImage(t, inputDir, "b.jpg")
	writeImage(t, inputDir, "notes.txt")

	server := visionServer(t, map[string]string{
		"1": "Frieren\n- Monster\n",
		"2": "monster\nVinland Saga",
	})
	extractor := newTestExtractor(t, server)

	output := filepath.Join(t.TempDir(), "titles.txt")
	result, err := extractor.Run(context.Background(), inputDir, output, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Images != 2 {
		t.Errorf("images = %d, want 2 (txt file skipped)", result.Images)
	}
	want := []string{"Frieren", "Monster", "Vinland Saga"}
	if !reflect.DeepEqual(result.Titles, want) {
		t.Errorf("titles = %v, want %v", result.Titles, want)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "Frieren\nMonster\nVinland Saga\n" {
		t.Errorf("output = %q", string(data))
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	writeImage(t, inputDir, "a.png")
	server := visionServer(t, map[string]string{"1": "Frieren"})
	extractor := newTestExtractor(t, server)

	output := filepath.Join(t.TempDir(), "titles.txt")
	result, err := extractor.Run(context.Background(), inputDir, output, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Titles) != 1 {
		t.Errorf("titles = %v", result.Titles)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("dry run must not write the output file")
	}
}

func TestRunIsolatesPerImageFailures(t *testing.T) {
	t.Parallel()

	inputDir := t.TempDir()
	writeImage(t, inputDir, "bad.png")
	writeImage(t, inputDir, "good.png")

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"image too large"}}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Frieren"}}]}`))
	}))
	t.Cleanup(server.Close)
	extractor := newTestExtractor(t, server)

	result, err := extractor.Run(context.Background(), inputDir, filepath.Join(t.TempDir(), "out.txt"), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Failed) != 1 || result.Failed[0] != "bad.png" {
		t.Errorf("failed = %v", result.Failed)
	}
	if len(result.Titles) != 1 {
		t.Errorf("titles = %v", result.Titles)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	t.Parallel()

	server := visionServer(t, nil)
	extractor := newTestExtractor(t, server)
	result, err := extractor.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out.txt"), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Images != 0 || len(result.Titles) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestParseTitleLines(t *testing.T) {
	t.Parallel()

	got := parseTitleLines("- Frieren\n\n* Monster \n• Vinland Saga\n")
	want := []string{"Frieren", "Monster", "Vinland Saga"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", "https://x", "m", "p"); err == nil {
		t.Error("missing api key should error")
	}
	if _, err := NewClient("k", "", "m", "p"); err == nil {
		t.Error("missing endpoint should error")
	}
	if _, err := NewClient("k", "https://x", "", "p"); err == nil {
		t.Error("missing model should error")
	}
}
