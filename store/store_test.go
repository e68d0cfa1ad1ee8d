// store_test.go - Tests fuer SQLite- und Memory-Backend
package store

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/7blacky7/plauderkasten/kvcache"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "plauder.db"), false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backendContract prueft den kvcache.Backend-Vertrag
func backendContract(t *testing.T, b kvcache.Backend) {
	t.Helper()

	// Abwesenheit ist nil, kein Fehler
	e, err := b.GetEntry("s", 0)
	if err != nil {
		t.Fatalf("GetEntry (leer): %v", err)
	}
	if e != nil {
		t.Fatalf("GetEntry (leer) = %v, erwartet nil", e)
	}

	want := &kvcache.Entry{
		Keys:   [][]float64{{0.5, -0.5}, {1.0, 2.0}},
		Values: [][]float64{{0.25, 0.75}, {-1.0, 0.0}},
	}

	if err := b.PutEntry("s", 0, want); err != nil {
		t.Fatalf("PutEntry: %v", err)
	}
	if err := b.SetEpoch("s", "seed-42"); err != nil {
		t.Fatalf("SetEpoch: %v", err)
	}

	got, err := b.GetEntry("s", 0)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entry-Roundtrip (-want +got):\n%s", diff)
	}

	epoch, err := b.Epoch("s")
	if err != nil {
		t.Fatalf("Epoch: %v", err)
	}
	if epoch != "seed-42" {
		t.Errorf("Epoch = %q, erwartet seed-42", epoch)
	}

	// Upsert ueberschreibt
	want2 := &kvcache.Entry{
		Keys:   [][]float64{{9}},
		Values: [][]float64{{9}},
	}
	if err := b.PutEntry("s", 0, want2); err != nil {
		t.Fatalf("PutEntry (Upsert): %v", err)
	}
	got, err = b.GetEntry("s", 0)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if diff := cmp.Diff(want2, got); diff != "" {
		t.Errorf("Upsert (-want +got):\n%s", diff)
	}

	// ClearSession entfernt Entries und Epoch
	if err := b.ClearSession("s"); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	got, err = b.GetEntry("s", 0)
	if err != nil {
		t.Fatalf("GetEntry nach Clear: %v", err)
	}
	if got != nil {
		t.Errorf("GetEntry nach Clear = %v, erwartet nil", got)
	}
	epoch, err = b.Epoch("s")
	if err != nil {
		t.Fatalf("Epoch nach Clear: %v", err)
	}
	if epoch != "" {
		t.Errorf("Epoch nach Clear = %q, erwartet \"\"", epoch)
	}
}

func TestSQLiteBackendContract(t *testing.T) {
	backendContract(t, newTestStore(t))
}

func TestMemoryBackendContract(t *testing.T) {
	backendContract(t, NewMemory())
}

func TestChatHistory(t *testing.T) {
	s := newTestStore(t)

	if err := s.AppendMessage("s", "user", "hallo"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if err := s.AppendMessage("s", "assistant", "%&$!"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if err := s.AppendMessage("andere", "user", "nicht hier"); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	msgs, err := s.Messages("s")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, erwartet 2", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "hallo" {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "%&$!" {
		t.Errorf("msgs[1] = %+v", msgs[1])
	}
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)

	e := &kvcache.Entry{Keys: [][]float64{{1}}, Values: [][]float64{{1}}}
	s.PutEntry("a", 0, e)
	s.PutEntry("a", 1, e)
	s.PutEntry("b", 0, e)

	sessions, err := s.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "b"}, sessions); diff != "" {
		t.Errorf("Sessions (-want +got):\n%s", diff)
	}
}

func TestSessionIDsMayContainSlashes(t *testing.T) {
	// Session-IDs kommen vom Client und duerfen jedes Zeichen enthalten.
	// "a" zu leeren darf "a/b" nicht mitreissen, und Sessions muss beide
	// IDs unveraendert melden.
	backends := map[string]kvcache.Backend{
		"sqlite": newTestStore(t),
		"memory": NewMemory(),
	}

	for name, b := range backends {
		t.Run(name, func(t *testing.T) {
			e := &kvcache.Entry{Keys: [][]float64{{1}}, Values: [][]float64{{1}}}
			if err := b.PutEntry("a", 0, e); err != nil {
				t.Fatalf("PutEntry: %v", err)
			}
			if err := b.PutEntry("a/b", 0, e); err != nil {
				t.Fatalf("PutEntry: %v", err)
			}

			if err := b.ClearSession("a"); err != nil {
				t.Fatalf("ClearSession: %v", err)
			}

			got, err := b.GetEntry("a/b", 0)
			if err != nil {
				t.Fatalf("GetEntry: %v", err)
			}
			if got == nil {
				t.Fatal("ClearSession(\"a\") hat Session \"a/b\" geleert")
			}

			lister, ok := b.(interface{ Sessions() ([]string, error) })
			if !ok {
				t.Fatalf("Backend %T kann Sessions nicht auflisten", b)
			}
			sessions, err := lister.Sessions()
			if err != nil {
				t.Fatalf("Sessions: %v", err)
			}
			sort.Strings(sessions)
			if diff := cmp.Diff([]string{"a/b"}, sessions); diff != "" {
				t.Errorf("Sessions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plauder.db")

	s, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := &kvcache.Entry{Keys: [][]float64{{1, 2}}, Values: [][]float64{{3, 4}}}
	if err := s.PutEntry("s", 0, want); err != nil {
		t.Fatalf("PutEntry: %v", err)
	}
	s.Close()

	s2, err := New(path, false)
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	defer s2.Close()

	got, err := s2.GetEntry("s", 0)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reopen (-want +got):\n%s", diff)
	}
}
