package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jdbrinton/treeline/internal/vfs"
)

// fakeView is a minimal ViewRef with observable lifecycle.
type fakeView struct {
	key    string
	kind   ViewKind
	closed bool
}

func (v *fakeView) Key() string { return v.key }

// fakeProvider records every provider call in order.
type fakeProvider struct {
	log    []string
	views  []*fakeView
	active ViewRef
}

func (p *fakeProvider) CreateView(kind ViewKind, key string) ViewRef {
	v := &fakeView{key: key, kind: kind}
	p.views = append(p.views, v)
	p.log = append(p.log, fmt.Sprintf("create %s %s", kind, key))
	return v
}

func (p *fakeProvider) CloseView(ref ViewRef) {
	ref.(*fakeView).closed = true
	p.log = append(p.log, "close "+ref.Key())
}

func (p *fakeProvider) MarkPermanent(ref ViewRef) {
	ref.(*fakeView).kind = ViewPermanent
	p.log = append(p.log, "permanent "+ref.Key())
}

func (p *fakeProvider) ActivateView(ref ViewRef) {
	p.active = ref
	p.log = append(p.log, "activate "+ref.Key())
}

// fakeStore is an in-memory vfs.Handle for workspace tests.
type fakeStore struct {
	files map[string][]byte
	fail  map[string]error
	reads map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		files: make(map[string][]byte),
		fail:  make(map[string]error),
		reads: make(map[string]int),
	}
}

func (s *fakeStore) Enumerate(ctx context.Context, key string) ([]vfs.Entry, error) {
	return nil, &vfs.EnumerationError{Key: key, Err: errors.New("not a directory store")}
}

func (s *fakeStore) ReadFile(ctx context.Context, key string) ([]byte, error) {
	s.reads[key]++
	if err := s.fail[key]; err != nil {
		return nil, &vfs.ReadError{Key: key, Err: err}
	}
	data, ok := s.files[key]
	if !ok {
		return nil, &vfs.ReadError{Key: key, Err: errors.New("no such file")}
	}
	return data, nil
}

func (s *fakeStore) WriteFile(ctx context.Context, key string, data []byte) error {
	s.files[key] = data
	return nil
}

func newTestWorkspace(t *testing.T) (*Workspace, *fakeProvider, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	provider := &fakeProvider{}
	return New(store, provider, nil), provider, store
}

func TestRequestPreview_SingletonSlot(t *testing.T) {
	w, p, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")
	store.files["y.txt"] = []byte("y")

	xRef, err := w.RequestPreview(context.Background(), "x.txt")
	if err != nil {
		t.Fatal(err)
	}
	if key, ok := w.PreviewKey(); !ok || key != "x.txt" {
		t.Fatalf("slot = %q, %v; want x.txt", key, ok)
	}

	if _, err := w.RequestPreview(context.Background(), "y.txt"); err != nil {
		t.Fatal(err)
	}

	if !xRef.(*fakeView).closed {
		t.Error("previous preview must be closed on replacement")
	}
	if key, _ := w.PreviewKey(); key != "y.txt" {
		t.Errorf("slot key = %q, want y.txt", key)
	}
	if w.ViewCount() != 1 {
		t.Errorf("view count = %d, want 1", w.ViewCount())
	}

	// X's view was closed before Y's was created.
	closeIdx, createIdx := -1, -1
	for i, entry := range p.log {
		switch entry {
		case "close x.txt":
			closeIdx = i
		case "create preview y.txt":
			createIdx = i
		}
	}
	if closeIdx == -1 || createIdx == -1 || closeIdx > createIdx {
		t.Errorf("expected close-then-create ordering, log: %v", p.log)
	}
}

func TestRequestPreview_SameKeyIsIdempotent(t *testing.T) {
	w, p, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	ref1, _ := w.RequestPreview(context.Background(), "x.txt")
	ref2, _ := w.RequestPreview(context.Background(), "x.txt")

	if ref1 != ref2 {
		t.Error("same-key preview must reuse the view")
	}
	if got := len(p.views); got != 1 {
		t.Errorf("views created = %d, want 1", got)
	}
	if p.active != ref1 {
		t.Error("re-request should re-activate the held view")
	}
}

func TestRequestPreview_ReadFailureLeavesStateUntouched(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["ok.txt"] = []byte("ok")
	store.fail["bad.txt"] = errors.New("io error")

	held, _ := w.RequestPreview(context.Background(), "ok.txt")

	_, err := w.RequestPreview(context.Background(), "bad.txt")
	var readErr *vfs.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}

	if held.(*fakeView).closed {
		t.Error("failed open must not close the held preview")
	}
	if key, ok := w.PreviewKey(); !ok || key != "ok.txt" {
		t.Errorf("slot = %q, %v; want untouched ok.txt", key, ok)
	}
	if w.Models().Get("bad.txt") != nil {
		t.Error("failed read must not register a model")
	}
}

func TestPromote_TransfersOwnershipWithoutClosing(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	ref, _ := w.RequestPreview(context.Background(), "x.txt")

	got, ok := w.Promote()
	if !ok || got != ref {
		t.Fatal("promote should return the held view")
	}
	if _, stillHeld := w.PreviewKey(); stillHeld {
		t.Error("slot must be empty after promotion")
	}
	if ref.(*fakeView).closed {
		t.Error("promotion must not close the view")
	}
	if ref.(*fakeView).kind != ViewPermanent {
		t.Error("promoted view should be marked permanent")
	}

	// Promoting an empty slot is a no-op.
	if _, ok := w.Promote(); ok {
		t.Error("promoting an empty slot should report false")
	}
}

func TestCommitOpen_PromotesMatchingPreview(t *testing.T) {
	w, p, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	previewRef, _ := w.RequestPreview(context.Background(), "x.txt")
	commitRef, err := w.CommitOpen(context.Background(), "x.txt")
	if err != nil {
		t.Fatal(err)
	}

	if commitRef != previewRef {
		t.Error("commit open of the previewed key must promote, not recreate")
	}
	if got := len(p.views); got != 1 {
		t.Errorf("views created = %d, want 1", got)
	}
	if _, held := w.PreviewKey(); held {
		t.Error("slot should be empty after promotion")
	}
}

func TestCommitOpen_ReactivatesExistingPermanent(t *testing.T) {
	w, p, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	first, _ := w.CommitOpen(context.Background(), "x.txt")
	second, _ := w.CommitOpen(context.Background(), "x.txt")

	if first != second {
		t.Error("commit open must reactivate the existing permanent view")
	}
	if len(p.views) != 1 {
		t.Errorf("views created = %d, want 1", len(p.views))
	}
	if p.active != first {
		t.Error("existing view should be activated")
	}
}

func TestEditPromotesPreview(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("original")

	ref, _ := w.RequestPreview(context.Background(), "x.txt")

	var promoted []string
	w.OnPromote(func(key string) { promoted = append(promoted, key) })

	w.Models().Get("x.txt").SetContent([]byte("edited"))

	if _, held := w.PreviewKey(); held {
		t.Error("edit must promote the preview out of the slot")
	}
	if ref.(*fakeView).kind != ViewPermanent {
		t.Error("edited preview should be permanent")
	}
	if len(promoted) != 1 || promoted[0] != "x.txt" {
		t.Errorf("promote observers = %v, want one x.txt", promoted)
	}
}

func TestCloseView_ReleasesModelOnLastReference(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	ref, _ := w.CommitOpen(context.Background(), "x.txt")
	model := w.Models().Get("x.txt")

	if err := w.CloseView(ref); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if w.Models().Get("x.txt") != nil {
		t.Error("closing the last view must release the model")
	}
	if !model.Disposed() {
		t.Error("released model should be disposed")
	}

	// Closing again is a stale reference, not a fatal error.
	var stale *StaleReferenceError
	if err := w.CloseView(ref); !errors.As(err, &stale) {
		t.Errorf("expected StaleReferenceError, got %v", err)
	}
}

func TestCloseView_KeepsModelWhileOtherViewsRemain(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["x.txt"] = []byte("x")

	perm, _ := w.CommitOpen(context.Background(), "x.txt")
	preview, _ := w.RequestPreview(context.Background(), "x.txt")
	// Previewing a key with a permanent view is unusual but legal; the two
	// views share one model.
	_ = preview

	if err := w.CloseView(perm); err != nil {
		t.Fatal(err)
	}
	if w.Models().Get("x.txt") == nil {
		t.Error("model must survive while another view references the key")
	}
	if store.reads["x.txt"] != 1 {
		t.Errorf("file read %d times, want 1 (model shared)", store.reads["x.txt"])
	}
}

func TestScenario_PreviewThenCommitOfSibling(t *testing.T) {
	// Single-click previews src/index.ts; a double-click on README.md then
	// closes that preview and opens README.md permanently.
	w, p, store := newTestWorkspace(t)
	store.files["src/index.ts"] = []byte("export {}\n")
	store.files["README.md"] = []byte("# hello\n")

	previewRef, err := w.RequestPreview(context.Background(), "src/index.ts")
	if err != nil {
		t.Fatal(err)
	}
	if key, ok := w.PreviewKey(); !ok || key != "src/index.ts" {
		t.Fatalf("slot = %q, want src/index.ts", key)
	}

	readmeRef, err := w.CommitOpen(context.Background(), "README.md")
	if err != nil {
		t.Fatal(err)
	}

	if !previewRef.(*fakeView).closed {
		t.Error("commit open of a sibling must close the held preview")
	}
	if readmeRef.(*fakeView).kind != ViewPermanent {
		t.Error("README.md should be a permanent view")
	}
	if _, held := w.PreviewKey(); held {
		t.Error("slot should be empty")
	}
	if w.ViewCount() != 1 {
		t.Errorf("view count = %d, want 1", w.ViewCount())
	}
	if p.active != readmeRef {
		t.Error("README.md view should be active")
	}
}

func TestOnActuate_ReportsOpensWithIntent(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["a.txt"] = []byte("a")
	store.files["b.txt"] = []byte("b")
	store.fail["bad.txt"] = errors.New("boom")

	var got []Actuation
	w.OnActuate(func(a Actuation) { got = append(got, a) })

	if _, err := w.RequestPreview(context.Background(), "a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.CommitOpen(context.Background(), "b.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.RequestPreview(context.Background(), "bad.txt"); err == nil {
		t.Fatal("expected read failure")
	}

	want := []Actuation{
		{Key: "a.txt", Intent: ViewPreview},
		{Key: "b.txt", Intent: ViewPermanent},
	}
	if len(got) != len(want) {
		t.Fatalf("actuations = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("actuation[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOnActuate_ReusedViewStillFires(t *testing.T) {
	w, _, store := newTestWorkspace(t)
	store.files["a.txt"] = []byte("a")

	if _, err := w.CommitOpen(context.Background(), "a.txt"); err != nil {
		t.Fatal(err)
	}

	var got []Actuation
	w.OnActuate(func(a Actuation) { got = append(got, a) })

	if _, err := w.CommitOpen(context.Background(), "a.txt"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != (Actuation{Key: "a.txt", Intent: ViewPermanent}) {
		t.Fatalf("actuations = %+v, want one permanent a.txt", got)
	}
}
