package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/formdesk/adapters/clock"
	"github.com/artpar/formdesk/adapters/idgen"
	"github.com/artpar/formdesk/adapters/memory"
	"github.com/artpar/formdesk/app"
	"github.com/artpar/formdesk/domain/form"
	"github.com/artpar/formdesk/pipeline"
	"github.com/artpar/formdesk/ports"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(store ports.FormStore) (*app.FormService, *clock.Fake) {
	fake := clock.NewFake(testTime)
	return app.NewFormService(store, fake, idgen.NewSequential("form-"), zerolog.Nop()), fake
}

func bodyRequest(body map[string]any) *pipeline.Request {
	return &pipeline.Request{Body: body}
}

func idRequest(id string, body map[string]any) *pipeline.Request {
	return &pipeline.Request{Params: map[string]any{"id": id}, Body: body}
}

func TestCreate(t *testing.T) {
	store := memory.NewFormStore()
	svc, _ := newService(store)

	out := svc.Create(context.Background(), bodyRequest(map[string]any{
		"title":     "New laptop",
		"applicant": "Alice",
		"email":     "alice@example.com",
		"category":  "support",
	}))

	if !out.IsSuccess() {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if out.Status() != http.StatusCreated {
		t.Errorf("Status() = %d, want 201", out.Status())
	}
	if out.Message() != "form created" {
		t.Errorf("Message() = %q, want %q", out.Message(), "form created")
	}

	payload, present := out.Payload()
	if !present {
		t.Fatal("payload should be present")
	}
	view, ok := payload.(app.FormView)
	if !ok {
		t.Fatalf("payload = %T, want FormView", payload)
	}
	if view.ID != "form-1" {
		t.Errorf("ID = %q, want form-1", view.ID)
	}
	if view.Status != "draft" {
		t.Errorf("Status = %q, new forms always start as draft", view.Status)
	}
	if view.Priority != 3 {
		t.Errorf("Priority = %d, want default 3", view.Priority)
	}
	if !view.CreatedAt.Equal(testTime) {
		t.Errorf("CreatedAt = %v, want clock time %v", view.CreatedAt, testTime)
	}

	if _, err := store.Get(context.Background(), "form-1"); err != nil {
		t.Errorf("created form not in store: %v", err)
	}
}

func TestCreate_PriorityFromBody(t *testing.T) {
	svc, _ := newService(memory.NewFormStore())

	out := svc.Create(context.Background(), bodyRequest(map[string]any{
		"title":     "Outage",
		"applicant": "Bob",
		"email":     "bob@example.com",
		"category":  "support",
		"priority":  json.Number("5"),
	}))

	payload, _ := out.Payload()
	if view := payload.(app.FormView); view.Priority != 5 {
		t.Errorf("Priority = %d, want 5", view.Priority)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService(memory.NewFormStore())

	out := svc.Get(context.Background(), idRequest("missing", nil))

	if !out.IsFailure() {
		t.Fatalf("outcome = %+v, want failure", out)
	}
	if out.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want 404", out.Status())
	}
	if out.Message() != "form not found" {
		t.Errorf("Message() = %q", out.Message())
	}
}

func TestGet_StoreError(t *testing.T) {
	cause := errors.New("disk gone")
	svc, _ := newService(&failingStore{err: cause})

	out := svc.Get(context.Background(), idRequest("x", nil))

	if !out.IsException() {
		t.Fatalf("outcome = %+v, want exception", out)
	}
	if !errors.Is(out.Cause(), cause) {
		t.Error("cause should be retained on the outcome")
	}
}

func TestList_Paging(t *testing.T) {
	store := memory.NewFormStore()
	svc, fake := newService(store)

	for i := 0; i < 5; i++ {
		svc.Create(context.Background(), bodyRequest(map[string]any{
			"title":     "t",
			"applicant": "a",
			"email":     "a@example.com",
			"category":  "other",
		}))
		fake.Advance(time.Minute)
	}

	out := svc.List(context.Background(), &pipeline.Request{Query: map[string]any{
		"page":     json.Number("2"),
		"per_page": json.Number("2"),
	}})

	if !out.IsSuccess() {
		t.Fatalf("outcome = %+v, want success", out)
	}
	payload, _ := out.Payload()
	lv := payload.(app.ListView)
	if lv.Total != 5 {
		t.Errorf("Total = %d, want 5", lv.Total)
	}
	if lv.Page != 2 || lv.PerPage != 2 {
		t.Errorf("page = %d/%d, want 2/2", lv.Page, lv.PerPage)
	}
	if len(lv.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(lv.Items))
	}
	// Newest first, so page 2 holds the middle of the run.
	if lv.Items[0].ID != "form-3" || lv.Items[1].ID != "form-2" {
		t.Errorf("page 2 = [%s %s], want [form-3 form-2]", lv.Items[0].ID, lv.Items[1].ID)
	}
}

func TestList_EmptyStoreYieldsEmptySlice(t *testing.T) {
	svc, _ := newService(memory.NewFormStore())

	out := svc.List(context.Background(), &pipeline.Request{})

	payload, present := out.Payload()
	if !present {
		t.Fatal("payload should be present even when empty")
	}
	lv := payload.(app.ListView)
	if lv.Items == nil {
		t.Error("Items should be an empty slice, not nil, so it serializes as []")
	}
	if lv.Page != 1 || lv.PerPage != 20 {
		t.Errorf("defaults = %d/%d, want 1/20", lv.Page, lv.PerPage)
	}
}

func TestList_StatusFilter(t *testing.T) {
	store := memory.NewFormStore()
	svc, _ := newService(store)

	seed(t, store, "a", form.StatusDraft)
	seed(t, store, "b", form.StatusSubmitted)
	seed(t, store, "c", form.StatusSubmitted)

	out := svc.List(context.Background(), &pipeline.Request{Query: map[string]any{
		"status": "submitted",
	}})

	payload, _ := out.Payload()
	lv := payload.(app.ListView)
	if lv.Total != 2 || len(lv.Items) != 2 {
		t.Errorf("got %d items / total %d, want 2/2", len(lv.Items), lv.Total)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	store := memory.NewFormStore()
	svc, fake := newService(store)

	seed(t, store, "f1", form.StatusDraft)
	fake.Advance(time.Hour)

	out := svc.Update(context.Background(), idRequest("f1", map[string]any{
		"title":    "Renamed",
		"priority": json.Number("4"),
	}))

	if !out.IsSuccess() {
		t.Fatalf("outcome = %+v, want success", out)
	}
	stored, _ := store.Get(context.Background(), "f1")
	if stored.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", stored.Title)
	}
	if stored.Priority != 4 {
		t.Errorf("Priority = %d, want 4", stored.Priority)
	}
	if stored.Applicant != "someone" {
		t.Errorf("Applicant = %q, fields absent from the body must be untouched", stored.Applicant)
	}
	if !stored.UpdatedAt.After(stored.CreatedAt) {
		t.Error("UpdatedAt should advance on update")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService(memory.NewFormStore())

	out := svc.Update(context.Background(), idRequest("nope", map[string]any{"title": "x"}))

	if !out.IsFailure() || out.Status() != http.StatusNotFound {
		t.Errorf("outcome = %+v, want 404 failure", out)
	}
}

func TestDelete(t *testing.T) {
	store := memory.NewFormStore()
	svc, _ := newService(store)
	seed(t, store, "f1", form.StatusDraft)

	out := svc.Delete(context.Background(), idRequest("f1", nil))

	if !out.IsSuccess() {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if _, present := out.Payload(); present {
		t.Error("delete confirmation carries no payload")
	}
	if out.Message() != "form deleted" {
		t.Errorf("Message() = %q", out.Message())
	}
	if _, err := store.Get(context.Background(), "f1"); !errors.Is(err, ports.ErrNotFound) {
		t.Error("form should be gone from the store")
	}
}

func TestTransition(t *testing.T) {
	cases := []struct {
		name       string
		from       form.Status
		to         string
		wantStatus int
	}{
		{"draft to submitted", form.StatusDraft, "submitted", http.StatusOK},
		{"submitted to approved", form.StatusSubmitted, "approved", http.StatusOK},
		{"submitted to rejected", form.StatusSubmitted, "rejected", http.StatusOK},
		{"draft to approved skips review", form.StatusDraft, "approved", http.StatusConflict},
		{"approved is terminal", form.StatusApproved, "submitted", http.StatusConflict},
		{"rejected is terminal", form.StatusRejected, "submitted", http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewFormStore()
			svc, _ := newService(store)
			seed(t, store, "f1", tc.from)

			out := svc.Transition(context.Background(), idRequest("f1", map[string]any{
				"status": tc.to,
			}))

			if out.Status() != tc.wantStatus {
				t.Fatalf("Status() = %d, want %d (message %q)", out.Status(), tc.wantStatus, out.Message())
			}

			stored, _ := store.Get(context.Background(), "f1")
			if tc.wantStatus == http.StatusOK {
				if string(stored.Status) != tc.to {
					t.Errorf("stored status = %s, want %s", stored.Status, tc.to)
				}
			} else {
				if stored.Status != tc.from {
					t.Errorf("rejected transition must not change stored status, got %s", stored.Status)
				}
			}
		})
	}
}

func TestTransition_ConflictMessage(t *testing.T) {
	store := memory.NewFormStore()
	svc, _ := newService(store)
	seed(t, store, "f1", form.StatusApproved)

	out := svc.Transition(context.Background(), idRequest("f1", map[string]any{
		"status": "rejected",
	}))

	want := "cannot transition form from approved to rejected"
	if out.Message() != want {
		t.Errorf("Message() = %q, want %q", out.Message(), want)
	}
}

func seed(t *testing.T, store ports.FormStore, id string, status form.Status) {
	t.Helper()
	err := store.Create(context.Background(), form.Form{
		ID:        id,
		Title:     "seeded",
		Applicant: "someone",
		Email:     "someone@example.com",
		Category:  form.CategoryOther,
		Priority:  3,
		Status:    status,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// failingStore returns its configured error from every operation.
type failingStore struct {
	err error
}

func (s *failingStore) Create(ctx context.Context, f form.Form) error { return s.err }
func (s *failingStore) Get(ctx context.Context, id string) (form.Form, error) {
	return form.Form{}, s.err
}
func (s *failingStore) List(ctx context.Context, filter ports.FormFilter) ([]form.Form, error) {
	return nil, s.err
}
func (s *failingStore) Count(ctx context.Context, status form.Status) (int64, error) {
	return 0, s.err
}
func (s *failingStore) Update(ctx context.Context, f form.Form) error { return s.err }
func (s *failingStore) Delete(ctx context.Context, id string) error   { return s.err }
