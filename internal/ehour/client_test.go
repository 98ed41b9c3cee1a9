package ehour

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/geanix/ehour/internal/config"
	"github.com/geanix/ehour/internal/model"
)

// newTestClient starts an httptest server and returns a client pointed at
// it. The server is torn down with the test.
func newTestClient(t *testing.T, cfg config.Config, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.API.BaseURL = srv.URL + "/"
	return New("FOOBAR", cfg)
}

func TestGet_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`[]`))
	}))

	if _, err := c.Users(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "FOOBAR" {
		t.Errorf("X-API-Key = %q, want FOOBAR", gotKey)
	}
}

func TestGet_NonSuccessIsRESTError(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such client", http.StatusNotFound)
	}))

	_, err := c.Clients(context.Background(), "", true)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var restErr *RESTError
	if !errors.As(err, &restErr) {
		t.Fatalf("error type = %T, want *RESTError", err)
	}
	if restErr.Code != 404 {
		t.Errorf("Code = %d, want 404", restErr.Code)
	}
	if restErr.Reason != "Not Found" {
		t.Errorf("Reason = %q, want %q", restErr.Reason, "Not Found")
	}
}

func TestClients_ListPopulatesStore(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("state"); got != "active" {
			t.Errorf("state = %q, want active", got)
		}
		_, _ = w.Write([]byte(`[{"clientId":"CLT45","code":"X","name":"Acme","active":true}]`))
	}))

	clients, err := c.Clients(context.Background(), "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("len(clients) = %d, want 1", len(clients))
	}

	cl := clients[0]
	if cl.ID != "CLT45" || cl.Code != "X" || cl.Name != "Acme" || !cl.Active {
		t.Errorf("client = %+v", cl)
	}
	if cl.Fill != model.FillPartial {
		t.Errorf("Fill = %v, want FillPartial", cl.Fill)
	}

	// Any later reference to the same ID must be the same instance, with
	// earlier fields intact.
	again := c.Store().GetClient("CLT45", func(cl *model.Client) { cl.Name = "Acme Corp" })
	if again != cl {
		t.Fatal("second lookup returned a different instance")
	}
	if cl.Code != "X" {
		t.Errorf("Code = %q, want X (merge must not clear fields)", cl.Code)
	}
	if cl.Name != "Acme Corp" {
		t.Errorf("Name = %q, want last write", cl.Name)
	}
}

func TestUsers_EagerFillIsOptIn(t *testing.T) {
	detailCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			_, _ = w.Write([]byte(`[{"userId":"USR1","active":true,"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}]`))
		case "/users/USR1":
			detailCalls++
			_, _ = w.Write([]byte(`{"userId":"USR1","active":true,"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`))
		default:
			http.NotFound(w, r)
		}
	})

	// Default: no detail fetch per listed user.
	c := newTestClient(t, config.DefaultConfig(), handler)
	users, err := c.Users(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detailCalls != 0 {
		t.Errorf("detail calls = %d, want 0 with lazy fill", detailCalls)
	}
	if users[0].Name != "Jane Doe" {
		t.Errorf("Name = %q, want derived Jane Doe", users[0].Name)
	}
	if users[0].Fill != model.FillPartial {
		t.Errorf("Fill = %v, want FillPartial", users[0].Fill)
	}

	// Opt-in eager fill fetches each detail record.
	cfg := config.DefaultConfig()
	cfg.General.EagerFill = true
	c = newTestClient(t, cfg, handler)
	users, err = c.Users(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detailCalls != 1 {
		t.Errorf("detail calls = %d, want 1 with eager fill", detailCalls)
	}
	if users[0].Fill != model.FillFull {
		t.Errorf("Fill = %v, want FillFull", users[0].Fill)
	}
}

func TestProjectsForClient_FiltersInactiveClientSide(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients/CLT1/projects" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"projectId":"PRJ1","code":"P1","name":"Live","active":true},
			{"projectId":"PRJ2","code":"P2","name":"Dead","active":false}
		]`))
	}))

	client := c.Store().GetClient("CLT1", nil)
	projects, err := c.ProjectsForClient(context.Background(), client, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "PRJ1" {
		t.Fatalf("projects = %+v, want only PRJ1", projects)
	}
}

func TestFillClient_ReplacesStaleFieldsAndRemaps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CustomFields = map[string]map[string]string{
		"client": {"customField1": "PO Number"},
	}
	c := newTestClient(t, cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients/CLT45" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"clientId": "CLT45",
			"links": [{"rel": "self"}],
			"code": "X",
			"name": "Acme",
			"active": true,
			"description": "line one\nline two",
			"customField1": "PO-1234",
			"customField2": "misc",
			"vatNumber": "DK123"
		}`))
	}))

	cl := c.Store().GetClient("CLT45", func(cl *model.Client) {
		cl.Description = []string{"stale description"}
		cl.Extra = map[string]any{"leftover": true}
	})

	if err := c.FillClient(context.Background(), cl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cl.Code != "X" || cl.Name != "Acme" || !cl.Active {
		t.Errorf("client = %+v", cl)
	}
	if len(cl.Description) != 2 || cl.Description[0] != "line one" || cl.Description[1] != "line two" {
		t.Errorf("Description = %v, want split lines", cl.Description)
	}
	if got := cl.CustomFields["PO Number"]; got != "PO-1234" {
		t.Errorf("remapped custom field = %q, want PO-1234", got)
	}
	// Unmapped custom field keeps its raw name; the miss must be silent.
	if got := cl.CustomFields["customField2"]; got != "misc" {
		t.Errorf("unmapped custom field = %q, want misc", got)
	}
	if _, stale := cl.Extra["leftover"]; stale {
		t.Error("stale extra field survived a full fill")
	}
	if got := cl.Extra["vatNumber"]; got != "DK123" {
		t.Errorf("unknown field not collected: Extra = %v", cl.Extra)
	}
	if cl.Fill != model.FillFull {
		t.Errorf("Fill = %v, want FillFull", cl.Fill)
	}
}

func TestFillClient_Idempotent(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"clientId":"CLT1","code":"A","name":"Acme","active":true}`))
	}))

	cl := c.Store().GetClient("CLT1", nil)
	if err := c.FillClient(context.Background(), cl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := *cl
	if err := c.FillClient(context.Background(), cl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, *cl) {
		t.Errorf("second fill changed the instance:\nfirst:  %+v\nsecond: %+v", first, *cl)
	}
}

func TestFillProject_ResolvesNestedEntities(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/PRJ7" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{
			"projectId": "PRJ7",
			"code": "ACME-1",
			"name": "Rollout",
			"active": true,
			"billable": true,
			"budgetInMinutes": 6000,
			"contact": "John",
			"client": {"clientId": "CLT45", "code": "X", "name": "Acme", "active": true},
			"projectManager": {"userId": "USR1", "firstName": "Jane", "lastName": "Doe",
				"email": "jane@example.com", "active": true, "links": [{"rel": "self"}]}
		}`))
	}))

	// Pre-existing reference to the same client must end up as the same
	// instance the nested object resolves to.
	existing := c.Store().GetClient("CLT45", nil)

	p := c.Store().GetProject("PRJ7", nil)
	if err := c.FillProject(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Client != existing {
		t.Error("nested client did not resolve through the identity store")
	}
	if p.Client.Name != "Acme" || p.Client.Code != "X" {
		t.Errorf("nested client fields = %+v", p.Client)
	}
	if p.ProjectManager == nil || p.ProjectManager.ID != "USR1" {
		t.Fatalf("ProjectManager = %+v", p.ProjectManager)
	}
	if p.ProjectManager.Name != "Jane Doe" {
		t.Errorf("manager Name = %q, want derived Jane Doe", p.ProjectManager.Name)
	}
	if p.BudgetMinutes != 6000 {
		t.Errorf("BudgetMinutes = %d, want 6000", p.BudgetMinutes)
	}
}

func TestFillUser_MissingNameIsSchemaError(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"userId":"USR9","active":true,"email":"x@example.com"}`))
	}))

	u := c.Store().GetUser("USR9", nil)
	err := c.FillUser(context.Background(), u)
	if err == nil {
		t.Fatal("expected error for user without any name")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("error type = %T, want *SchemaError", err)
	}
}

func TestFillClient_WrongTypeIsSchemaError(t *testing.T) {
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"clientId":"CLT1","name":"Acme","active":"yes"}`))
	}))

	cl := c.Store().GetClient("CLT1", nil)
	err := c.FillClient(context.Background(), cl)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v (%T), want *SchemaError", err, err)
	}
}

func TestFetchClient_SkipsNetworkWhenFull(t *testing.T) {
	calls := 0
	c := newTestClient(t, config.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"clientId":"CLT1","code":"A","name":"Acme","active":true}`))
	}))

	cl, err := c.FetchClient(context.Background(), "CLT1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	again, err := c.FetchClient(context.Background(), "CLT1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != cl {
		t.Error("FetchClient returned a different instance")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (full instance must not refetch)", calls)
	}
}
