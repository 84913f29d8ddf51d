package openpath

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostersync/pkg/directory"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// fakeOpenpath serves the subset of the Openpath API the client uses.
type fakeOpenpath struct {
	t      *testing.T
	mu     sync.Mutex
	token  string
	users  map[int64]*wireUser
	groups []wireGroup
	nextID int64
	puts   int
	pages  int
	last   map[string]any
}

func newFake(t *testing.T) (*fakeOpenpath, *httptest.Server) {
	t.Helper()
	f := &fakeOpenpath{
		t:      t,
		token:  signedToken(t, time.Now().Add(time.Hour)),
		users:  map[int64]*wireUser{},
		groups: []wireGroup{{ID: 10, Name: "Faculty"}, {ID: 20, Name: "Staff"}},
		nextID: 100,
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func (f *fakeOpenpath) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeOpenpath) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/auth/login" {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
			return
		}
		f.write(w, map[string]any{"data": map[string]string{"token": f.token}})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/orgs/42")
	switch {
	case path == "/groups" && r.Method == http.MethodGet:
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Query().Get("preFilter"), "name:(="), ")")
		var out []wireGroup
		for _, g := range f.groups {
			if g.Name == name {
				out = append(out, g)
			}
		}
		f.write(w, map[string]any{"data": out})

	case path == "/users" && r.Method == http.MethodGet:
		f.pages++
		filter := r.URL.Query().Get("preFilter")
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var matched []wireUser
		for id := int64(100); id < f.nextID; id++ {
			u, ok := f.users[id]
			if ok && f.matches(*u, filter) {
				matched = append(matched, *u)
			}
		}
		total := len(matched)
		end := min(offset+limit, total)
		page := []wireUser{}
		if offset < total {
			page = matched[offset:end]
		}
		f.write(w, map[string]any{"data": page, "totalCount": total})

	case path == "/users" && r.Method == http.MethodPost:
		var req createUserRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u := &wireUser{ID: f.nextID, Status: statusActive, ExternalID: req.ExternalID, Identity: req.Identity}
		f.users[u.ID] = u
		f.nextID++
		f.write(w, map[string]any{"data": u})

	case strings.HasPrefix(path, "/users/"):
		rest := strings.TrimPrefix(path, "/users/")
		parts := strings.SplitN(rest, "/", 2)
		id, _ := strconv.ParseInt(parts[0], 10, 64)
		u, ok := f.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		sub := ""
		if len(parts) == 2 {
			sub = parts[1]
		}
		f.last = map[string]any{}
		switch {
		case sub == "" && r.Method == http.MethodGet:
			f.write(w, map[string]any{"data": u})
		case sub == "" && r.Method == http.MethodPatch:
			_ = json.NewDecoder(r.Body).Decode(&f.last)
			var req patchUserRequest
			raw, _ := json.Marshal(f.last)
			_ = json.Unmarshal(raw, &req)
			if req.ExternalID != nil {
				u.ExternalID = *req.ExternalID
			}
			if req.Identity != nil && req.Identity.Email != nil {
				u.Identity.Email = *req.Identity.Email
			}
			w.WriteHeader(http.StatusNoContent)
		case sub == "status" && r.Method == http.MethodPut:
			var req statusRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			u.Status = req.Status
			w.WriteHeader(http.StatusNoContent)
		case sub == "groupIds" && r.Method == http.MethodPut:
			f.puts++
			var req groupIDsRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			u.Groups = nil
			for _, gid := range req.GroupIDs {
				u.Groups = append(u.Groups, wireGroup{ID: gid})
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeOpenpath) matches(u wireUser, filter string) bool {
	value := func(prefix string) (string, bool) {
		if !strings.HasPrefix(filter, prefix) {
			return "", false
		}
		return strings.TrimSuffix(strings.TrimPrefix(filter, prefix), ")"), true
	}
	if v, ok := value("identity.email:(="); ok {
		return strings.EqualFold(u.Identity.Email, v)
	}
	if v, ok := value("externalId:(="); ok {
		return u.ExternalID == v
	}
	if v, ok := value("group.name:(="); ok {
		for _, g := range u.Groups {
			for _, known := range f.groups {
				if known.ID == g.ID && known.Name == v {
					return true
				}
			}
		}
	}
	return false
}

func (f *fakeOpenpath) add(email, externalID, status string, groups ...int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &wireUser{ID: f.nextID, Status: status, ExternalID: externalID, Identity: wireIdentity{Email: email}}
	for _, g := range groups {
		u.Groups = append(u.Groups, wireGroup{ID: g})
	}
	f.users[u.ID] = u
	f.nextID++
	return u.ID
}

func (f *fakeOpenpath) setToken(tok string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = tok
}

func (f *fakeOpenpath) currentToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeOpenpath) addGroup(id int64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, wireGroup{ID: id, Name: name})
}

func (f *fakeOpenpath) user(id int64) wireUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.users[id]
}

func (f *fakeOpenpath) stats() (puts, pages int, last map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts, f.pages, f.last
}

func testConfig(url string) Config {
	return Config{URL: url, OrgID: "42", Email: "sync@example.edu", Password: "secret", PageSize: 2}
}

func connect(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Connect(context.Background(), testConfig(url))
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	f, srv := newFake(t)
	ctx := context.Background()

	tok, err := Login(ctx, testConfig(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, f.currentToken(), tok.Value)
	assert.False(t, tok.ExpiresAt.IsZero())

	cfg := testConfig(srv.URL)
	cfg.Password = "wrong"
	_, err = Login(ctx, cfg)
	assert.ErrorIs(t, err, errors.ErrUnauthenticated)

	f.setToken(signedToken(t, time.Now().Add(-time.Minute)))
	_, err = Login(ctx, testConfig(srv.URL))
	var authErr *errors.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "expires at")

	f.setToken("opaque-token")
	tok, err = Login(ctx, testConfig(srv.URL))
	require.NoError(t, err)
	assert.True(t, tok.ExpiresAt.IsZero())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig("https://api.openpath.com").Validate())

	cfg := testConfig("https://api.openpath.com")
	cfg.OrgID = ""
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, cfg.Validate(), &cfgErr)

	_, err := Login(context.Background(), Config{})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestListGroupMembersPaginatesAndFiltersActive(t *testing.T) {
	f, srv := newFake(t)
	f.add("a@x", "1", statusActive, 10)
	f.add("B@x", "2", statusActive, 10, 20)
	f.add("c@x", "3", statusSuspended, 10)
	f.add("d@x", "4", statusActive, 10)
	f.add("e@x", "5", statusActive, 20)

	c := connect(t, srv.URL)
	members, err := c.ListGroupMembers(context.Background(), "Faculty")
	require.NoError(t, err)

	assert.Equal(t, []identity.Key{"a@x", "b@x", "d@x"}, members.Keys())
	assert.Equal(t, "2", members["b@x"].SecondaryID)
	assert.True(t, members["b@x"].InGroup("20"))
	_, pages, _ := f.stats()
	assert.Equal(t, 2, pages, "four matches at page size two")
}

func TestSearch(t *testing.T) {
	f, srv := newFake(t)
	f.add("alice.old@x", "1001", statusSuspended)
	c := connect(t, srv.URL)
	ctx := context.Background()

	byKey, err := c.SearchByPrimaryKey(ctx, "ALICE.OLD@x")
	require.NoError(t, err)
	require.Len(t, byKey, 1)
	assert.Equal(t, identity.StatusSuspended, byKey[0].Status)

	byID, err := c.SearchBySecondaryID(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, byKey[0].ID, byID[0].ID)

	none, err := c.SearchBySecondaryID(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResolveGroupID(t *testing.T) {
	f, srv := newFake(t)
	c := connect(t, srv.URL)
	ctx := context.Background()

	id, err := c.ResolveGroupID(ctx, "Faculty")
	require.NoError(t, err)
	assert.Equal(t, "10", id)

	f.addGroup(30, "Faculty")
	_, err = c.ResolveGroupID(ctx, "Faculty")
	assert.ErrorIs(t, err, errors.ErrAmbiguousGroup)

	_, err = c.ResolveGroupID(ctx, "Nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateAndMutate(t *testing.T) {
	f, srv := newFake(t)
	c := connect(t, srv.URL)
	ctx := context.Background()

	created, err := c.CreateIdentity(ctx, directory.NewIdentity{PrimaryKey: "alice@x", FirstName: "Alice", SecondaryID: "1001"})
	require.NoError(t, err)
	assert.Equal(t, "100", created.ID)
	assert.Equal(t, identity.StatusActive, created.Status)

	require.NoError(t, c.AddToGroup(ctx, created.ID, "10"))
	require.NoError(t, c.AddToGroup(ctx, created.ID, "10"))
	puts, _, _ := f.stats()
	assert.Equal(t, 1, puts, "second add is a no-op")

	require.NoError(t, c.SetStatus(ctx, created.ID, identity.StatusSuspended))
	assert.Equal(t, statusSuspended, f.user(100).Status)

	require.NoError(t, c.UpdateIdentity(ctx, created.ID, directory.SetSecondaryID("2002")))
	assert.Equal(t, "2002", f.user(100).ExternalID)
	_, _, last := f.stats()
	assert.NotContains(t, last, "identity", "only set fields are sent")

	require.NoError(t, c.UpdateIdentity(ctx, created.ID, directory.SetPrimaryKey("alice.new@x")))
	assert.Equal(t, "alice.new@x", f.user(100).Identity.Email)

	require.NoError(t, c.RemoveFromGroup(ctx, created.ID, "10"))
	require.NoError(t, c.RemoveFromGroup(ctx, created.ID, "10"))
	puts, _, _ = f.stats()
	assert.Equal(t, 2, puts, "second remove is a no-op")
	assert.Empty(t, f.user(100).Groups)
}

func TestMutationErrors(t *testing.T) {
	_, srv := newFake(t)
	c := connect(t, srv.URL)
	ctx := context.Background()

	err := c.SetStatus(ctx, "999", identity.StatusActive)
	assert.True(t, errors.IsRemoteOperationFailed(err))

	err = c.SetStatus(ctx, "100", identity.Status("gone"))
	assert.True(t, errors.IsValidationError(err))

	err = c.UpdateIdentity(ctx, "100", directory.IdentityUpdate{})
	assert.True(t, errors.IsValidationError(err))

	err = c.AddToGroup(ctx, "not-a-number", "10")
	assert.True(t, errors.IsValidationError(err))
}

func TestUnknownStatusFailsListing(t *testing.T) {
	f, srv := newFake(t)
	f.add("a@x", "1", "X", 10)
	c := connect(t, srv.URL)

	_, err := c.ListGroupMembers(context.Background(), "Faculty")
	assert.True(t, errors.IsValidationError(err))
}
