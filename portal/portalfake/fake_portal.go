// Package portalfake is an in-memory portal served over httptest for tests.
package portalfake

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/jrsteele09/portal-group-access/portal"
)

const (
	ConfigServicePath = "/server/rest/services/config/FeatureServer"
	configItemPrefix  = "/sharing/rest/content/items/"
)

// User is an account known to the fake portal.
type User struct {
	Username string
	OrgID    string
}

// Group is a group roster plus knobs that make group operations fail.
type Group struct {
	Owner        string
	Admins       []string
	Users        []string
	NotAddable   []string // usernames addUsers reports as notAdded
	InviteFails  bool
	ErrorMessage string // returned as a portal error object from the roster call
	ErrorDetails []string

	// DropInvitations makes invite report success without creating an invitation.
	DropInvitations bool
}

// FakePortal answers the sharing REST calls this service makes.
type FakePortal struct {
	Server *httptest.Server

	lock sync.Mutex

	ClientID        string
	ManagerUsername string
	ManagerPassword string
	ManagerToken    string

	// AuthCodes maps "code|verifier" to the access token it exchanges for.
	AuthCodes map[string]string
	// Tokens maps an access token to its owner.
	Tokens map[string]User

	Groups      map[string]*Group
	Invitations map[string][]portal.Invitation
	AcceptFails bool

	ConfigItemID  string
	ConfigRecords map[string]map[string]any

	DefaultCredits *float64
	ExistingUsers  map[string]bool
	ProvisionError string

	CreatedUsers []string
	InvitedUsers []portal.NewUserInvitation
	calls        []string
}

// New starts a fake portal with a manager account in org "org-main".
func New() *FakePortal {
	f := &FakePortal{
		ClientID:        "client-1",
		ManagerUsername: "manager",
		ManagerPassword: "manager-pw",
		ManagerToken:    "manager-token",
		AuthCodes:       map[string]string{},
		Tokens:          map[string]User{},
		Groups:          map[string]*Group{},
		Invitations:     map[string][]portal.Invitation{},
		ConfigItemID:    "config-item",
		ConfigRecords:   map[string]map[string]any{},
		ExistingUsers:   map[string]bool{},
	}
	f.Tokens[f.ManagerToken] = User{Username: f.ManagerUsername, OrgID: "org-main"}
	f.Server = httptest.NewServer(f.routes())
	return f
}

func (f *FakePortal) Close() {
	f.Server.Close()
}

func (f *FakePortal) URL() string {
	return f.Server.URL
}

// AddUser registers a user with an access token obtainable by code/verifier.
func (f *FakePortal) AddUser(username, orgID, code, verifier string) string {
	f.lock.Lock()
	defer f.lock.Unlock()
	token := "token-" + username
	f.Tokens[token] = User{Username: username, OrgID: orgID}
	f.AuthCodes[code+"|"+verifier] = token
	return token
}

func (f *FakePortal) SetGroup(id string, g *Group) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Groups[id] = g
}

func (f *FakePortal) SetConfigRecord(globalID string, attrs map[string]any) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ConfigRecords[globalID] = attrs
}

// Group returns a copy of a group's roster.
func (f *FakePortal) Group(id string) Group {
	f.lock.Lock()
	defer f.lock.Unlock()
	if g, ok := f.Groups[id]; ok {
		return *g
	}
	return Group{}
}

// Called reports whether an operation was invoked at least once.
func (f *FakePortal) Called(op string) bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return slices.Contains(f.calls, op)
}

func (f *FakePortal) Calls() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return slices.Clone(f.calls)
}

func (f *FakePortal) record(op string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls = append(f.calls, op)
}

func (f *FakePortal) owner(r *http.Request) (User, bool) {
	_ = r.ParseForm()
	f.lock.Lock()
	defer f.lock.Unlock()
	u, ok := f.Tokens[r.Form.Get("token")]
	return u, ok
}

func (f *FakePortal) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sharing/rest/oauth2/token", f.oauthToken)
	mux.HandleFunc("POST /sharing/rest/generateToken", f.generateToken)
	mux.HandleFunc("GET /sharing/rest/portals/self", f.portalSelf)
	mux.HandleFunc("GET /sharing/rest/community/self", f.communitySelf)
	mux.HandleFunc("GET /sharing/rest/content/items/{id}", f.item)
	mux.HandleFunc("POST "+ConfigServicePath+"/0/query", f.query)
	mux.HandleFunc("GET /sharing/rest/community/groups/{id}/users", f.groupUsers)
	mux.HandleFunc("POST /sharing/rest/community/groups/{id}/addUsers", f.addUsers)
	mux.HandleFunc("POST /sharing/rest/community/groups/{id}/invite", f.invite)
	mux.HandleFunc("GET /sharing/rest/community/users/{user}/invitations", f.userInvitations)
	mux.HandleFunc("POST /sharing/rest/community/users/{user}/invitations/{id}/accept", f.accept)
	mux.HandleFunc("POST /sharing/rest/portals/self/invite", f.portalInvite)
	mux.HandleFunc("POST /portaladmin/security/users/createUser", f.createUser)
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writePortalError(w http.ResponseWriter, code int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, map[string]any{
		"error": map[string]any{"code": code, "message": message, "details": details},
	})
}

func (f *FakePortal) oauthToken(w http.ResponseWriter, r *http.Request) {
	f.record("oauthToken")
	_ = r.ParseForm()
	if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("client_id") != f.ClientID {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_client"})
		return
	}

	f.lock.Lock()
	token, ok := f.AuthCodes[r.PostForm.Get("code")+"|"+r.PostForm.Get("code_verifier")]
	f.lock.Unlock()
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
		return
	}
	writeJSON(w, map[string]any{"access_token": token, "token_type": "bearer", "expires_in": 1800})
}

func (f *FakePortal) generateToken(w http.ResponseWriter, r *http.Request) {
	f.record("generateToken")
	_ = r.ParseForm()
	if r.PostForm.Get("username") != f.ManagerUsername || r.PostForm.Get("password") != f.ManagerPassword {
		writePortalError(w, 400, "Unable to generate token.", "Invalid username or password.")
		return
	}
	writeJSON(w, map[string]any{"token": f.ManagerToken, "expires": 1, "ssl": true})
}

func (f *FakePortal) portalSelf(w http.ResponseWriter, r *http.Request) {
	f.record("portalSelf")
	u, ok := f.owner(r)
	if !ok {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	resp := map[string]any{
		"id":   "portal-1",
		"user": map[string]any{"username": u.Username, "orgId": u.OrgID},
	}
	if f.DefaultCredits != nil {
		resp["defaultUserCreditAssignment"] = *f.DefaultCredits
	}
	writeJSON(w, resp)
}

func (f *FakePortal) communitySelf(w http.ResponseWriter, r *http.Request) {
	f.record("communitySelf")
	u, ok := f.owner(r)
	if !ok {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	resp := map[string]any{"username": u.Username}
	if u.OrgID != "" {
		resp["orgId"] = u.OrgID
	}
	writeJSON(w, resp)
}

func (f *FakePortal) item(w http.ResponseWriter, r *http.Request) {
	f.record("item")
	if _, ok := f.owner(r); !ok {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	if r.PathValue("id") != f.ConfigItemID {
		writePortalError(w, 400, "Item does not exist or is inaccessible.")
		return
	}
	writeJSON(w, map[string]any{"id": f.ConfigItemID, "type": "Feature Service", "url": f.Server.URL + ConfigServicePath})
}

func (f *FakePortal) query(w http.ResponseWriter, r *http.Request) {
	f.record("query")
	if _, ok := f.owner(r); !ok {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	globalID, ok := parseGlobalIDWhere(r.PostForm.Get("where"))
	if !ok {
		writePortalError(w, 400, "Unable to complete operation.", "Invalid where clause.")
		return
	}

	f.lock.Lock()
	attrs, found := f.ConfigRecords[globalID]
	f.lock.Unlock()

	features := []any{}
	if found {
		features = append(features, map[string]any{"attributes": attrs})
	}
	writeJSON(w, map[string]any{"features": features})
}

// parseGlobalIDWhere reads the quoted literal out of "GlobalID = '<id>'".
func parseGlobalIDWhere(where string) (string, bool) {
	const prefix = "GlobalID = '"
	if !strings.HasPrefix(where, prefix) || !strings.HasSuffix(where, "'") || len(where) < len(prefix)+1 {
		return "", false
	}
	literal := where[len(prefix) : len(where)-1]
	return strings.ReplaceAll(literal, "''", "'"), true
}

func (f *FakePortal) managerGroup(w http.ResponseWriter, r *http.Request) (*Group, bool) {
	u, ok := f.owner(r)
	if !ok || u.Username != f.ManagerUsername {
		writePortalError(w, 498, "Invalid token.")
		return nil, false
	}
	f.lock.Lock()
	g, ok := f.Groups[r.PathValue("id")]
	f.lock.Unlock()
	if !ok {
		writePortalError(w, 400, "Group does not exist or is inaccessible.")
		return nil, false
	}
	return g, true
}

func (f *FakePortal) groupUsers(w http.ResponseWriter, r *http.Request) {
	f.record("groupUsers")
	g, ok := f.managerGroup(w, r)
	if !ok {
		return
	}
	if g.ErrorMessage != "" || len(g.ErrorDetails) > 0 {
		writePortalError(w, 400, g.ErrorMessage, g.ErrorDetails...)
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	writeJSON(w, map[string]any{"owner": g.Owner, "admins": nonNil(g.Admins), "users": nonNil(g.Users)})
}

func (f *FakePortal) addUsers(w http.ResponseWriter, r *http.Request) {
	f.record("addUsers")
	g, ok := f.managerGroup(w, r)
	if !ok {
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	notAdded := []string{}
	for _, u := range strings.Split(r.PostForm.Get("users"), ",") {
		if slices.Contains(g.NotAddable, u) {
			notAdded = append(notAdded, u)
			continue
		}
		g.Users = append(g.Users, u)
	}
	writeJSON(w, map[string]any{"notAdded": notAdded})
}

func (f *FakePortal) invite(w http.ResponseWriter, r *http.Request) {
	f.record("invite")
	g, ok := f.managerGroup(w, r)
	if !ok {
		return
	}
	if g.InviteFails {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	if g.DropInvitations {
		writeJSON(w, map[string]any{"success": true})
		return
	}
	groupID := r.PathValue("id")
	f.lock.Lock()
	defer f.lock.Unlock()
	for _, u := range strings.Split(r.PostForm.Get("users"), ",") {
		f.Invitations[u] = append(f.Invitations[u], portal.Invitation{
			ID:      fmt.Sprintf("inv-%s-%s", groupID, u),
			GroupID: groupID,
			Type:    "invitation",
			Role:    r.PostForm.Get("role"),
		})
	}
	writeJSON(w, map[string]any{"success": true})
}

func (f *FakePortal) userInvitations(w http.ResponseWriter, r *http.Request) {
	f.record("userInvitations")
	username := r.PathValue("user")
	u, ok := f.owner(r)
	if !ok || u.Username != username {
		writePortalError(w, 403, "You do not have permissions to access this resource or perform this operation.")
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	invitations := f.Invitations[username]
	if invitations == nil {
		invitations = []portal.Invitation{}
	}
	writeJSON(w, map[string]any{"userInvitations": invitations})
}

func (f *FakePortal) accept(w http.ResponseWriter, r *http.Request) {
	f.record("acceptInvitation")
	username := r.PathValue("user")
	u, ok := f.owner(r)
	if !ok || u.Username != username {
		writePortalError(w, 403, "You do not have permissions to access this resource or perform this operation.")
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.AcceptFails {
		writeJSON(w, map[string]any{"success": false})
		return
	}
	id := r.PathValue("id")
	remaining := f.Invitations[username][:0]
	for _, inv := range f.Invitations[username] {
		if inv.ID == id {
			if g, ok := f.Groups[inv.GroupID]; ok {
				g.Users = append(g.Users, username)
			}
			continue
		}
		remaining = append(remaining, inv)
	}
	f.Invitations[username] = remaining
	writeJSON(w, map[string]any{"success": true, "username": username})
}

func (f *FakePortal) portalInvite(w http.ResponseWriter, r *http.Request) {
	f.record("portalInvite")
	if u, ok := f.owner(r); !ok || u.Username != f.ManagerUsername {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	if f.ProvisionError != "" {
		writePortalError(w, 400, "Unable to invite users.", f.ProvisionError)
		return
	}
	var list portal.InvitationList
	if err := json.Unmarshal([]byte(r.PostForm.Get("invitationList")), &list); err != nil {
		writePortalError(w, 400, "Invalid invitationList.")
		return
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	notInvited := []string{}
	for _, inv := range list.Invitations {
		if f.ExistingUsers[inv.Username] {
			notInvited = append(notInvited, inv.Username)
			continue
		}
		f.InvitedUsers = append(f.InvitedUsers, inv)
		f.CreatedUsers = append(f.CreatedUsers, inv.Username)
		f.ExistingUsers[inv.Username] = true
	}
	writeJSON(w, map[string]any{"success": true, "notInvited": notInvited})
}

func (f *FakePortal) createUser(w http.ResponseWriter, r *http.Request) {
	f.record("createUser")
	if u, ok := f.owner(r); !ok || u.Username != f.ManagerUsername {
		writePortalError(w, 498, "Invalid token.")
		return
	}
	if f.ProvisionError != "" {
		writePortalError(w, 500, "Unable to create user.", f.ProvisionError)
		return
	}
	username := r.PostForm.Get("username")
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.ExistingUsers[username] {
		writePortalError(w, 500, "Unable to create user.", fmt.Sprintf("A user with the username '%s' already exists.", username))
		return
	}
	f.ExistingUsers[username] = true
	f.CreatedUsers = append(f.CreatedUsers, username)
	writeJSON(w, map[string]any{"status": "success"})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
