package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/config"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"github.com/hamim5264/devengine/services"
)

const (
	testSite     = "https://site.test"
	adminToken   = "admin-token"
	buyerToken   = "buyer-token"
	testAdminUID = "admin-1"
	testBuyerUID = "buyer-1"
)

type memoryProjects struct {
	mu       sync.Mutex
	projects map[string]models.Project
	order    []string
}

func newMemoryProjects(projects ...models.Project) *memoryProjects {
	m := &memoryProjects{projects: map[string]models.Project{}}
	for _, p := range projects {
		m.projects[p.Slug] = p
		m.order = append(m.order, p.Slug)
	}
	return m
}

func (m *memoryProjects) FindAll(ctx context.Context, includeDrafts bool) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Project
	for _, slug := range m.order {
		p := m.projects[slug]
		if p.IsPublic || includeDrafts {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryProjects) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[slug]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	return &p, nil
}

func (m *memoryProjects) Add(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[project.Slug]; ok {
		return errs.NewAlreadyExists("project")
	}
	m.projects[project.Slug] = *project
	m.order = append(m.order, project.Slug)
	return nil
}

func (m *memoryProjects) Update(ctx context.Context, project *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[project.Slug]; !ok {
		return errs.NewNotFound("project")
	}
	m.projects[project.Slug] = *project
	return nil
}

func (m *memoryProjects) TogglePublic(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[slug]
	if !ok {
		return false, errs.NewNotFound("project")
	}
	p.IsPublic = !p.IsPublic
	m.projects[slug] = p
	return p.IsPublic, nil
}

func (m *memoryProjects) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[slug]; !ok {
		return errs.NewNotFound("project")
	}
	delete(m.projects, slug)
	for i, s := range m.order {
		if s == slug {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryProjects) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.projects)), nil
}

func (m *memoryProjects) CountCategories(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[models.Category]bool{}
	for _, p := range m.projects {
		seen[p.Category] = true
	}
	return int64(len(seen)), nil
}

func (m *memoryProjects) RecentDrafts(ctx context.Context, limit int) ([]models.Project, error) {
	all, _ := m.FindAll(ctx, true)
	var drafts []models.Project
	for _, p := range all {
		if !p.IsPublic && len(drafts) < limit {
			drafts = append(drafts, p)
		}
	}
	return drafts, nil
}

type memoryTags struct {
	mu   sync.Mutex
	tags map[string]models.Tag
}

func newMemoryTags(tags ...models.Tag) *memoryTags {
	m := &memoryTags{tags: map[string]models.Tag{}}
	for _, t := range tags {
		m.tags[t.ID] = t
	}
	return m
}

func (m *memoryTags) FindAll(ctx context.Context) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryTags) Add(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[tag.ID]; ok {
		return errs.NewAlreadyExists("tag")
	}
	m.tags[tag.ID] = *tag
	return nil
}

func (m *memoryTags) Rename(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return errs.NewNotFound("tag")
	}
	m.tags[id] = models.Tag{ID: id, Name: name}
	return nil
}

func (m *memoryTags) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return errs.NewNotFound("tag")
	}
	delete(m.tags, id)
	return nil
}

func (m *memoryTags) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tags)), nil
}

type memoryApps struct {
	mu   sync.Mutex
	apps map[string]models.AppLabEntry
}

func newMemoryApps(apps ...models.AppLabEntry) *memoryApps {
	m := &memoryApps{apps: map[string]models.AppLabEntry{}}
	for _, a := range apps {
		m.apps[a.Slug] = a
	}
	return m
}

func (m *memoryApps) FindAll(ctx context.Context, includeDrafts bool) ([]models.AppLabEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AppLabEntry
	for _, a := range m.apps {
		if a.IsPublic || includeDrafts {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *memoryApps) FindBySlug(ctx context.Context, slug string) (*models.AppLabEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[slug]
	if !ok {
		return nil, errs.NewNotFound("app")
	}
	return &a, nil
}

func (m *memoryApps) Add(ctx context.Context, entry *models.AppLabEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[entry.Slug]; ok {
		return errs.NewAlreadyExists("app")
	}
	m.apps[entry.Slug] = *entry
	return nil
}

func (m *memoryApps) TogglePublic(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[slug]
	if !ok {
		return false, errs.NewNotFound("app")
	}
	a.IsPublic = !a.IsPublic
	m.apps[slug] = a
	return a.IsPublic, nil
}

func (m *memoryApps) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[slug]; !ok {
		return errs.NewNotFound("app")
	}
	delete(m.apps, slug)
	return nil
}

func (m *memoryApps) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.apps)), nil
}

type memoryUsers struct {
	mu        sync.Mutex
	users     map[string]models.UserProfile
	upsertErr error
}

func newMemoryUsers(users ...models.UserProfile) *memoryUsers {
	m := &memoryUsers{users: map[string]models.UserProfile{}}
	for _, u := range users {
		m.users[u.UID] = u
	}
	return m
}

func (m *memoryUsers) FindByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[uid]
	if !ok {
		return nil, errs.NewNotFound("user")
	}
	return &u, nil
}

func (m *memoryUsers) Upsert(ctx context.Context, user *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.users[user.UID] = *user
	return nil
}

func (m *memoryUsers) List(ctx context.Context, limit int) ([]models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserProfile, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryUsers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

type memoryPurchases struct {
	mu        sync.Mutex
	purchases []models.Purchase
}

func (m *memoryPurchases) Record(ctx context.Context, purchase *models.Purchase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.purchases {
		if p.TransactionID == purchase.TransactionID {
			return false, nil
		}
	}
	m.purchases = append(m.purchases, *purchase)
	return true, nil
}

func (m *memoryPurchases) FindByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPurchases) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.purchases)), nil
}

type memoryReviews struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (m *memoryReviews) FindAll(ctx context.Context) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Review(nil), m.reviews...), nil
}

func (m *memoryReviews) Add(ctx context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append([]models.Review{*review}, m.reviews...)
	return nil
}

// fakeAuth accepts a fixed set of tokens.
type fakeAuth struct {
	mu          sync.Mutex
	identities  map[string]auth.Identity
	signedUp    []auth.SignUpInput
	signedOut   []string
	resetEmails []string
	signInErr   error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{identities: map[string]auth.Identity{
		adminToken: {UID: testAdminUID, Email: "admin@devengine.dev", Name: "Admin", Role: models.RoleAdmin},
		buyerToken: {UID: testBuyerUID, Email: "buyer@example.com", Name: "Rahim", Role: models.RoleCustomer},
	}}
}

func (f *fakeAuth) session(token string, id auth.Identity) *auth.Session {
	return &auth.Session{Token: token, ExpiresAt: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Identity: id}
}

func (f *fakeAuth) SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.identities {
		if id.Email == in.Email {
			return nil, errs.NewAlreadyExists("account")
		}
	}
	f.signedUp = append(f.signedUp, in)
	id := auth.Identity{UID: "new-" + in.Email, Email: in.Email, Name: in.Name, Role: models.RoleCustomer}
	token := "token-" + in.Email
	f.identities[token] = id
	return f.session(token, id), nil
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, id := range f.identities {
		if id.Email == email {
			return f.session(token, id), nil
		}
	}
	return nil, errs.NewInvalidCredentialsError()
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeAuth) SendPasswordReset(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetEmails = append(f.resetEmails, email)
	return errors.New("mail provider down")
}

func (f *fakeAuth) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if code != "good-code" {
		return errs.NewInvalidResetCodeError()
	}
	return nil
}

func (f *fakeAuth) Validate(ctx context.Context, token string) (*auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.identities[token]
	if !ok {
		return nil, errs.NewInvalidTokenError(errors.New("unknown token"))
	}
	return &id, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	requests    []services.PaymentRequest
	initiateErr error
	validations map[string]services.Validation
	validated   int
}

func (g *fakeGateway) InitiatePayment(ctx context.Context, req services.PaymentRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.initiateErr != nil {
		return "", g.initiateErr
	}
	return "https://sandbox.sslcommerz.test/pay/" + req.TranID, nil
}

func (g *fakeGateway) ValidatePayment(ctx context.Context, valID string) (*services.Validation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.validated++
	v, ok := g.validations[valID]
	if !ok {
		return nil, errs.NewGatewayRejectedError("unknown val_id")
	}
	return &v, nil
}

func (g *fakeGateway) initiated() []services.PaymentRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]services.PaymentRequest(nil), g.requests...)
}

type fakeContactMailer struct {
	sent []services.ContactMessage
	err  error
}

func (f *fakeContactMailer) SendContact(ctx context.Context, msg services.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type notification struct {
	purchase models.Purchase
	mobile   string
}

type fakeNotifier struct {
	calls chan notification
}

func (f fakeNotifier) NotifyPurchase(ctx context.Context, p models.Purchase, mobile string) error {
	f.calls <- notification{purchase: p, mobile: mobile}
	return nil
}

type fakeUploader struct {
	name string
	body []byte
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.name = filename
	f.body, _ = io.ReadAll(body)
	return "https://cdn.test/uploads/" + filename, nil
}

type testEnv struct {
	router    *chi.Mux
	projects  *memoryProjects
	tags      *memoryTags
	apps      *memoryApps
	users     *memoryUsers
	purchases *memoryPurchases
	reviews   *memoryReviews
	auth      *fakeAuth
	gateway   *fakeGateway
	mailer    *fakeContactMailer
	notifier  fakeNotifier
	uploader  *fakeUploader
}

func testSettings() config.Settings {
	return config.Settings{
		SiteBaseURL:     testSite,
		APIBaseURL:      "https://api.test",
		SessionCookie:   "devengine_session",
		AcceptedOrigins: []string{testSite},
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		Payment: config.PaymentSettings{
			DefaultCity:    "Dhaka",
			DefaultCountry: "Bangladesh",
			DefaultAddress: "Dhaka",
			DefaultPhone:   "01700000000",
		},
	}
}

func newTestEnv(t *testing.T, projects ...models.Project) *testEnv {
	t.Helper()
	env := &testEnv{
		projects: newMemoryProjects(projects...),
		tags: newMemoryTags(
			models.Tag{ID: "most-popular", Name: "Most Popular"},
			models.Tag{ID: "trending", Name: "Trending"},
		),
		apps:      newMemoryApps(),
		users:     newMemoryUsers(),
		purchases: &memoryPurchases{},
		reviews:   &memoryReviews{},
		auth:      newFakeAuth(),
		gateway:   &fakeGateway{validations: map[string]services.Validation{}},
		mailer:    &fakeContactMailer{},
		notifier:  fakeNotifier{calls: make(chan notification, 4)},
		uploader:  &fakeUploader{},
	}
	env.router = newRouter(testSettings(), Dependencies{
		Projects:  env.projects,
		Tags:      env.tags,
		AppLab:    env.apps,
		Users:     env.users,
		Purchases: env.purchases,
		Reviews:   env.reviews,
		Auth:      env.auth,
		Gateway:   env.gateway,
		Mailer:    env.mailer,
		Notifier:  env.notifier,
		Storage:   env.uploader,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func publicProject(slug, title, price, discount string, category models.Category, tags ...string) models.Project {
	return models.Project{
		Slug:     slug,
		Title:    title,
		Price:    price,
		Discount: discount,
		Category: category,
		Tags:     tags,
		Tools:    []string{},
		IsPublic: true,
	}
}
