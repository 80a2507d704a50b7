package usecase

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs the in-memory repositories used by the usecase tests.
type memStore struct {
	mu         sync.Mutex
	clock      time.Time
	users      map[primitive.ObjectID]*models.User
	complaints map[primitive.ObjectID]*models.Complaint
	messages   map[primitive.ObjectID]*models.Message
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[primitive.ObjectID]*models.User{},
		complaints: map[primitive.ObjectID]*models.Complaint{},
		messages:   map[primitive.ObjectID]*models.Message{},
	}
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) summary(id *primitive.ObjectID) *models.UserSummary {
	if id == nil {
		return nil
	}
	return s.users[*id].Summary()
}

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return models.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if update.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *update.Email {
				return nil, models.ErrConflict
			}
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	u.UpdatedAt = r.s.tick()
	out := *u
	return &out, nil
}

func (r fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if existing, err := r.GetByEmail(ctx, user.Email); err == nil {
		_, err := r.Update(ctx, existing.ID, models.UserUpdate{Name: &user.Name, Role: &user.Role})
		return err
	}
	user.IsActive = true
	return r.Create(ctx, user)
}

func (r fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r fakeUserRepo) List(_ context.Context, role models.Role) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.s.users {
		if role == "" || u.Role == role {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeUserRepo) Count(ctx context.Context, role models.Role) (int64, error) {
	users, _ := r.List(ctx, role)
	return int64(len(users)), nil
}

type fakeComplaintRepo struct{ s *memStore }

func (r fakeComplaintRepo) Create(_ context.Context, c *models.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	r.s.complaints[c.ID] = &stored
	return nil
}

func (r fakeComplaintRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r fakeComplaintRepo) view(c *models.Complaint) *models.ComplaintView {
	return &models.ComplaintView{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Priority:      c.Priority,
		Status:        c.Status,
		Customer:      r.s.summary(&c.Customer),
		AssignedAgent: r.s.summary(c.AssignedAgent),
		AssignedBy:    r.s.summary(c.AssignedBy),
		AssignedAt:    c.AssignedAt,
		ResolvedAt:    c.ResolvedAt,
		Resolution:    c.Resolution,
		Attachments:   c.Attachments,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r fakeComplaintRepo) GetView(_ context.Context, id primitive.ObjectID) (*models.ComplaintView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r.view(c), nil
}

func matchComplaint(f models.ComplaintFilter, c *models.Complaint) bool {
	if f.Customer != nil && c.Customer != *f.Customer {
		return false
	}
	if f.AssignedAgent != nil && !c.IsAssignedTo(*f.AssignedAgent) {
		return false
	}
	if f.AssignedAgent == nil && f.Unassigned && c.AssignedAgent != nil {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

func (r fakeComplaintRepo) ListViews(_ context.Context, f models.ComplaintFilter, limit int64) ([]*models.ComplaintView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.ComplaintView{}
	for _, c := range r.s.complaints {
		if matchComplaint(f, c) {
			out = append(out, r.view(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeComplaintRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, change models.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return models.ErrNotFound
	}
	c.Status = change.Status
	if change.Resolution != nil {
		c.Resolution = *change.Resolution
	}
	if change.ResolvedAt != nil {
		at := *change.ResolvedAt
		c.ResolvedAt = &at
	}
	c.UpdatedAt = r.s.tick()
	return nil
}

func (r fakeComplaintRepo) Assign(_ context.Context, ids []primitive.ObjectID, a models.Assignment) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		c, ok := r.s.complaints[id]
		if !ok {
			continue
		}
		agent, by, at := a.Agent, a.AssignedBy, a.AssignedAt
		c.AssignedAgent, c.AssignedBy, c.AssignedAt = &agent, &by, &at
		c.Status = models.StatusAssigned
		c.UpdatedAt = a.AssignedAt
		n++
	}
	return n, nil
}

func (r fakeComplaintRepo) AddAttachment(_ context.Context, id primitive.ObjectID, a models.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return models.ErrNotFound
	}
	c.Attachments = append(c.Attachments, a)
	return nil
}

func (r fakeComplaintRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.complaints[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.s.complaints, id)
	return nil
}

func (r fakeComplaintRepo) Count(_ context.Context, f models.ComplaintFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.complaints {
		if matchComplaint(f, c) {
			n++
		}
	}
	return n, nil
}

func (r fakeComplaintRepo) CountBy(_ context.Context, field string) ([]models.GroupCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int64{}
	for _, c := range r.s.complaints {
		switch field {
		case "category":
			counts[string(c.Category)]++
		case "status":
			counts[string(c.Status)]++
		}
	}
	out := []models.GroupCount{}
	for k, v := range counts {
		out = append(out, models.GroupCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeMessageRepo struct{ s *memStore }

func (r fakeMessageRepo) Create(_ context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = r.s.tick()
	stored := *m
	r.s.messages[m.ID] = &stored
	return nil
}

func (r fakeMessageRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *m
	return &out, nil
}

func (r fakeMessageRepo) view(m *models.Message) *models.MessageView {
	var ref *models.ComplaintRef
	if c, ok := r.s.complaints[m.Complaint]; ok {
		ref = &models.ComplaintRef{ID: c.ID, Title: c.Title}
	}
	return &models.MessageView{
		ID:          m.ID,
		Complaint:   ref,
		Sender:      r.s.summary(&m.Sender),
		Receiver:    r.s.summary(&m.Receiver),
		Content:     m.Content,
		MessageType: m.MessageType,
		FileURL:     m.FileURL,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func (r fakeMessageRepo) GetView(_ context.Context, id primitive.ObjectID) (*models.MessageView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r.view(m), nil
}

func (r fakeMessageRepo) list(match func(*models.Message) bool, newestFirst bool, limit int) []*models.MessageView {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.MessageView{}
	for _, m := range r.s.messages {
		if match(m) {
			out = append(out, r.view(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r fakeMessageRepo) ListByComplaint(_ context.Context, complaintID primitive.ObjectID) ([]*models.MessageView, error) {
	return r.list(func(m *models.Message) bool { return m.Complaint == complaintID }, false, 0), nil
}

func (r fakeMessageRepo) Inbox(_ context.Context, receiverID primitive.ObjectID, limit int64) ([]*models.MessageView, error) {
	return r.list(func(m *models.Message) bool { return m.Receiver == receiverID }, true, int(limit)), nil
}

func (r fakeMessageRepo) MarkRead(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.messages[id]
	if !ok {
		return models.ErrNotFound
	}
	m.IsRead = true
	m.ReadAt = &at
	return nil
}

func (r fakeMessageRepo) CountUnread(_ context.Context, receiverID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if m.Receiver == receiverID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r fakeMessageRepo) DeleteByComplaint(_ context.Context, complaintID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.messages {
		if m.Complaint == complaintID {
			delete(r.s.messages, id)
			n++
		}
	}
	return n, nil
}

type fakeStorage struct {
	enabled bool
	objects map[string][]byte
}

func (f *fakeStorage) Enabled() bool { return f.enabled }

func (f *fakeStorage) EnsureBucket(context.Context) error { return nil }

func (f *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if !f.enabled {
		return models.ErrStorageDisabled
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key, _ string) (string, error) {
	if !f.enabled {
		return "", models.ErrStorageDisabled
	}
	return "https://objects.test/" + key, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *fakePublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) names() []models.EventName {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventName, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name)
	}
	return out
}

// fixture wires every usecase against one memStore.
type fixture struct {
	store      *memStore
	users      fakeUserRepo
	complaints fakeComplaintRepo
	messages   fakeMessageRepo
	storage    *fakeStorage
	publisher  *fakePublisher

	auth      AuthUsecase
	complaint ComplaintUsecase
	message   MessageUsecase
	admin     AdminUsecase
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret",
			Issuer:      "complaint-registry",
			SignupRoles: []string{"customer", "agent", "admin"},
			BcryptCost:  4,
		},
		Storage: config.StorageConfig{MaxBytes: 1024},
	}
}

func newFixture() *fixture {
	s := newMemStore()
	f := &fixture{
		store:      s,
		users:      fakeUserRepo{s},
		complaints: fakeComplaintRepo{s},
		messages:   fakeMessageRepo{s},
		storage:    &fakeStorage{},
		publisher:  &fakePublisher{},
	}
	conf := testConfig()
	f.auth = NewAuthUsecase(conf, f.users)
	f.complaint = NewComplaintUsecase(conf, f.complaints, f.messages, f.users, f.storage, f.publisher)
	f.message = NewMessageUsecase(f.messages, f.complaints, f.publisher)
	f.admin = NewAdminUsecase(f.users, f.complaints)
	return f
}

func (f *fixture) user(role models.Role, name string) *models.User {
	u := &models.User{Name: name, Email: name + "@example.com", Role: role, IsActive: true}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) complaintFor(customer *models.User) *models.Complaint {
	c := &models.Complaint{
		Title:       "Router keeps rebooting",
		Description: "Every hour",
		Category:    models.CategoryTechnical,
		Priority:    models.PriorityMedium,
		Status:      models.StatusPending,
		Customer:    customer.ID,
	}
	if err := f.complaints.Create(context.Background(), c); err != nil {
		panic(err)
	}
	return c
}

func (f *fixture) assign(c *models.Complaint, agent, admin *models.User) {
	if _, err := f.complaints.Assign(context.Background(), []primitive.ObjectID{c.ID}, models.Assignment{
		Agent:      agent.ID,
		AssignedBy: admin.ID,
		AssignedAt: f.store.tick(),
	}); err != nil {
		panic(err)
	}
}

func upload(body string) AttachmentUpload {
	return AttachmentUpload{
		Filename:    "receipt.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        bytes.NewBufferString(body),
	}
}
