// Package memory holds in-process implementations of the repository
// interfaces. They back the service and handler tests and share the
// bson field mapping of the Mongo stores.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mayhouse/database"
	"mayhouse/database/repository"
	bookingRepo "mayhouse/database/repository/booking"
	designRepo "mayhouse/database/repository/design"
	eventRunRepo "mayhouse/database/repository/eventRun"
	experienceRepo "mayhouse/database/repository/experience"
	hostApplicationRepo "mayhouse/database/repository/hostApplication"
	legalRepo "mayhouse/database/repository/legal"
	photoRepo "mayhouse/database/repository/photo"
	userRepo "mayhouse/database/repository/user"
	"mayhouse/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	_ userRepo.UserRepository                       = (*Users)(nil)
	_ experienceRepo.ExperienceRepository           = (*Experiences)(nil)
	_ eventRunRepo.EventRunRepository               = (*EventRuns)(nil)
	_ bookingRepo.BookingRepository                 = (*Bookings)(nil)
	_ hostApplicationRepo.HostApplicationRepository = (*HostApplications)(nil)
	_ legalRepo.LegalRepository                     = (*Legal)(nil)
	_ designRepo.DesignSessionRepository            = (*DesignSessions)(nil)
	_ photoRepo.PhotoRepository                     = (*Photos)(nil)
)

// applyFields round-trips doc through bson so field updates use the stored names.
func applyFields[T any](doc *T, fields map[string]any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	if raw, err = bson.Marshal(m); err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Users is an in-memory UserRepository.
type Users struct {
	mu    sync.Mutex
	items map[string]models.User
}

func NewUsers(seed ...models.User) *Users {
	r := &Users{items: map[string]models.User{}}
	for _, u := range seed {
		r.items[u.ID] = u
	}
	return r
}

func (r *Users) find(match func(u *models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if match(&u) {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *Users) GetByID(id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *Users) GetByIDs(ids []string) (map[string]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*models.User{}
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *Users) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u *models.User) bool { return email != "" && u.Email == email })
}

func (r *Users) GetByUsername(username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return username != "" && u.Username == username })
}

func (r *Users) GetByWallet(address string) (*models.User, error) {
	address = strings.ToLower(address)
	return r.find(func(u *models.User) bool { return address != "" && u.WalletAddress == address })
}

func (r *Users) GetByGoogleID(googleID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return googleID != "" && u.GoogleID == googleID })
}

func (r *Users) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Email = strings.ToLower(user.Email)
	user.WalletAddress = strings.ToLower(user.WalletAddress)
	r.items[user.ID] = *user
	return nil
}

func (r *Users) UpdateFields(id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	fields["updated_at"] = time.Now().UTC()
	if err := applyFields(&u, fields); err != nil {
		return err
	}
	r.items[id] = u
	return nil
}

func (r *Users) SetRole(id, role string) error {
	return r.UpdateFields(id, map[string]any{"role": role})
}

// Experiences is an in-memory ExperienceRepository.
type Experiences struct {
	mu    sync.Mutex
	items map[string]models.Experience
}

func NewExperiences(seed ...models.Experience) *Experiences {
	r := &Experiences{items: map[string]models.Experience{}}
	for _, e := range seed {
		r.items[e.ID] = e
	}
	return r
}

func (r *Experiences) Create(exp *models.Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	exp.CreatedAt, exp.UpdatedAt = now, now
	r.items[exp.ID] = *exp
	return nil
}

func (r *Experiences) GetByID(id string) (*models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.items[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *Experiences) GetByIDs(ids []string) (map[string]*models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]*models.Experience{}
	for _, id := range ids {
		if e, ok := r.items[id]; ok {
			out[id] = &e
		}
	}
	return out, nil
}

func sortTime(e *models.Experience, field string) time.Time {
	switch field {
	case "approved_at":
		if e.ApprovedAt != nil {
			return *e.ApprovedAt
		}
		return time.Time{}
	case "created_at":
		return e.CreatedAt
	default:
		return e.UpdatedAt
	}
}

func (r *Experiences) List(f models.ExperienceFilter) ([]models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Experience{}
	for _, e := range r.items {
		if len(f.IDs) > 0 && !contains(f.IDs, e.ID) {
			continue
		}
		if f.HostID != "" && e.HostID != f.HostID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Domain != "" && e.ExperienceDomain != f.Domain {
			continue
		}
		if f.Neighborhood != "" && !strings.Contains(strings.ToLower(e.Neighborhood), strings.ToLower(f.Neighborhood)) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortTime(&out[i], f.SortBy).After(sortTime(&out[j], f.SortBy))
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *Experiences) UpdateFields(id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return fmt.Errorf("experience %s: %w", id, database.ErrNotFound)
	}
	fields["updated_at"] = time.Now().UTC()
	if err := applyFields(&e, fields); err != nil {
		return err
	}
	r.items[id] = e
	return nil
}

// EventRuns is an in-memory EventRunRepository.
type EventRuns struct {
	mu    sync.Mutex
	items map[string]models.EventRun
}

func NewEventRuns(seed ...models.EventRun) *EventRuns {
	r := &EventRuns{items: map[string]models.EventRun{}}
	for _, e := range seed {
		r.items[e.ID] = e
	}
	return r
}

func matchRun(q eventRunRepo.Query, run *models.EventRun) bool {
	if len(q.IDs) > 0 && !contains(q.IDs, run.ID) {
		return false
	}
	if q.HostID != "" && run.HostID != q.HostID {
		return false
	}
	if len(q.ExperienceIDs) > 0 && !contains(q.ExperienceIDs, run.ExperienceID) {
		return false
	}
	if len(q.Statuses) > 0 && !contains(q.Statuses, run.Status) {
		return false
	}
	if len(q.ExcludeStatuses) > 0 && contains(q.ExcludeStatuses, run.Status) {
		return false
	}
	if q.StartFrom != nil && run.StartDatetime.Before(*q.StartFrom) {
		return false
	}
	if q.StartTo != nil && run.StartDatetime.After(*q.StartTo) {
		return false
	}
	if q.EndBefore != nil && !run.EndDatetime.Before(*q.EndBefore) {
		return false
	}
	return true
}

func (r *EventRuns) Create(run *models.EventRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now
	r.items[run.ID] = *run
	return nil
}

func (r *EventRuns) GetByID(id string) (*models.EventRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.items[id]; ok {
		return &run, nil
	}
	return nil, nil
}

func (r *EventRuns) List(q eventRunRepo.Query) ([]models.EventRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.EventRun{}
	for _, run := range r.items {
		if matchRun(q, &run) {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Ascending {
			return out[i].StartDatetime.Before(out[j].StartDatetime)
		}
		return out[i].StartDatetime.After(out[j].StartDatetime)
	})
	return page(out, q.Limit, q.Offset), nil
}

func (r *EventRuns) Count(q eventRunRepo.Query) (int, error) {
	q.Limit, q.Offset = 0, 0
	runs, err := r.List(q)
	return len(runs), err
}

func (r *EventRuns) UpdateFields(id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.items[id]
	if !ok {
		return fmt.Errorf("event run %s: %w", id, database.ErrNotFound)
	}
	fields["updated_at"] = time.Now().UTC()
	if err := applyFields(&run, fields); err != nil {
		return err
	}
	r.items[id] = run
	return nil
}

func (r *EventRuns) UpdateStatusWhere(q eventRunRepo.Query, status string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	n := 0
	for id, run := range r.items {
		if !matchRun(q, &run) {
			continue
		}
		run.Status = status
		run.UpdatedAt = now
		if status == models.EventRunCompleted {
			run.CompletedAt = &now
		}
		r.items[id] = run
		n++
	}
	return n, nil
}

func (r *EventRuns) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("event run %s: %w", id, database.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

// Bookings is an in-memory BookingRepository.
type Bookings struct {
	mu    sync.Mutex
	items []models.Booking
}

func NewBookings(seed ...models.Booking) *Bookings {
	return &Bookings{items: append([]models.Booking{}, seed...)}
}

func (r *Bookings) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	r.items = append(r.items, *b)
	return nil
}

func (r *Bookings) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.items {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *Bookings) ListByTraveler(travelerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].TravelerID == travelerID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *Bookings) ListByEventRuns(ids []string, statuses ...string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for _, b := range r.items {
		if !contains(ids, b.EventRunID) {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, b.BookingStatus) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Bookings) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].BookingStatus = status
			r.items[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
}

// HostApplications is an in-memory HostApplicationRepository.
type HostApplications struct {
	mu    sync.Mutex
	items []models.HostApplication
}

func NewHostApplications(seed ...models.HostApplication) *HostApplications {
	return &HostApplications{items: append([]models.HostApplication{}, seed...)}
}

func (r *HostApplications) Create(app *models.HostApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *app)
	return nil
}

func (r *HostApplications) GetByID(id string) (*models.HostApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *HostApplications) LatestByUser(userID, status string) (*models.HostApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.HostApplication
	for i := range r.items {
		a := r.items[i]
		if a.UserID != userID || (status != "" && a.Status != status) {
			continue
		}
		if latest == nil || a.AppliedAt.After(latest.AppliedAt) {
			latest = &a
		}
	}
	return latest, nil
}

func (r *HostApplications) List(status string, limit, offset int) ([]models.HostApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.HostApplication{}
	for _, a := range r.items {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return page(out, limit, offset), nil
}

func (r *HostApplications) UpdateFields(id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			return applyFields(&r.items[i], fields)
		}
	}
	return fmt.Errorf("host application %s: %w", id, database.ErrNotFound)
}

// Legal is an in-memory LegalRepository.
type Legal struct {
	mu          sync.Mutex
	policies    []models.LegalPolicy
	acceptances []models.PolicyAcceptance
}

func NewLegal(seed ...models.LegalPolicy) *Legal {
	return &Legal{policies: append([]models.LegalPolicy{}, seed...)}
}

func (r *Legal) UpsertPolicy(p *models.LegalPolicy) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.policies {
		if existing.PolicyType == p.PolicyType && existing.Version == p.Version {
			return false, nil
		}
	}
	r.policies = append(r.policies, *p)
	return true, nil
}

func (r *Legal) ActivePolicy(policyType string) (*models.LegalPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.LegalPolicy
	for i := range r.policies {
		p := r.policies[i]
		if p.PolicyType != policyType || p.Status != models.PolicyActive {
			continue
		}
		if best == nil || p.EffectiveDate.After(best.EffectiveDate) {
			best = &p
		}
	}
	return best, nil
}

func (r *Legal) CreateAcceptance(acc *models.PolicyAcceptance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acceptances = append(r.acceptances, *acc)
	return nil
}

func (r *Legal) FindAcceptance(userID, policyID, version string) (*models.PolicyAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.acceptances {
		if a.UserID == userID && a.PolicyID == policyID && a.PolicyVersion == version {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *Legal) ListAcceptances(userID string) ([]models.PolicyAcceptance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PolicyAcceptance{}
	for i := len(r.acceptances) - 1; i >= 0; i-- {
		if r.acceptances[i].UserID == userID {
			out = append(out, r.acceptances[i])
		}
	}
	return out, nil
}

// DesignSessions is an in-memory DesignSessionRepository.
type DesignSessions struct {
	mu    sync.Mutex
	items map[string]models.DesignSession
}

func NewDesignSessions() *DesignSessions {
	return &DesignSessions{items: map[string]models.DesignSession{}}
}

func (r *DesignSessions) Create(s *models.DesignSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	r.items[s.ID] = *s
	return nil
}

func (r *DesignSessions) Get(id, hostID string) (*models.DesignSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok && s.HostID == hostID {
		return &s, nil
	}
	return nil, nil
}

func (r *DesignSessions) GetByExperience(experienceID, hostID string) (*models.DesignSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if s.ExperienceID == experienceID && s.HostID == hostID {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *DesignSessions) UpdateFields(id, hostID string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || s.HostID != hostID {
		return fmt.Errorf("design session %s: %w", id, database.ErrNotFound)
	}
	fields["updated_at"] = time.Now().UTC()
	if err := applyFields(&s, fields); err != nil {
		return err
	}
	r.items[id] = s
	return nil
}

// Photos is an in-memory PhotoRepository.
type Photos struct {
	mu    sync.Mutex
	items []models.ExperiencePhoto
}

func NewPhotos(seed ...models.ExperiencePhoto) *Photos {
	return &Photos{items: append([]models.ExperiencePhoto{}, seed...)}
}

func (r *Photos) Create(p *models.ExperiencePhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *p)
	return nil
}

func (r *Photos) GetByID(experienceID, photoID string) (*models.ExperiencePhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID == photoID && p.ExperienceID == experienceID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *Photos) ListByExperiences(ids []string) ([]models.ExperiencePhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ExperiencePhoto{}
	for _, p := range r.items {
		if contains(ids, p.ExperienceID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *Photos) Count(experienceID string) (int, error) {
	list, _ := r.ListByExperiences([]string{experienceID})
	return len(list), nil
}

func (r *Photos) UnsetCovers(experienceID, keepID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ExperienceID == experienceID && r.items[i].ID != keepID {
			r.items[i].IsCoverPhoto = false
		}
	}
	return nil
}

func (r *Photos) UpdateFields(photoID string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == photoID {
			return applyFields(&r.items[i], fields)
		}
	}
	return fmt.Errorf("photo %s: %w", photoID, database.ErrNotFound)
}

func (r *Photos) Delete(photoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == photoID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("photo %s: %w", photoID, database.ErrNotFound)
}

// NewRepositories returns an empty in-memory repository bundle.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Users:            NewUsers(),
		Experiences:      NewExperiences(),
		EventRuns:        NewEventRuns(),
		Bookings:         NewBookings(),
		HostApplications: NewHostApplications(),
		Legal:            NewLegal(),
		DesignSessions:   NewDesignSessions(),
		Photos:           NewPhotos(),
	}
}
