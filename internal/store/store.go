// Package store holds the authoritative instructor, student and announcement
// collections and persists them through a key/value repository.
//
// Every mutation builds replacement slices, flushes all three collections and
// only then swaps them in, so a failed flush leaves the store untouched.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/repository"
	apperrors "github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/errors"
)

var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrDuplicateID      = errors.New("identity id already exists")
)

// Keys names the three persisted records.
type Keys struct {
	Instructors   string
	Students      string
	Announcements string
}

// NewKeys builds the fixed key names under prefix.
func NewKeys(prefix string) Keys {
	return Keys{
		Instructors:   prefix + "instructors",
		Students:      prefix + "students",
		Announcements: prefix + "announcements",
	}
}

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Instructors   []model.Instructor
	Students      []model.Student
	Announcements []model.Announcement
}

type state struct {
	instructors   []model.Instructor
	students      []model.Student
	announcements []model.Announcement
}

// Store is the identity store. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	kv     repository.KVRepository
	keys   Keys
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	cur state
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Open loads the collections from kv. A missing instructor or student record
// is replaced by the bootstrap seed, a missing announcement record by an
// empty feed. Unreadable stored data falls back the same way and is logged.
// When anything fell back, the result is flushed immediately.
func Open(ctx context.Context, kv repository.KVRepository, keys Keys, logger *zap.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		keys:   keys,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	seedT, seedS := Seed()
	var fellBack bool

	instructors, fb, err := load(ctx, s, keys.Instructors, seedT)
	if err != nil {
		return nil, err
	}
	fellBack = fellBack || fb

	students, fb, err := load(ctx, s, keys.Students, seedS)
	if err != nil {
		return nil, err
	}
	fellBack = fellBack || fb

	announcements, fb, err := load(ctx, s, keys.Announcements, []model.Announcement{})
	if err != nil {
		return nil, err
	}
	fellBack = fellBack || fb

	next := state{
		instructors:   normalizeInstructors(instructors),
		students:      normalizeStudents(students),
		announcements: announcements,
	}
	if fellBack {
		if err := s.commit(ctx, next); err != nil {
			return nil, err
		}
	} else {
		s.cur = next
	}

	logger.Info("identity store loaded",
		zap.Int("instructors", len(next.instructors)),
		zap.Int("students", len(next.students)),
		zap.Int("announcements", len(next.announcements)),
	)
	return s, nil
}

func load[T any](ctx context.Context, s *Store, key string, fallback []T) ([]T, bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, apperrors.ErrKeyNotFound) || (err == nil && len(raw) == 0) {
		return fallback, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("stored collection unreadable, using fallback",
			zap.String("key", key), zap.Error(err))
		return fallback, true, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, false, nil
}

// commit flushes next and swaps it in. Callers hold s.mu for writing, except
// Open which runs before the store is shared.
func (s *Store) commit(ctx context.Context, next state) error {
	entries := make(map[string][]byte, 3)
	var err error
	if entries[s.keys.Instructors], err = json.Marshal(next.instructors); err != nil {
		return fmt.Errorf("encode instructors: %w", err)
	}
	if entries[s.keys.Students], err = json.Marshal(next.students); err != nil {
		return fmt.Errorf("encode students: %w", err)
	}
	if entries[s.keys.Announcements], err = json.Marshal(next.announcements); err != nil {
		return fmt.Errorf("encode announcements: %w", err)
	}
	if err := s.kv.PutAll(ctx, entries); err != nil {
		return fmt.Errorf("flush store: %w", err)
	}
	s.cur = next
	return nil
}

// ── reads ──

// Instructors returns a copy of the instructor list.
func (s *Store) Instructors() []model.Instructor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneInstructors(s.cur.instructors)
}

// Students returns a copy of the student list.
func (s *Store) Students() []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStudents(s.cur.students)
}

// Announcements returns a copy of the feed, newest insertion first.
func (s *Store) Announcements() []model.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Announcement(nil), s.cur.announcements...)
}

// Snapshot returns a consistent copy of all collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Instructors:   cloneInstructors(s.cur.instructors),
		Students:      cloneStudents(s.cur.students),
		Announcements: append([]model.Announcement(nil), s.cur.announcements...),
	}
}

// FindInstructor looks an instructor up by id.
func (s *Store) FindInstructor(id string) (model.Instructor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexInstructor(s.cur.instructors, id); i >= 0 {
		in := s.cur.instructors[i]
		in.Identity = in.Identity.Clone()
		return in, true
	}
	return model.Instructor{}, false
}

// FindStudent looks a student up by id.
func (s *Store) FindStudent(id string) (model.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexStudent(s.cur.students, id); i >= 0 {
		st := s.cur.students[i]
		st.Identity = st.Identity.Clone()
		return st, true
	}
	return model.Student{}, false
}

// FindByEmail returns the first instructor, then student, whose email
// matches case-insensitively.
func (s *Store) FindByEmail(email string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, in := range s.cur.instructors {
		if in.MatchesEmail(email) {
			acc := in.Account()
			acc.Identity = acc.Identity.Clone()
			return acc, true
		}
	}
	for _, st := range s.cur.students {
		if st.MatchesEmail(email) {
			acc := st.Account()
			acc.Identity = acc.Identity.Clone()
			return acc, true
		}
	}
	return model.Account{}, false
}

// ── mutations ──

// AddInstructor appends an instructor. An empty ID is generated.
func (s *Store) AddInstructor(ctx context.Context, in model.Instructor) (model.Instructor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID == "" {
		in.ID = s.newID()
	}
	if s.idTaken(in.ID) {
		return model.Instructor{}, ErrDuplicateID
	}
	in = normalizeInstructor(in)

	next := s.cur
	next.instructors = append(cloneInstructors(s.cur.instructors), in)
	if err := s.commit(ctx, next); err != nil {
		return model.Instructor{}, err
	}
	return in, nil
}

// AddStudent appends a student. An empty ID is generated. TeacherID is
// stored as given.
func (s *Store) AddStudent(ctx context.Context, st model.Student) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.ID == "" {
		st.ID = s.newID()
	}
	if s.idTaken(st.ID) {
		return model.Student{}, ErrDuplicateID
	}
	st = normalizeStudent(st)

	next := s.cur
	next.students = append(cloneStudents(s.cur.students), st)
	if err := s.commit(ctx, next); err != nil {
		return model.Student{}, err
	}
	return st, nil
}

// UpdateInstructor applies fn to the current instructor under the write lock
// and commits the result. An error from fn aborts without writing. The id and
// role are kept.
func (s *Store) UpdateInstructor(ctx context.Context, id string, fn func(*model.Instructor) error) (model.Instructor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexInstructor(s.cur.instructors, id)
	if i < 0 {
		return model.Instructor{}, ErrIdentityNotFound
	}
	in := s.cur.instructors[i]
	in.Identity = in.Identity.Clone()
	if err := fn(&in); err != nil {
		return model.Instructor{}, err
	}
	in.ID = id
	in = normalizeInstructor(in)

	next := s.cur
	next.instructors = cloneInstructors(s.cur.instructors)
	next.instructors[i] = in
	if err := s.commit(ctx, next); err != nil {
		return model.Instructor{}, err
	}
	in.Identity = in.Identity.Clone()
	return in, nil
}

// UpdateStudent is UpdateInstructor for students.
func (s *Store) UpdateStudent(ctx context.Context, id string, fn func(*model.Student) error) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexStudent(s.cur.students, id)
	if i < 0 {
		return model.Student{}, ErrIdentityNotFound
	}
	st := s.cur.students[i]
	st.Identity = st.Identity.Clone()
	if err := fn(&st); err != nil {
		return model.Student{}, err
	}
	st.ID = id
	st = normalizeStudent(st)

	next := s.cur
	next.students = cloneStudents(s.cur.students)
	next.students[i] = st
	if err := s.commit(ctx, next); err != nil {
		return model.Student{}, err
	}
	st.Identity = st.Identity.Clone()
	return st, nil
}

// ToggleInstructorStatus flips between active and paused and returns the
// new status.
func (s *Store) ToggleInstructorStatus(ctx context.Context, id string) (model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexInstructor(s.cur.instructors, id)
	if i < 0 {
		return "", ErrIdentityNotFound
	}
	next := s.cur
	next.instructors = cloneInstructors(s.cur.instructors)
	next.instructors[i].Status = flip(next.instructors[i].Status)
	if err := s.commit(ctx, next); err != nil {
		return "", err
	}
	return next.instructors[i].Status, nil
}

// ToggleStudentStatus flips between active and paused and returns the new
// status.
func (s *Store) ToggleStudentStatus(ctx context.Context, id string) (model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexStudent(s.cur.students, id)
	if i < 0 {
		return "", ErrIdentityNotFound
	}
	next := s.cur
	next.students = cloneStudents(s.cur.students)
	next.students[i].Status = flip(next.students[i].Status)
	if err := s.commit(ctx, next); err != nil {
		return "", err
	}
	return next.students[i].Status, nil
}

// DeleteInstructor removes the instructor and pauses every student that
// references it, in one commit. It returns how many students were paused.
func (s *Store) DeleteInstructor(ctx context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexInstructor(s.cur.instructors, id)
	if i < 0 {
		return 0, ErrIdentityNotFound
	}
	next := s.cur
	next.instructors = make([]model.Instructor, 0, len(s.cur.instructors)-1)
	next.instructors = append(next.instructors, cloneInstructors(s.cur.instructors[:i])...)
	next.instructors = append(next.instructors, cloneInstructors(s.cur.instructors[i+1:])...)

	next.students = cloneStudents(s.cur.students)
	paused := 0
	for j := range next.students {
		if next.students[j].TeacherID == id {
			next.students[j].Status = model.StatusPaused
			paused++
		}
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return paused, nil
}

// DeleteStudent removes a student.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexStudent(s.cur.students, id)
	if i < 0 {
		return ErrIdentityNotFound
	}
	next := s.cur
	next.students = make([]model.Student, 0, len(s.cur.students)-1)
	next.students = append(next.students, cloneStudents(s.cur.students[:i])...)
	next.students = append(next.students, cloneStudents(s.cur.students[i+1:])...)
	return s.commit(ctx, next)
}

// PrependAnnouncement inserts a at the head of the feed.
func (s *Store) PrependAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.newID()
	}
	if a.Timestamp == 0 {
		a.Timestamp = s.now().UnixMilli()
	}
	next := s.cur
	next.announcements = make([]model.Announcement, 0, len(s.cur.announcements)+1)
	next.announcements = append(next.announcements, a)
	next.announcements = append(next.announcements, s.cur.announcements...)
	if err := s.commit(ctx, next); err != nil {
		return model.Announcement{}, err
	}
	return a, nil
}

// ReplaceRoster swaps both identity collections wholesale. The feed is kept.
func (s *Store) ReplaceRoster(ctx context.Context, instructors []model.Instructor, students []model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	next.instructors = normalizeInstructors(cloneInstructors(instructors))
	next.students = normalizeStudents(cloneStudents(students))
	return s.commit(ctx, next)
}

// PatchIdentity applies fn to the identity with the given id, instructor or
// student, and commits. fn cannot change the id or the role.
func (s *Store) PatchIdentity(ctx context.Context, id string, fn func(*model.Identity)) (model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	var patched model.Identity
	if i := indexInstructor(s.cur.instructors, id); i >= 0 {
		next.instructors = cloneInstructors(s.cur.instructors)
		patched = patch(next.instructors[i].Identity, fn)
		next.instructors[i].Identity = patched
	} else if i := indexStudent(s.cur.students, id); i >= 0 {
		next.students = cloneStudents(s.cur.students)
		patched = patch(next.students[i].Identity, fn)
		next.students[i].Identity = patched
	} else {
		return model.Identity{}, ErrIdentityNotFound
	}
	if err := s.commit(ctx, next); err != nil {
		return model.Identity{}, err
	}
	return patched.Clone(), nil
}

// ClearAuditNotes drops the last audit note of every identity.
func (s *Store) ClearAuditNotes(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur
	next.instructors = cloneInstructors(s.cur.instructors)
	next.students = cloneStudents(s.cur.students)
	cleared := 0
	for i := range next.instructors {
		if next.instructors[i].LastAIAudit != "" {
			next.instructors[i].LastAIAudit = ""
			cleared++
		}
	}
	for i := range next.students {
		if next.students[i].LastAIAudit != "" {
			next.students[i].LastAIAudit = ""
			cleared++
		}
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return cleared, nil
}

// ── helpers ──

func (s *Store) idTaken(id string) bool {
	return indexInstructor(s.cur.instructors, id) >= 0 || indexStudent(s.cur.students, id) >= 0
}

func patch(id model.Identity, fn func(*model.Identity)) model.Identity {
	out := id.Clone()
	fn(&out)
	out.ID, out.Role = id.ID, id.Role
	return out
}

func flip(st model.Status) model.Status {
	if st == model.StatusActive {
		return model.StatusPaused
	}
	return model.StatusActive
}

func indexInstructor(list []model.Instructor, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func indexStudent(list []model.Student, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneInstructors(in []model.Instructor) []model.Instructor {
	out := make([]model.Instructor, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Identity = in[i].Identity.Clone()
	}
	return out
}

func cloneStudents(in []model.Student) []model.Student {
	out := make([]model.Student, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Identity = in[i].Identity.Clone()
	}
	return out
}

// normalizeIdentity pins the role to the collection and fills empty states.
func normalizeIdentity(id model.Identity, role model.Role) model.Identity {
	id.Role = role
	if id.Status == "" {
		id.Status = model.StatusActive
	}
	if id.PaymentStatus == "" {
		id.PaymentStatus = model.PaymentPaid
	}
	return id
}

func normalizeInstructor(in model.Instructor) model.Instructor {
	in.Identity = normalizeIdentity(in.Identity, model.RoleInstructor)
	return in
}

func normalizeStudent(st model.Student) model.Student {
	st.Identity = normalizeIdentity(st.Identity, model.RoleStudent)
	return st
}

func normalizeInstructors(list []model.Instructor) []model.Instructor {
	for i := range list {
		list[i] = normalizeInstructor(list[i])
	}
	return list
}

func normalizeStudents(list []model.Student) []model.Student {
	for i := range list {
		list[i] = normalizeStudent(list[i])
	}
	return list
}
