package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/notify"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/repository"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/session"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/pkg/jwt"
)

// ── test helpers ──

const (
	testAdminEmail    = "admin@federacao.local"
	testAdminPassword = "faixa-preta-2026"
	blockedTerm       = "palavrão"
)

// fakeRevoker records blacklisted sessions.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func (f *fakeRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[jti] = ttl
	return nil
}

type testEnv struct {
	cfg     *config.Config
	kv      *repository.MemoryKV
	store   *store.Store
	hub     *notify.Hub
	collab  *collaborator.Client
	jwtMgr  *jwt.Manager
	revoker *fakeRevoker
	svc     *Service
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, BaseURL: "https://federacao.test/app"},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-0123456789",
			AccessTokenTTL:    time.Hour,
			AdminEmail:        testAdminEmail,
			AdminName:         "Administrador",
			AdminPasswordHash: hash,
		},
		Notify:       config.NotifyConfig{TTL: time.Minute},
		Collaborator: config.CollaboratorConfig{Timeout: time.Second, BlockedTerms: []string{blockedTerm}},
		Audit:        config.AuditConfig{Concurrency: 2},
	}
}

// setupTestEnv builds every service over a seeded in-memory store
// (instructor t1, student s1) with zero simulated delays.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	logger := zap.NewNop()

	kv := repository.NewMemoryKV()
	n := 0
	st, err := store.Open(context.Background(), kv, store.NewKeys("test_"), logger,
		store.WithIDGenerator(func() string { n++; return fmt.Sprintf("gen-%d", n) }),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	collab := collaborator.NewClient(
		collaborator.NewSimulated(0, cfg.Collaborator.BlockedTerms),
		cfg.Collaborator.Timeout, logger,
	)
	hub := notify.NewHub(cfg.Notify.TTL)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	revoker := &fakeRevoker{}

	env := &testEnv{
		cfg: cfg, kv: kv, store: st, hub: hub, collab: collab,
		jwtMgr: jwtMgr, revoker: revoker,
	}
	env.svc = NewService(cfg, st, collab, hub, jwtMgr, revoker, logger)
	t.Cleanup(env.svc.Billing.Drain)
	return env
}

func (e *testEnv) instructor(t *testing.T, id string) session.Record {
	t.Helper()
	in, ok := e.store.FindInstructor(id)
	if !ok {
		t.Fatalf("instructor %s not found", id)
	}
	return in.Account()
}

func (e *testEnv) student(t *testing.T, id string) session.Record {
	t.Helper()
	st, ok := e.store.FindStudent(id)
	if !ok {
		t.Fatalf("student %s not found", id)
	}
	return st.Account()
}

func adminRecord() session.Record {
	return session.Administrator("Administrador", testAdminEmail)
}

// addStudent stores a verified student of teacherID.
func (e *testEnv) addStudent(t *testing.T, id, email, teacherID string) model.Student {
	t.Helper()
	st, err := e.store.AddStudent(context.Background(), model.Student{
		Identity: model.Identity{
			ID: id, Name: "Aluno " + id, Email: email, Password: "123",
			IsVerified: model.Bool(true),
		},
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("add student %s: %v", id, err)
	}
	return st
}

func (e *testEnv) addInstructor(t *testing.T, id, email string) model.Instructor {
	t.Helper()
	in, err := e.store.AddInstructor(context.Background(), model.Instructor{
		Identity: model.Identity{
			ID: id, Name: "Mestre " + id, Email: email, Password: "123",
			IsVerified: model.Bool(true),
		},
	})
	if err != nil {
		t.Fatalf("add instructor %s: %v", id, err)
	}
	return in
}
