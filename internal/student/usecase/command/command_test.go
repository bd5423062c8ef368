//go:build !integration

package command_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/acadly/paperpay/internal/student/domain"
	"github.com/acadly/paperpay/internal/student/usecase/command"
	"github.com/acadly/paperpay/pkg/auth"
)

type memStudentRepo struct {
	mu    sync.Mutex
	seq   uint
	store map[uint]*domain.Student

	CreateFunc func(student *domain.Student) error
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{store: make(map[uint]*domain.Student)}
}

var _ domain.StudentRepository = (*memStudentRepo)(nil)

func (r *memStudentRepo) Create(student *domain.Student) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(student)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	student.ID = r.seq
	cp := *student
	r.store[student.ID] = &cp
	return nil
}

func (r *memStudentRepo) FindByID(id uint) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.store[id]
	if !ok {
		return nil, fmt.Errorf("student not found")
	}
	cp := *s
	return &cp, nil
}

func (r *memStudentRepo) FindByEmail(email string) (*domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.store {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("student not found")
}

func (r *memStudentRepo) FindAll(limit, offset int) ([]domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Student
	for _, s := range r.store {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memStudentRepo) Update(student *domain.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store[student.ID]; !ok {
		return fmt.Errorf("student not found")
	}
	cp := *student
	r.store[student.ID] = &cp
	return nil
}

func (r *memStudentRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, id)
	return nil
}

func (r *memStudentRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.store)), nil
}

func TestRegisterStudentHandler_Handle(t *testing.T) {
	t.Run("registers a student with a hashed password", func(t *testing.T) {
		repo := newMemStudentRepo()

		student, err := command.NewRegisterStudentHandler(repo).Handle(command.RegisterStudentCommand{
			Email:    "ada@example.com",
			Password: "hunter22",
			FullName: "Ada Lovelace",
		})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if student.Role != domain.RoleStudent {
			t.Errorf("expected the default student role, got %q", student.Role)
		}
		if !student.IsActive {
			t.Error("expected a fresh account to be active")
		}
		if student.Password == "hunter22" {
			t.Error("password must not be stored in plaintext")
		}
		if !auth.CheckPassword(student.Password, "hunter22") {
			t.Error("stored hash must verify against the original password")
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		repo := newMemStudentRepo()
		h := command.NewRegisterStudentHandler(repo)

		if _, err := h.Handle(command.RegisterStudentCommand{Email: "ada@example.com", Password: "hunter22", FullName: "Ada"}); err != nil {
			t.Fatal(err)
		}
		if _, err := h.Handle(command.RegisterStudentCommand{Email: "ada@example.com", Password: "other1", FullName: "Imposter"}); err == nil {
			t.Fatal("expected a duplicate email error, got nil")
		}
	})

	t.Run("rejects a short password", func(t *testing.T) {
		repo := newMemStudentRepo()
		_, err := command.NewRegisterStudentHandler(repo).Handle(command.RegisterStudentCommand{
			Email: "ada@example.com", Password: "abc", FullName: "Ada",
		})
		if err == nil {
			t.Fatal("expected a validation error, got nil")
		}
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		repo := newMemStudentRepo()
		_, err := command.NewRegisterStudentHandler(repo).Handle(command.RegisterStudentCommand{
			Email: "ada@example.com", Password: "hunter22", FullName: "Ada", Role: "superuser",
		})
		if err == nil {
			t.Fatal("expected a role validation error, got nil")
		}
	})

	t.Run("accepts the teacher role", func(t *testing.T) {
		repo := newMemStudentRepo()
		student, err := command.NewRegisterStudentHandler(repo).Handle(command.RegisterStudentCommand{
			Email: "turing@example.com", Password: "hunter22", FullName: "Alan Turing", Role: domain.RoleTeacher,
		})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if student.Role != domain.RoleTeacher {
			t.Errorf("expected the teacher role, got %q", student.Role)
		}
	})
}

func TestLoginStudentHandler_Handle(t *testing.T) {
	register := func(t *testing.T, repo *memStudentRepo, role string) *domain.Student {
		t.Helper()
		student, err := command.NewRegisterStudentHandler(repo).Handle(command.RegisterStudentCommand{
			Email: "ada@example.com", Password: "hunter22", FullName: "Ada Lovelace", Role: role,
		})
		if err != nil {
			t.Fatal(err)
		}
		return student
	}

	t.Run("issues a token carrying the account claims", func(t *testing.T) {
		repo := newMemStudentRepo()
		student := register(t, repo, domain.RoleTeacher)

		resp, err := command.NewLoginStudentHandler(repo).Handle(command.LoginStudentCommand{
			Email: "ada@example.com", Password: "hunter22",
		})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}

		claims, err := auth.ValidateToken(resp.Token)
		if err != nil {
			t.Fatalf("issued token must validate: %v", err)
		}
		if claims.StudentID != student.ID || claims.Email != "ada@example.com" || claims.Role != domain.RoleTeacher {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("rejects a wrong password with a generic message", func(t *testing.T) {
		repo := newMemStudentRepo()
		register(t, repo, "")

		_, err := command.NewLoginStudentHandler(repo).Handle(command.LoginStudentCommand{
			Email: "ada@example.com", Password: "wrong",
		})
		if err == nil || err.Error() != "invalid credentials" {
			t.Fatalf("expected the generic invalid-credentials error, got %v", err)
		}
	})

	t.Run("rejects an unknown email with the same generic message", func(t *testing.T) {
		repo := newMemStudentRepo()

		_, err := command.NewLoginStudentHandler(repo).Handle(command.LoginStudentCommand{
			Email: "ghost@example.com", Password: "hunter22",
		})
		if err == nil || err.Error() != "invalid credentials" {
			t.Fatalf("expected the generic invalid-credentials error, got %v", err)
		}
	})

	t.Run("rejects a deactivated account", func(t *testing.T) {
		repo := newMemStudentRepo()
		student := register(t, repo, "")
		student.IsActive = false
		if err := repo.Update(student); err != nil {
			t.Fatal(err)
		}

		_, err := command.NewLoginStudentHandler(repo).Handle(command.LoginStudentCommand{
			Email: "ada@example.com", Password: "hunter22",
		})
		if err == nil {
			t.Fatal("expected a deactivated-account error, got nil")
		}
	})
}
