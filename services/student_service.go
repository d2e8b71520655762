package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/college_crp/models"
	"github.com/anjiri1684/college_crp/store"
	"github.com/google/uuid"
)

type StudentInput struct {
	StudentID string
	Name      string
	Email     string
	Course    string
	Year      int
	Phone     *string
}

type StudentService struct {
	store store.Students
}

func NewStudentService(st store.Students) *StudentService {
	return &StudentService{store: st}
}

// Register creates a student. The external student_id must be unused; the
// store's unique index settles concurrent registrations of the same id.
func (s *StudentService) Register(ctx context.Context, in StudentInput) (*models.Student, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	if in.StudentID == "" {
		return nil, invalid("student_id", "is required")
	}
	if in.Year < 1 {
		return nil, invalid("year", "must be at least 1")
	}

	_, err := s.store.FindStudentByExternalID(ctx, in.StudentID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("student %s: %w", in.StudentID, store.ErrConflict)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	st := &models.Student{
		ID:        uuid.NewString(),
		StudentID: in.StudentID,
		Name:      in.Name,
		Email:     in.Email,
		Course:    in.Course,
		Year:      in.Year,
		Phone:     in.Phone,
		CreatedAt: now(),
	}
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StudentService) List(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.store.ListStudents(ctx, f)
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	st, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, notFound("Student", err)
	}
	return st, nil
}
