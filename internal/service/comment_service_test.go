package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playshelf/playshelf-api/internal/dto"
	"github.com/playshelf/playshelf-api/internal/models"
	appErrors "github.com/playshelf/playshelf-api/pkg/errors"
)

type stubCommentRepo struct {
	created []models.Comment
	byID    *models.Comment
	flagged map[string]bool
	deleted []string
}

func (s *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	s.created = append(s.created, *comment)
	return nil
}

func (s *stubCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	if s.byID == nil {
		return nil, sql.ErrNoRows
	}
	return s.byID, nil
}

func (s *stubCommentRepo) ListByGame(_ context.Context, _ string, _ bool) ([]models.Comment, error) {
	return s.created, nil
}

func (s *stubCommentRepo) SetFlag(_ context.Context, id string, flagged bool) error {
	if s.flagged == nil {
		s.flagged = map[string]bool{}
	}
	s.flagged[id] = flagged
	return nil
}

func (s *stubCommentRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestCreateCommentUsesDisplayName(t *testing.T) {
	repo := &stubCommentRepo{}
	svc := NewCommentService(repo, existingGame(), nil, nil, nil)

	claims := &models.JWTClaims{UserID: "u1", DisplayName: "Ada"}
	comment, err := svc.Create(context.Background(), "g1", claims, dto.CreateCommentRequest{Body: "great game"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", comment.AuthorName)
	assert.Equal(t, "u1", comment.UserID)
}

func TestCreateCommentEmptyBody(t *testing.T) {
	svc := NewCommentService(&stubCommentRepo{}, existingGame(), nil, nil, nil)

	claims := &models.JWTClaims{UserID: "u1"}
	_, err := svc.Create(context.Background(), "g1", claims, dto.CreateCommentRequest{})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDeleteCommentOwnership(t *testing.T) {
	repo := &stubCommentRepo{byID: &models.Comment{ID: "c1", UserID: "owner"}}
	svc := NewCommentService(repo, existingGame(), nil, nil, nil)

	other := &models.JWTClaims{UserID: "intruder", Role: models.RolePlayer}
	err := svc.Delete(context.Background(), "c1", other)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	owner := &models.JWTClaims{UserID: "owner", Role: models.RolePlayer}
	require.NoError(t, svc.Delete(context.Background(), "c1", owner))

	admin := &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), "c1", admin))
	assert.Equal(t, []string{"c1", "c1"}, repo.deleted)
}

func TestSetFlagOnComment(t *testing.T) {
	repo := &stubCommentRepo{}
	svc := NewCommentService(repo, existingGame(), nil, nil, nil)

	require.NoError(t, svc.SetFlag(context.Background(), "c1", true, nil))
	assert.True(t, repo.flagged["c1"])
}
