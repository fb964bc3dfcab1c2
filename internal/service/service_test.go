package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/haierkeys/note-revision-service/internal/dao"
	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"

	"github.com/stretchr/testify/require"
)

// newTestEnv 基于临时 sqlite 构建完整的服务栈
func newTestEnv(t *testing.T) (*dao.Dao, NoteService, RevisionService, HistoryService, AuthorshipService) {
	t.Helper()

	db, err := dao.NewDBEngine(&dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 2,
		MaxOpenConns: 2,
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, ""))

	d := dao.New(db, nil, nil)
	noteRepo := dao.NewNoteRepository(d)
	revisionRepo := dao.NewRevisionRepository(d)
	editRepo := dao.NewEditRepository(d)
	authorRepo := dao.NewAuthorRepository(d)
	historyRepo := dao.NewHistoryRepository(d)

	authorship := NewAuthorshipService(authorRepo)
	config := &ServiceConfig{
		Note: NoteServiceConfig{
			ForbiddenAliases: []string{"api", "me", "history", "metrics"},
			MaxContentLength: 100000,
		},
	}

	noteSvc := NewNoteService(d, noteRepo, authorship, config, nil)
	revisionSvc := NewRevisionService(d, noteRepo, revisionRepo, editRepo, authorship, nil)
	historySvc := NewHistoryService(historyRepo, noteRepo, config, nil)

	return d, noteSvc, revisionSvc, historySvc, authorship
}

// createTestUser 插入一个注册用户并返回 UID
func createTestUser(t *testing.T, d *dao.Dao, username string) int64 {
	t.Helper()
	user, err := dao.NewUserRepository(d).Create(context.Background(), &domain.User{Username: username})
	require.NoError(t, err)
	return user.UID
}
