package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDao 创建基于临时 sqlite 文件的 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	db, err := NewDBEngine(&DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 2,
		MaxOpenConns: 2,
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, ""))

	return New(db, nil, nil)
}

func createTestNote(t *testing.T, d *Dao, publicID, alias string) *domain.Note {
	t.Helper()
	note, err := NewNoteRepository(d).Create(context.Background(), &domain.Note{
		PublicID:     publicID,
		PrimaryAlias: alias,
		Title:        "t",
	})
	require.NoError(t, err)
	return note
}

func TestNoteRepositoryGetByRef(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewNoteRepository(d)

	note := createTestNote(t, d, "pub123", "my-alias")
	createTestNote(t, d, "pub456", "")

	byPub, err := repo.GetByRef(ctx, "pub123")
	require.NoError(t, err)
	logger.Dump(byPub)
	assert.Equal(t, note.ID, byPub.ID)

	byAlias, err := repo.GetByRef(ctx, "my-alias")
	require.NoError(t, err)
	assert.Equal(t, note.ID, byAlias.ID)

	// 空别名不参与匹配
	_, err = repo.GetByRef(ctx, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsAlias(ctx, "my-alias")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsAlias(ctx, "pub456")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsAlias(ctx, "free-alias")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRevisionRepositoryOrdering(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewRevisionRepository(d)
	note := createTestNote(t, d, "pub-ord", "")

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	// 前两个版本时间戳相同，顺序由 id 决定
	for i, at := range []time.Time{base, base, base.Add(time.Minute)} {
		_, err := repo.Create(ctx, &domain.Revision{
			NoteID:    note.ID,
			Content:   string(rune('a' + i)),
			CreatedAt: at,
		})
		require.NoError(t, err)
	}

	all, err := repo.ListByNoteID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Content)
	assert.Equal(t, "b", all[1].Content)
	assert.Equal(t, "c", all[2].Content)

	first, err := repo.GetFirst(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", first.Content)

	latest, err := repo.GetLatest(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.Content)

	count, err := repo.Count(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRevisionRepositoryDeleteAllButLatest(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewRevisionRepository(d)
	note := createTestNote(t, d, "pub-purge", "")

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Revision{
			NoteID:    note.ID,
			Content:   string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	victims, err := repo.DeleteAllButLatest(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, victims, 2)
	assert.Equal(t, "a", victims[0].Content)
	assert.Equal(t, "b", victims[1].Content)

	all, err := repo.ListByNoteID(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].Content)

	// 只剩一个版本时再次清理不删除任何东西
	victims, err = repo.DeleteAllButLatest(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, victims)
}

func TestEditRepositoryClaimPending(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	editRepo := NewEditRepository(d)
	note := createTestNote(t, d, "pub-edit", "")
	other := createTestNote(t, d, "pub-edit-2", "")

	for i := 0; i < 2; i++ {
		_, err := editRepo.Create(ctx, &domain.Edit{NoteID: note.ID, AuthorID: 1, StartPos: int64(i), EndPos: int64(i + 1)})
		require.NoError(t, err)
	}
	_, err := editRepo.Create(ctx, &domain.Edit{NoteID: other.ID, AuthorID: 1})
	require.NoError(t, err)

	pending, err := editRepo.ListPending(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	claimed, err := editRepo.ClaimPending(ctx, note.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claimed)

	// 其他笔记的未折叠编辑不受影响
	pending, err = editRepo.ListPending(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byRev, err := editRepo.ListByRevisionID(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, byRev, 2)

	claimed, err = editRepo.ClaimPending(ctx, note.ID, 43)
	require.NoError(t, err)
	assert.Zero(t, claimed)
}

func TestAuthorRepositoryGetOrCreate(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	authorRepo := NewAuthorRepository(d)
	userRepo := NewUserRepository(d)
	note := createTestNote(t, d, "pub-author", "")

	user, err := userRepo.Create(ctx, &domain.User{Username: "alice"})
	require.NoError(t, err)

	a1, err := authorRepo.GetOrCreate(ctx, note.ID, user.UID)
	require.NoError(t, err)
	a2, err := authorRepo.GetOrCreate(ctx, note.ID, user.UID)
	require.NoError(t, err)

	// 同一用户同一笔记复用作者记录
	assert.Equal(t, a1.AuthorID(), a2.AuthorID())
	linked, ok := a1.(domain.LinkedAuthor)
	require.True(t, ok)
	assert.Equal(t, "alice", linked.User.Username)

	// 匿名作者每次都是新的
	anon1, err := authorRepo.GetOrCreate(ctx, note.ID, 0)
	require.NoError(t, err)
	anon2, err := authorRepo.GetOrCreate(ctx, note.ID, 0)
	require.NoError(t, err)
	assert.NotEqual(t, anon1.AuthorID(), anon2.AuthorID())
	_, ok = anon1.(domain.AnonymousAuthor)
	assert.True(t, ok)

	authors, err := authorRepo.ListByNoteID(ctx, note.ID)
	require.NoError(t, err)
	assert.Len(t, authors, 3)
}

func TestAuthorRepositoryListByRevisionID(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	authorRepo := NewAuthorRepository(d)
	editRepo := NewEditRepository(d)
	userRepo := NewUserRepository(d)
	note := createTestNote(t, d, "pub-rev-authors", "")

	user, err := userRepo.Create(ctx, &domain.User{Username: "bob"})
	require.NoError(t, err)
	linked, err := authorRepo.GetOrCreate(ctx, note.ID, user.UID)
	require.NoError(t, err)
	anon, err := authorRepo.GetOrCreate(ctx, note.ID, 0)
	require.NoError(t, err)

	// 同一作者的多条编辑只算一次
	for _, authorID := range []int64{linked.AuthorID(), linked.AuthorID(), anon.AuthorID()} {
		_, err := editRepo.Create(ctx, &domain.Edit{NoteID: note.ID, AuthorID: authorID})
		require.NoError(t, err)
	}
	claimed, err := editRepo.ClaimPending(ctx, note.ID, 7)
	require.NoError(t, err)
	require.Equal(t, int64(3), claimed)

	authors, err := authorRepo.ListByRevisionID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, authors, 2)

	var linkedCount, anonCount int
	for _, a := range authors {
		switch a.(type) {
		case domain.LinkedAuthor:
			linkedCount++
		case domain.AnonymousAuthor:
			anonCount++
		}
	}
	assert.Equal(t, 1, linkedCount)
	assert.Equal(t, 1, anonCount)
}

func TestHistoryRepositoryTouch(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewHistoryRepository(d)

	e1, err := repo.Touch(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, e1.PinStatus)

	require.NoError(t, repo.UpdatePinStatus(ctx, true, 1, 10))

	// 再次访问更新时间但保留置顶状态
	e2, err := repo.Touch(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, e1.ID, e2.ID)
	assert.True(t, e2.PinStatus)

	entries, err := repo.ListByUID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryRepositoryNotFound(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewHistoryRepository(d)

	err := repo.UpdatePinStatus(ctx, true, 1, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(ctx, 1, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHistoryRepositoryReplaceAll(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewHistoryRepository(d)

	_, err := repo.Touch(ctx, 1, 10)
	require.NoError(t, err)
	_, err = repo.Touch(ctx, 1, 11)
	require.NoError(t, err)
	_, err = repo.Touch(ctx, 2, 10)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	err = repo.ReplaceAll(ctx, 1, []*domain.HistoryEntry{
		{NoteID: 20, PinStatus: true, UpdatedAt: now},
		{NoteID: 21, UpdatedAt: now.Add(-time.Minute)},
	})
	require.NoError(t, err)

	entries, err := repo.ListByUID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(20), entries[0].NoteID)
	assert.True(t, entries[0].PinStatus)

	// 其他用户不受影响
	others, err := repo.ListByUID(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestDaoExecuteWriteSerializes(t *testing.T) {
	d := newTestDao(t)
	ctx := context.Background()
	repo := NewNoteRepository(d)
	note := createTestNote(t, d, "pub-tx", "")

	err := d.ExecuteWrite(ctx, note.ID, func(tx *gorm.DB) error {
		txRepo := NewNoteRepository(d.WithTx(tx))
		return txRepo.UpdateContent(ctx, "updated", note.ID)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Content)
}
