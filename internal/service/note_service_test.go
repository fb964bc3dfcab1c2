package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCreateForbiddenAlias(t *testing.T) {
	_, noteSvc, _, _, _ := newTestEnv(t)
	ctx := context.Background()

	_, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "api"})
	assert.ErrorIs(t, err, code.ErrorForbiddenNoteAlias)

	// 保留别名大小写不敏感
	_, err = noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "Me"})
	assert.ErrorIs(t, err, code.ErrorForbiddenNoteAlias)
}

func TestNoteCreateDuplicateAlias(t *testing.T) {
	_, noteSvc, _, _, _ := newTestEnv(t)
	ctx := context.Background()

	first, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "taken"})
	require.NoError(t, err)

	_, err = noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "taken"})
	assert.ErrorIs(t, err, code.ErrorNoteAliasExists)

	// 别名与已有笔记的 PublicID 冲突同样拒绝
	_, err = noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: first.PublicID})
	assert.ErrorIs(t, err, code.ErrorNoteAliasExists)
}

func TestNoteRename(t *testing.T) {
	_, noteSvc, _, _, _ := newTestEnv(t)
	ctx := context.Background()

	_, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "before"})
	require.NoError(t, err)
	_, err = noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "occupied"})
	require.NoError(t, err)

	err = noteSvc.Rename(ctx, 0, &dto.NoteRenameRequest{Note: "before", Alias: "history"})
	assert.ErrorIs(t, err, code.ErrorForbiddenNoteAlias)

	err = noteSvc.Rename(ctx, 0, &dto.NoteRenameRequest{Note: "before", Alias: "occupied"})
	assert.ErrorIs(t, err, code.ErrorNoteAliasExists)

	// 重命名为当前别名是空操作
	require.NoError(t, noteSvc.Rename(ctx, 0, &dto.NoteRenameRequest{Note: "before", Alias: "before"}))

	require.NoError(t, noteSvc.Rename(ctx, 0, &dto.NoteRenameRequest{Note: "before", Alias: "after"}))

	note, err := noteSvc.Get(ctx, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", note.PrimaryAlias)

	_, err = noteSvc.Get(ctx, "before")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)
}

func TestNoteRecordEditContentTooLong(t *testing.T) {
	d, noteSvc, _, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "alice")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "bounded"})
	require.NoError(t, err)

	long := make([]rune, 100001)
	for i := range long {
		long[i] = '字'
	}
	err = noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: "bounded", Content: string(long)})
	assert.ErrorIs(t, err, code.ErrorInvalidParams)
}

func TestNoteDeleteCascades(t *testing.T) {
	d, noteSvc, revisionSvc, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "bob")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "doomed", Content: "x"})
	require.NoError(t, err)
	require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: "doomed", Content: "xy"}))
	_, err = revisionSvc.Fold(ctx, "doomed")
	require.NoError(t, err)
	_, err = historySvc.Touch(ctx, uid, "doomed")
	require.NoError(t, err)

	require.NoError(t, noteSvc.Delete(ctx, "doomed"))

	_, err = noteSvc.Get(ctx, "doomed")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// 别名随笔记删除释放
	_, err = noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "doomed"})
	require.NoError(t, err)
}

func TestNoteGetByPublicIDAndAlias(t *testing.T) {
	_, noteSvc, _, _, _ := newTestEnv(t)
	ctx := context.Background()

	created, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "dual", Title: "Dual"})
	require.NoError(t, err)

	byAlias, err := noteSvc.Get(ctx, "dual")
	require.NoError(t, err)
	byID, err := noteSvc.Get(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, byAlias.PublicID, byID.PublicID)
}
