package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/code"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryTouchAndList(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "alice")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "notes-a", Title: "A", Tags: []string{"x", "y"}})
	require.NoError(t, err)
	_, err = noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Title: "B"})
	require.NoError(t, err)

	entry, err := historySvc.Touch(ctx, uid, "notes-a")
	require.NoError(t, err)
	assert.Equal(t, "notes-a", entry.Identifier)
	assert.Equal(t, "A", entry.Title)
	assert.Equal(t, []string{"x", "y"}, entry.Tags)
	assert.False(t, entry.PinStatus)

	// 将首次访问时间回拨，验证重复访问会刷新访问时间
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	err = d.DB().Model(&model.HistoryEntry{}).
		Where("uid = ?", uid).
		Update("updated_at", timex.Time(past)).Error
	require.NoError(t, err)

	// 重复访问不产生新记录
	entry, err = historySvc.Touch(ctx, uid, "notes-a")
	require.NoError(t, err)
	assert.True(t, entry.LastVisitedAt.Time().After(past))
	assert.False(t, entry.PinStatus)

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// 其他用户的历史互不可见
	entries, err = historySvc.List(ctx, uid+100)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryIdentifierPrefersAlias(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "bob")

	note, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Title: "no alias"})
	require.NoError(t, err)

	entry, err := historySvc.Touch(ctx, uid, note.PublicID)
	require.NoError(t, err)
	// 无别名时回退到 PublicID
	assert.Equal(t, note.PublicID, entry.Identifier)
}

func TestHistoryUpdatePinStatus(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "carol")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "pinme"})
	require.NoError(t, err)

	// 未访问过的笔记不能更新置顶状态
	_, err = historySvc.Update(ctx, uid, "pinme", &dto.HistoryUpdateRequest{PinStatus: true})
	assert.ErrorIs(t, err, code.ErrorHistoryEntryNotFound)

	_, err = historySvc.Touch(ctx, uid, "pinme")
	require.NoError(t, err)

	entry, err := historySvc.Update(ctx, uid, "pinme", &dto.HistoryUpdateRequest{PinStatus: true})
	require.NoError(t, err)
	assert.True(t, entry.PinStatus)

	// 再次访问保留置顶状态
	entry, err = historySvc.Touch(ctx, uid, "pinme")
	require.NoError(t, err)
	assert.True(t, entry.PinStatus)
}

func TestHistoryDelete(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "dave")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "gone"})
	require.NoError(t, err)

	err = historySvc.Delete(ctx, uid, "gone")
	assert.ErrorIs(t, err, code.ErrorHistoryEntryNotFound)

	_, err = historySvc.Touch(ctx, uid, "gone")
	require.NoError(t, err)
	require.NoError(t, historySvc.Delete(ctx, uid, "gone"))

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryImportReplacesAtomically(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "erin")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "old-note"})
	require.NoError(t, err)
	_, err = noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "new-note"})
	require.NoError(t, err)

	_, err = historySvc.Touch(ctx, uid, "old-note")
	require.NoError(t, err)

	// 含未知笔记引用的导入整体失败，已有记录不变
	err = historySvc.Import(ctx, uid, &dto.HistoryImportRequest{
		History: []dto.HistoryImportEntryRequest{
			{Note: "new-note", PinStatus: true},
			{Note: "does-not-exist"},
		},
	})
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "old-note", entries[0].Identifier)

	// 含保留别名引用的导入整体失败，已有记录不变
	err = historySvc.Import(ctx, uid, &dto.HistoryImportRequest{
		History: []dto.HistoryImportEntryRequest{
			{Note: "new-note", PinStatus: true},
			{Note: "api"},
		},
	})
	assert.ErrorIs(t, err, code.ErrorForbiddenNoteAlias)

	entries, err = historySvc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "old-note", entries[0].Identifier)

	// 合法导入整体替换
	visitedAt := timex.Time(time.Now().Add(-time.Hour).Truncate(time.Second))
	err = historySvc.Import(ctx, uid, &dto.HistoryImportRequest{
		History: []dto.HistoryImportEntryRequest{
			{Note: "new-note", PinStatus: true, LastVisitedAt: visitedAt},
		},
	})
	require.NoError(t, err)

	entries, err = historySvc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new-note", entries[0].Identifier)
	assert.True(t, entries[0].PinStatus)
}

func TestHistoryImportDuplicateRefKeepsLast(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "heidi")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "dup"})
	require.NoError(t, err)

	// 同一笔记出现多次时以最后一条为准，零值访问时间回退为当前时间
	past := timex.Time(time.Now().Add(-time.Hour).Truncate(time.Second))
	err = historySvc.Import(ctx, uid, &dto.HistoryImportRequest{
		History: []dto.HistoryImportEntryRequest{
			{Note: "dup", PinStatus: false, LastVisitedAt: past},
			{Note: "dup", PinStatus: true},
		},
	})
	require.NoError(t, err)

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].PinStatus)
	assert.False(t, entries[0].LastVisitedAt.IsZero())
	assert.True(t, entries[0].LastVisitedAt.After(past))
}

func TestHistoryDeleteAll(t *testing.T) {
	d, noteSvc, _, historySvc, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "frank")
	other := createTestUser(t, d, "grace")

	for _, alias := range []string{"h1", "h2"} {
		_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: alias})
		require.NoError(t, err)
		_, err = historySvc.Touch(ctx, uid, alias)
		require.NoError(t, err)
	}
	_, err := historySvc.Touch(ctx, other, "h1")
	require.NoError(t, err)

	require.NoError(t, historySvc.DeleteAll(ctx, uid))

	entries, err := historySvc.List(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// 其他用户不受影响
	entries, err = historySvc.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
