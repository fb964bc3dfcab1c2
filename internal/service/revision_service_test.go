package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/pkg/code"
	"github.com/haierkeys/note-revision-service/pkg/diff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCreateProducesFirstRevision(t *testing.T) {
	_, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()

	note, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{
		Alias:   "welcome",
		Title:   "Welcome",
		Content: "hello world",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, note.PublicID)

	first, err := revisionSvc.GetFirst(ctx, "welcome")
	require.NoError(t, err)
	assert.Equal(t, "hello world", first.Content)
	assert.Empty(t, first.Patch)
	assert.Equal(t, int64(len("hello world")), first.Length)

	latest, err := revisionSvc.GetLatest(ctx, "welcome")
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
}

func TestFoldCreatesRevisionAndClaimsEdits(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "alice")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "doc", Content: "v1"})
	require.NoError(t, err)

	require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{
		Note: "doc", Content: "v1 then v2", StartPos: 2, EndPos: 10,
	}))
	require.NoError(t, noteSvc.RecordEdit(ctx, 0, &dto.NoteEditRequest{
		Note: "doc", Content: "v2", StartPos: 0, EndPos: 2,
	}))

	result, err := revisionSvc.Fold(ctx, "doc")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, int64(2), result.ClaimedEdits)

	latest, err := revisionSvc.GetLatest(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.Content)
	assert.NotEmpty(t, latest.Patch)
	assert.Len(t, latest.Edits, 2)

	// 补丁应用在前一版本上重现当前内容
	first, err := revisionSvc.GetFirst(ctx, "doc")
	require.NoError(t, err)
	replayed, ok := diff.ApplyPatch(first.Content, latest.Patch)
	require.True(t, ok)
	assert.Equal(t, latest.Content, replayed)
}

func TestFoldNoopWhenUnchanged(t *testing.T) {
	_, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()

	_, err := noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "static", Content: "same"})
	require.NoError(t, err)

	result, err := revisionSvc.Fold(ctx, "static")
	require.NoError(t, err)
	assert.False(t, result.Created)

	metadatas, err := revisionSvc.List(ctx, "static")
	require.NoError(t, err)
	assert.Len(t, metadatas, 1)
}

func TestRevisionListOrderedOldestFirst(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "bob")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "ordered", Content: "a"})
	require.NoError(t, err)

	for _, content := range []string{"ab", "abc"} {
		require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: "ordered", Content: content}))
		result, err := revisionSvc.Fold(ctx, "ordered")
		require.NoError(t, err)
		require.True(t, result.Created)
	}

	metadatas, err := revisionSvc.List(ctx, "ordered")
	require.NoError(t, err)
	require.Len(t, metadatas, 3)
	assert.Equal(t, int64(1), metadatas[0].Length)
	assert.Equal(t, int64(2), metadatas[1].Length)
	assert.Equal(t, int64(3), metadatas[2].Length)
	for i := 1; i < len(metadatas); i++ {
		assert.Less(t, metadatas[i-1].ID, metadatas[i].ID)
	}
}

func TestRevisionAuthorAnonymityProtection(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	alice := createTestUser(t, d, "alice")
	bob := createTestUser(t, d, "bob")

	_, err := noteSvc.Create(ctx, alice, &dto.NoteCreateRequest{Alias: "shared", Content: ""})
	require.NoError(t, err)

	// 两个注册用户和两个匿名访客编辑
	require.NoError(t, noteSvc.RecordEdit(ctx, alice, &dto.NoteEditRequest{Note: "shared", Content: "a"}))
	require.NoError(t, noteSvc.RecordEdit(ctx, bob, &dto.NoteEditRequest{Note: "shared", Content: "ab"}))
	require.NoError(t, noteSvc.RecordEdit(ctx, 0, &dto.NoteEditRequest{Note: "shared", Content: "abc"}))
	require.NoError(t, noteSvc.RecordEdit(ctx, 0, &dto.NoteEditRequest{Note: "shared", Content: "abcd"}))
	// alice 的第二次编辑复用同一作者记录
	require.NoError(t, noteSvc.RecordEdit(ctx, alice, &dto.NoteEditRequest{Note: "shared", Content: "abcde"}))

	result, err := revisionSvc.Fold(ctx, "shared")
	require.NoError(t, err)
	require.True(t, result.Created)

	latest, err := revisionSvc.GetLatest(ctx, "shared")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"alice", "bob"}, latest.AuthorUsernames)
	assert.Equal(t, int64(2), latest.AnonymousAuthorCount)

	// 匿名编辑在编辑列表中不携带用户名
	var anonymousEdits int
	for _, e := range latest.Edits {
		if e.Username == "" {
			anonymousEdits++
		}
	}
	assert.Equal(t, 2, anonymousEdits)
}

func TestPurgeKeepsOnlyLatestRevision(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "carol")

	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "purgeme", Content: "one"})
	require.NoError(t, err)
	for _, content := range []string{"two", "three"} {
		require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: "purgeme", Content: content}))
		_, err := revisionSvc.Fold(ctx, "purgeme")
		require.NoError(t, err)
	}

	result, err := revisionSvc.Purge(ctx, "purgeme")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.PurgedCount)

	metadatas, err := revisionSvc.List(ctx, "purgeme")
	require.NoError(t, err)
	require.Len(t, metadatas, 1)
	assert.Equal(t, result.KeptID, metadatas[0].ID)

	latest, err := revisionSvc.GetLatest(ctx, "purgeme")
	require.NoError(t, err)
	assert.Equal(t, "three", latest.Content)

	// 被清理版本的编辑归属转移到保留版本
	assert.ElementsMatch(t, []string{"carol"}, latest.AuthorUsernames)

	// 幂等：再次清理不删除任何版本
	again, err := revisionSvc.Purge(ctx, "purgeme")
	require.NoError(t, err)
	assert.Zero(t, again.PurgedCount)
}

func TestRevisionNotFoundErrors(t *testing.T) {
	_, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()

	_, err := revisionSvc.List(ctx, "ghost")
	assert.ErrorIs(t, err, code.ErrorNoteNotFound)

	_, err = noteSvc.Create(ctx, 0, &dto.NoteCreateRequest{Alias: "real", Content: "x"})
	require.NoError(t, err)

	_, err = revisionSvc.Get(ctx, "real", 99999)
	assert.ErrorIs(t, err, code.ErrorRevisionNotFound)
}

func TestFoldAllPending(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "dave")

	for _, alias := range []string{"n1", "n2"} {
		_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: alias, Content: "base"})
		require.NoError(t, err)
		require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: alias, Content: "base+" + alias}))
	}
	// 第三条笔记没有待折叠编辑
	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "n3", Content: "idle"})
	require.NoError(t, err)

	created, err := revisionSvc.FoldAllPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// 再次扫描无事可做
	created, err = revisionSvc.FoldAllPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSweepRetentionConvergesOverLimitNotes(t *testing.T) {
	d, noteSvc, revisionSvc, _, _ := newTestEnv(t)
	ctx := context.Background()
	uid := createTestUser(t, d, "erin")

	// busy 产生 3 个修订版本，quiet 只有创建时的 1 个
	_, err := noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "busy", Content: "v1"})
	require.NoError(t, err)
	for _, content := range []string{"v2", "v3"} {
		require.NoError(t, noteSvc.RecordEdit(ctx, uid, &dto.NoteEditRequest{Note: "busy", Content: content}))
		_, err := revisionSvc.Fold(ctx, "busy")
		require.NoError(t, err)
	}
	_, err = noteSvc.Create(ctx, uid, &dto.NoteCreateRequest{Alias: "quiet", Content: "still"})
	require.NoError(t, err)

	purged, err := revisionSvc.SweepRetention(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	// 超限笔记收敛到最新版本，未超限笔记不动
	busyList, err := revisionSvc.List(ctx, "busy")
	require.NoError(t, err)
	require.Len(t, busyList, 1)
	latest, err := revisionSvc.GetLatest(ctx, "busy")
	require.NoError(t, err)
	assert.Equal(t, "v3", latest.Content)

	quietList, err := revisionSvc.List(ctx, "quiet")
	require.NoError(t, err)
	assert.Len(t, quietList, 1)

	// 上限为 0 表示不清理
	purged, err = revisionSvc.SweepRetention(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, purged)
}
