package convert

import (
	"testing"
	"time"

	"github.com/haierkeys/note-revision-service/pkg/timex"

	"github.com/stretchr/testify/assert"
)

type srcRecord struct {
	ID        int64
	Name      string
	Extra     string
	CreatedAt timex.Time
}

type dstRecord struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

func TestStructAssignCopiesMatchingFields(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	src := &srcRecord{ID: 7, Name: "note", Extra: "dropped", CreatedAt: timex.Time(now)}

	dst := StructAssign(src, &dstRecord{}).(*dstRecord)

	assert.Equal(t, int64(7), dst.ID)
	assert.Equal(t, "note", dst.Name)
	assert.True(t, dst.CreatedAt.Equal(now))
}

func TestStructAssignConvertsTimeBothWays(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	back := StructAssign(&dstRecord{CreatedAt: now}, &srcRecord{}).(*srcRecord)
	assert.True(t, back.CreatedAt.Time().Equal(now))
}
