package diff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestMakePatchFirstRevision(t *testing.T) {
	// 内容相同补丁为空
	assert.Equal(t, "", MakePatch("same", "same"))
	assert.Equal(t, "", MakePatch("", ""))
}

func TestApplyPatchEmpty(t *testing.T) {
	result, ok := ApplyPatch("# heading", "")
	assert.True(t, ok)
	assert.Equal(t, "# heading", result)
}

func TestPatchRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{name: "append", old: "# title", new: "# title\n\nbody"},
		{name: "delete", old: "line one\nline two\n", new: "line one\n"},
		{name: "replace", old: "hello world", new: "hello revision"},
		{name: "from empty", old: "", new: "fresh note"},
		{name: "to empty", old: "obsolete", new: ""},
		{name: "unicode", old: "笔记内容", new: "笔记内容已更新"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := MakePatch(tt.old, tt.new)
			result, ok := ApplyPatch(tt.old, patch)
			assert.True(t, ok)
			assert.Equal(t, tt.new, result)
		})
	}
}

// 补丁往返属性：任意两个文本之间的补丁应用后必须还原出目标文本
func TestProperty_PatchRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("apply(old, patch(old,new)) == new", prop.ForAll(
		func(old, new string) bool {
			patch := MakePatch(old, new)
			result, ok := ApplyPatch(old, patch)
			return ok && result == new
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
