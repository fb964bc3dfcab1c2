// Package diff 封装修订补丁的计算与应用
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MakePatch 计算从 old 到 new 的文本补丁
// 首个修订版本的补丁为空字符串
func MakePatch(old, new string) string {
	if old == new {
		return ""
	}
	dmp := diffmatchpatch.New()

	o := EnsureValidUTF8(old)
	n := EnsureValidUTF8(new)

	diffs := dmp.DiffMain(o, n, false)
	return dmp.PatchToText(dmp.PatchMake(o, diffs))
}

// ApplyPatch 把补丁应用到 base 上，返回结果和是否全部应用成功
// 空补丁原样返回 base
func ApplyPatch(base, patch string) (string, bool) {
	if patch == "" {
		return base, true
	}
	dmp := diffmatchpatch.New()

	patches, err := dmp.PatchFromText(EnsureValidUTF8(patch))
	if err != nil {
		return base, false
	}

	result, applied := dmp.PatchApply(patches, EnsureValidUTF8(base))
	for _, ok := range applied {
		if !ok {
			return result, false
		}
	}
	return result, true
}

// EnsureValidUTF8 确保字符串是有效的 UTF-8 编码
// diffmatchpatch 遇到非法编码会 panic
func EnsureValidUTF8(str string) string {
	if utf8.ValidString(str) {
		return str
	}
	return strings.ToValidUTF8(str, "")
}
