// Package convert 提供结构体之间的字段复制工具
package convert

import (
	"time"

	"github.com/haierkeys/note-revision-service/pkg/timex"

	"github.com/jinzhu/copier"
)

// timeConverters 在 timex.Time 与 time.Time 之间双向转换
// 模型层使用 timex.Time，领域层使用 time.Time
var timeConverters = []copier.TypeConverter{
	{
		SrcType: timex.Time{},
		DstType: time.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			return src.(timex.Time).Time(), nil
		},
	},
	{
		SrcType: time.Time{},
		DstType: timex.Time{},
		Fn: func(src interface{}) (interface{}, error) {
			return timex.Time(src.(time.Time)), nil
		},
	},
}

// StructAssign 把 src 与 dst 同名字段的值复制到 dst 中
// dst 必须是指针
func StructAssign(src any, dst any) any {
	_ = copier.CopyWithOption(dst, src, copier.Option{Converters: timeConverters})
	return dst
}
