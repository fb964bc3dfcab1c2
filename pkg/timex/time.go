// Package timex 提供统一的时间类型，序列化为 "2006-01-02 15:04:05" 格式
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const layout = "2006-01-02 15:04:05"

// Time 包装 time.Time，JSON/YAML/数据库统一使用本地时区的秒级格式
type Time time.Time

// Now 返回当前时间
func Now() Time {
	return Time(time.Now())
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) Format(f string) string {
	return time.Time(t).Format(f)
}

func (t Time) String() string {
	return time.Time(t).Format(layout)
}

// Before 报告 t 是否早于 u
func (t Time) Before(u Time) bool {
	return time.Time(t).Before(time.Time(u))
}

// After 报告 t 是否晚于 u
func (t Time) After(u Time) bool {
	return time.Time(t).After(time.Time(u))
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == `""` || s == "null" {
		*t = Time(time.Time{})
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timex: invalid time literal %s", s)
	}
	parsed, err := time.ParseInLocation(layout, s[1:len(s)-1], time.Local)
	if err != nil {
		// 兼容 RFC3339 输入
		parsed, err = time.Parse(time.RFC3339, s[1:len(s)-1])
		if err != nil {
			return err
		}
	}
	*t = Time(parsed)
	return nil
}

// Value 实现 driver.Valuer，零值写入 NULL
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现 sql.Scanner
func (t *Time) Scan(v interface{}) error {
	switch value := v.(type) {
	case nil:
		*t = Time(time.Time{})
	case time.Time:
		*t = Time(value)
	case string:
		parsed, err := time.ParseInLocation(layout, value, time.Local)
		if err != nil {
			return err
		}
		*t = Time(parsed)
	default:
		return fmt.Errorf("timex: cannot scan %T into timex.Time", v)
	}
	return nil
}
