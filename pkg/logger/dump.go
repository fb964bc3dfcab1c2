package logger

import (
	"fmt"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
)

// Dump 带调用位置的调试输出
func Dump(a ...any) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Printf("\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.P(a...)
}
