// Package debug provides env-gated debug switches for the update
// engine. Switches are read once at process start from MUDOC_DEBUG_*
// variables.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Op    bool
	Match bool
	Path  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Op = boolEnv("MUDOC_DEBUG_OP")
	d.Match = boolEnv("MUDOC_DEBUG_MATCH")
	d.Path = boolEnv("MUDOC_DEBUG_PATH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Op() bool {
	return d.Op
}
func Match() bool {
	return d.Match
}
func Path() bool {
	return d.Path
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
