package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff  bool
	Patch bool
	Load  bool
	Step  bool
	Store bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("REWIND_DEBUG_DIFF")
	d.Patch = boolEnv("REWIND_DEBUG_PATCH")
	d.Load = boolEnv("REWIND_DEBUG_LOAD")
	d.Step = boolEnv("REWIND_DEBUG_STEP")
	d.Store = boolEnv("REWIND_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Patch() bool {
	return d.Patch
}
func Load() bool {
	return d.Load
}
func Step() bool {
	return d.Step
}
func Store() bool {
	return d.Store
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
