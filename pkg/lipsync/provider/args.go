package provider

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Vars are the values substituted into argument templates.
type Vars struct {
	Audio  string
	Frames string
	Out    string
	Model  string
	Batch  int
	Mode   string
}

func (v Vars) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{audio}", v.Audio,
		"{frames}", v.Frames,
		"{video}", v.Frames,
		"{out}", v.Out,
		"{model}", v.Model,
		"{batch}", strconv.Itoa(v.Batch),
		"{mode}", v.Mode,
	)
}

// BuildArgs expands template with v and appends params as flags.
func BuildArgs(template []string, v Vars, params map[string]any) []string {
	r := v.replacer()
	args := make([]string, 0, len(template)+len(params))
	for _, a := range template {
		args = append(args, r.Replace(a))
	}
	return append(args, ParamArgs(params)...)
}

// ParamArgs renders params as --key=value flags sorted by key. Nil values
// and nested maps or lists are skipped.
func ParamArgs(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		s, ok := paramValue(params[k])
		if !ok {
			continue
		}
		args = append(args, fmt.Sprintf("--%s=%s", k, s))
	}
	return args
}

func paramValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	}
	return "", false
}
