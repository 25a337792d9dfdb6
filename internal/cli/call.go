package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/sapgui"
	"github.com/aretw0/sapgui/pkg/connection"
	"github.com/aretw0/sapgui/pkg/ports"
)

// Call operations against the current session.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpInvoke = "invoke"
)

// CallRequest describes one reflective call. Target is an element ID passed
// to findById; empty means the session itself.
type CallRequest struct {
	Op     string
	Target string
	Name   string
	Args   []string
}

// ObjectResult stands in for a foreign object returned by a call.
const ObjectResult = "<object>"

// RunCall sanitizes req, resolves the target on the current session and
// performs the call.
// Scalar results are returned as is; object results are released and
// reported as ObjectResult.
func RunCall(ctx context.Context, client *sapgui.Client, req CallRequest) (any, error) {
	req, err := sanitizeRequest(req)
	if err != nil {
		return nil, err
	}
	args := ParseArgs(req.Args)
	var result any

	err = client.Do(ctx, func(ctx context.Context, mgr *connection.Manager) error {
		target := mgr.CurrentSession()
		if target == nil {
			return fmt.Errorf("no current session")
		}
		if req.Target != "" {
			v, err := mgr.InvokeMethod(target, "findById", req.Target)
			if err != nil {
				return fmt.Errorf("findById %q: %w", req.Target, err)
			}
			obj, ok := v.(ports.Object)
			if !ok || obj == nil {
				return fmt.Errorf("findById %q returned no object", req.Target)
			}
			defer mgr.Release(obj)
			target = obj
		}

		var v any
		var err error
		switch req.Op {
		case OpGet:
			v, err = mgr.GetAttribute(target, req.Name, args...)
		case OpSet:
			err = mgr.SetAttribute(target, req.Name, args...)
		case OpInvoke:
			v, err = mgr.InvokeMethod(target, req.Name, args...)
		default:
			return fmt.Errorf("unknown operation %q", req.Op)
		}
		if err != nil {
			return err
		}
		if obj, ok := v.(ports.Object); ok {
			if rerr := mgr.Release(obj); rerr != nil {
				return rerr
			}
			v = ObjectResult
		}
		result = v
		return nil
	})
	return result, err
}

// ParseArgs turns command line words into call arguments: integers, true and
// false become typed values, "quoted" words stay strings.
func ParseArgs(words []string) []any {
	out := make([]any, len(words))
	for i, w := range words {
		switch {
		case len(w) >= 2 && strings.HasPrefix(w, `"`) && strings.HasSuffix(w, `"`):
			out[i] = w[1 : len(w)-1]
		case w == "true" || w == "false":
			out[i] = w == "true"
		default:
			if n, err := strconv.Atoi(w); err == nil {
				out[i] = n
			} else {
				out[i] = w
			}
		}
	}
	return out
}
