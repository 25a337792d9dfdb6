package memory

import (
	"fmt"
	"strings"

	"github.com/aretw0/sapgui/pkg/domain"
)

// NewDemoActivator returns an activator publishing NewDemoApplication under
// the default application name.
func NewDemoActivator() *Activator {
	return NewActivator(nil).Register(domain.DefaultApplication, NewDemoApplication())
}

// NewDemoApplication builds a GUI with one connection and three sessions,
// shaped like the SAP GUI scripting object model.
func NewDemoApplication() *Node {
	sessions := []*Node{
		demoSession(0, "SESSION_MANAGER", "SAPLSMTR_NAVIGATION", 100),
		demoSession(1, "SE80", "SAPLSEO_CLEDITOR", 200),
		demoSession(2, "SM37", "SAPLBTCH", 120),
	}

	connection := NewNode("con[0]").
		With("Description", "DEV - Development").
		With("Sessions", sessions).
		WithChildren(sessions...)

	engine := NewNode("app").
		With("Version", 8000).
		With("Connections", []*Node{connection}).
		WithChildren(connection)

	return NewNode(domain.DefaultApplication).
		WithMethod(domain.MethodGetScriptingEngine, func(args ...any) (any, error) {
			return engine, nil
		})
}

func demoSession(n int, transaction, program string, screen int) *Node {
	info := NewNode(fmt.Sprintf("ses[%d].Info", n)).
		With("SystemName", "DEV").
		With("Client", "100").
		With("User", "DEVELOPER").
		With("Language", "EN").
		With("Transaction", transaction).
		With("Program", program).
		With("ScreenNumber", screen).
		With("SessionNumber", n+1).
		With("ApplicationServer", "sapdev01")

	okcd := NewNode("okcd").With("Text", "")
	wnd := NewNode("wnd[0]").With("Text", "SAP Easy Access")

	session := NewNode(fmt.Sprintf("ses[%d]", n)).
		With("Id", fmt.Sprintf("/app/con[0]/ses[%d]", n)).
		With("Info", info).
		With("Busy", false).
		WithChildren(wnd)

	elements := map[string]*Node{
		"wnd[0]":              wnd,
		"wnd[0]/tbar[0]/okcd": okcd,
	}

	session.WithMethod("findById", func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("findById: missing id")
		}
		id, _ := args[0].(string)
		if el, ok := elements[strings.TrimPrefix(id, "/")]; ok {
			return el, nil
		}
		return nil, fmt.Errorf("findById: the control could not be found by id %q", id)
	})

	session.WithMethod("StartTransaction", func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("StartTransaction: missing transaction code")
		}
		code := strings.ToUpper(fmt.Sprint(args[0]))
		info.With("Transaction", code)
		return nil, nil
	})

	session.WithMethod("EndTransaction", func(args ...any) (any, error) {
		info.With("Transaction", "SESSION_MANAGER")
		return nil, nil
	})

	return session
}
