package domain

// DefaultApplication is the name under which SAP GUI registers its root
// scripting object in the running object table.
const DefaultApplication = "SAPGUI"

// Names walked on the foreign object model.
const (
	MethodGetScriptingEngine = "GetScriptingEngine"
	AttrChildren             = "Children"
	AttrSessions             = "Sessions"
	AttrInfo                 = "Info"
	AttrTransaction          = "Transaction"
)

// InfoFields lists the properties of a session's Info object that are read
// into SessionInfo.
var InfoFields = []string{
	"SystemName",
	"Client",
	"User",
	"Language",
	"Transaction",
	"Program",
	"ScreenNumber",
	"SessionNumber",
	"ApplicationServer",
}
