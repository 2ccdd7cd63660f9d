package app

// Msg is the closed union of commands the front end can post into the loop.
type Msg interface{ isMsg() }

type Authenticate struct{ Username, Password string }

type CreateAccount struct{ Username, Password, Confirm string }

type JoinQueue struct{}

type LeaveQueue struct{}

type StartDebate struct{ DebateID int }

type SubmitArgument struct{ Content string }

// LeaveDebate returns to the lobby: debate context and transcript are
// dropped, all debate timers canceled.
type LeaveDebate struct{}

type Logout struct{}

type AdminGetData struct{ DataType string }

type AdminGetItem struct {
	DataType string
	ItemID   int
}

type AdminUpdateItem struct {
	DataType string
	ItemData map[string]any
}

type AdminDeleteItem struct {
	DataType string
	ItemID   int
}

type Shutdown struct{}

func (Authenticate) isMsg()    {}
func (CreateAccount) isMsg()   {}
func (JoinQueue) isMsg()       {}
func (LeaveQueue) isMsg()      {}
func (StartDebate) isMsg()     {}
func (SubmitArgument) isMsg()  {}
func (LeaveDebate) isMsg()     {}
func (Logout) isMsg()          {}
func (AdminGetData) isMsg()    {}
func (AdminGetItem) isMsg()    {}
func (AdminUpdateItem) isMsg() {}
func (AdminDeleteItem) isMsg() {}
func (Shutdown) isMsg()        {}
