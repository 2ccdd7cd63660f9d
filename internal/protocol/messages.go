package protocol

// Client -> server frames. Each carries its own type tag; constructors fill it
// so call sites can't send an untagged record.
type Outbound interface{ isOutbound() }

type Authenticate struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAuthenticate(username, password string) Authenticate {
	return Authenticate{Type: "authenticate", Username: username, Password: password}
}

type CreateAccount struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewCreateAccount(username, password string) CreateAccount {
	return CreateAccount{Type: "create_account", Username: username, Password: password}
}

type JoinMatchmaking struct {
	Type   string `json:"type"`
	UserID int    `json:"user_id"`
}

func NewJoinMatchmaking(userID int) JoinMatchmaking {
	return JoinMatchmaking{Type: "join_matchmaking", UserID: userID}
}

type LeaveMatchmaking struct {
	Type   string `json:"type"`
	UserID int    `json:"user_id"`
}

func NewLeaveMatchmaking(userID int) LeaveMatchmaking {
	return LeaveMatchmaking{Type: "leave_matchmaking", UserID: userID}
}

type StartDebate struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	DebateID int    `json:"debate_id"`
}

func NewStartDebate(userID, debateID int) StartDebate {
	return StartDebate{Type: "start_debate", UserID: userID, DebateID: debateID}
}

// PingReady is the readiness heartbeat sent while waiting for the opponent.
type PingReady struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	DebateID int    `json:"debate_id"`
}

func NewPingReady(userID, debateID int) PingReady {
	return PingReady{Type: "ping_ready", UserID: userID, DebateID: debateID}
}

type DebateMessage struct {
	Type    string `json:"type"`
	UserID  int    `json:"user_id"`
	Content string `json:"content"`
}

func NewDebateMessage(userID int, content string) DebateMessage {
	return DebateMessage{Type: "debate_message", UserID: userID, Content: content}
}

type AdminGetData struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	DataType string `json:"data_type"`
}

func NewAdminGetData(userID int, dataType string) AdminGetData {
	return AdminGetData{Type: "admin_get_data", UserID: userID, DataType: dataType}
}

type AdminGetItem struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	DataType string `json:"data_type"`
	ItemID   int    `json:"item_id"`
}

func NewAdminGetItem(userID int, dataType string, itemID int) AdminGetItem {
	return AdminGetItem{Type: "admin_get_item", UserID: userID, DataType: dataType, ItemID: itemID}
}

type AdminUpdateItem struct {
	Type     string         `json:"type"`
	UserID   int            `json:"user_id"`
	DataType string         `json:"data_type"`
	ItemData map[string]any `json:"item_data"`
}

func NewAdminUpdateItem(userID int, dataType string, itemData map[string]any) AdminUpdateItem {
	return AdminUpdateItem{Type: "admin_update_item", UserID: userID, DataType: dataType, ItemData: itemData}
}

type AdminDeleteItem struct {
	Type     string `json:"type"`
	UserID   int    `json:"user_id"`
	DataType string `json:"data_type"`
	ItemID   int    `json:"item_id"`
}

func NewAdminDeleteItem(userID int, dataType string, itemID int) AdminDeleteItem {
	return AdminDeleteItem{Type: "admin_delete_item", UserID: userID, DataType: dataType, ItemID: itemID}
}

func (Authenticate) isOutbound()     {}
func (CreateAccount) isOutbound()    {}
func (JoinMatchmaking) isOutbound()  {}
func (LeaveMatchmaking) isOutbound() {}
func (StartDebate) isOutbound()      {}
func (PingReady) isOutbound()        {}
func (DebateMessage) isOutbound()    {}
func (AdminGetData) isOutbound()     {}
func (AdminGetItem) isOutbound()     {}
func (AdminUpdateItem) isOutbound()  {}
func (AdminDeleteItem) isOutbound()  {}
