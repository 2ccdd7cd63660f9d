package protocol

// Server -> client frames. Frame is a closed union: every message the server
// can push is a concrete type below, and dispatch sites type-switch over it
// exhaustively instead of stringly matching tags.
type Frame interface{ isFrame() }

const (
	TypeAuthResponse            = "auth_response"
	TypeAccountCreationResponse = "account_creation_response"
	TypeMatchmakingResponse     = "matchmaking_response"
	TypeQueueJoined             = "queue_joined"
	TypeQueueLeft               = "queue_left"
	TypeMatchFound              = "match_found"
	TypeStartDebateResponse     = "start_debate_response"
	TypeDebateInitialized       = "debate_initialized"
	TypeConnectionStatus        = "connection_status"
	TypeDebateStarted           = "debate_started"
	TypePrepTimerStart          = "prep_timer_start"
	TypePrepTimer               = "prep_timer"
	TypeDebatePhaseStart        = "debate_phase_start"
	TypeYourTurn                = "your_turn"
	TypeOpponentTurn            = "opponent_turn"
	TypeTurnTimer               = "turn_timer"
	TypeMessage                 = "message"
	TypeDebateResponse          = "debate_response"
	TypeDebateEnded             = "debate_ended"
	TypeAdminDataResponse       = "admin_data_response"
	TypeAdminItemResponse       = "admin_item_response"
	TypeAdminUpdateResponse     = "admin_update_response"
	TypeAdminDeleteResponse     = "admin_delete_response"
	TypeError                   = "error"
	TypePong                    = "pong"
)

type AuthResponse struct {
	Success   bool   `json:"success"`
	UserID    int    `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	MMR       int    `json:"mmr,omitempty"`
	UserClass int    `json:"user_class,omitempty"`
	Error     string `json:"error,omitempty"`
}

type AccountCreationResponse struct {
	Success bool   `json:"success"`
	UserID  int    `json:"user_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MatchmakingResponse acknowledges a join/leave request.
type MatchmakingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type QueueStatus struct {
	QueueSize    int   `json:"queue_size"`
	WaitingUsers []int `json:"waiting_users,omitempty"`
}

type QueueJoined struct {
	Message     string      `json:"message,omitempty"`
	QueueStatus QueueStatus `json:"queue_status"`
}

type QueueLeft struct {
	Message string `json:"message,omitempty"`
}

type Opponent struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	MMR      int    `json:"mmr"`
}

type MatchFound struct {
	DebateID int      `json:"debate_id"`
	Topic    string   `json:"topic"`
	Opponent Opponent `json:"opponent"`
}

type StartDebateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type DebateInitialized struct {
	DebateID        int    `json:"debate_id"`
	Topic           string `json:"topic"`
	PrepTimeMinutes int    `json:"prep_time_minutes"`
	YourSide        string `json:"your_side"`
	OpponentSide    string `json:"opponent_side"`
	Status          string `json:"status,omitempty"`
}

// ConnectionStatus carries a human-readable waiting-room status line.
type ConnectionStatus struct {
	Status string `json:"status"`
}

type DebateStarted struct {
	DebateID        int    `json:"debate_id,omitempty"`
	Topic           string `json:"topic,omitempty"`
	PrepTimeMinutes int    `json:"prep_time_minutes,omitempty"`
	YourSide        string `json:"your_side"`
	OpponentSide    string `json:"opponent_side"`
	Status          string `json:"status,omitempty"`
}

type PrepTimerStart struct {
	DurationMinutes int `json:"duration_minutes"`
}

type PrepTimer struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	Display          string `json:"display"`
}

type DebatePhaseStart struct {
	Message string `json:"message,omitempty"`
}

type YourTurn struct {
	TurnNumber       int    `json:"turn_number"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty"`
	YourSide         string `json:"your_side,omitempty"`
}

type OpponentTurn struct {
	TurnNumber       int    `json:"turn_number"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty"`
	OpponentSide     string `json:"opponent_side,omitempty"`
	YourSide         string `json:"your_side,omitempty"`
}

type TurnTimer struct {
	RemainingSeconds int    `json:"remaining_seconds"`
	Display          string `json:"display"`
	CurrentTurnUser  int    `json:"current_turn_user,omitempty"`
	CurrentTurnSide  string `json:"current_turn_side,omitempty"`
}

// Message is one transcript entry, broadcast to both participants.
type Message struct {
	SenderID       int    `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Content        string `json:"content"`
	Timestamp      string `json:"timestamp"`
	TurnNumber     int    `json:"turn_number"`
}

// DebateResponse acknowledges a debate_message submission.
type DebateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type DebateEnded struct {
	Message  string    `json:"message,omitempty"`
	Topic    string    `json:"topic"`
	FinalLog []Message `json:"final_log"`
}

type AdminDataResponse struct {
	Success  bool             `json:"success"`
	DataType string           `json:"data_type,omitempty"`
	Data     []map[string]any `json:"data,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type AdminItemResponse struct {
	Success  bool           `json:"success"`
	DataType string         `json:"data_type,omitempty"`
	Item     map[string]any `json:"item,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type AdminUpdateResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type AdminDeleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ServerError is the server's generic application-level error frame.
type ServerError struct {
	Message string `json:"message"`
}

type Pong struct {
	Timestamp float64 `json:"timestamp,omitempty"`
}

func (*AuthResponse) isFrame()            {}
func (*AccountCreationResponse) isFrame() {}
func (*MatchmakingResponse) isFrame()     {}
func (*QueueJoined) isFrame()             {}
func (*QueueLeft) isFrame()               {}
func (*MatchFound) isFrame()              {}
func (*StartDebateResponse) isFrame()     {}
func (*DebateInitialized) isFrame()       {}
func (*ConnectionStatus) isFrame()        {}
func (*DebateStarted) isFrame()           {}
func (*PrepTimerStart) isFrame()          {}
func (*PrepTimer) isFrame()               {}
func (*DebatePhaseStart) isFrame()        {}
func (*YourTurn) isFrame()                {}
func (*OpponentTurn) isFrame()            {}
func (*TurnTimer) isFrame()               {}
func (*Message) isFrame()                 {}
func (*DebateResponse) isFrame()          {}
func (*DebateEnded) isFrame()             {}
func (*AdminDataResponse) isFrame()       {}
func (*AdminItemResponse) isFrame()       {}
func (*AdminUpdateResponse) isFrame()     {}
func (*AdminDeleteResponse) isFrame()     {}
func (*ServerError) isFrame()             {}
func (*Pong) isFrame()                    {}
