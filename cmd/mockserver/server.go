package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"podium/internal/protocol"
)

var topics = []string{
	"Social media does more harm than good",
	"Remote work should be the default for software teams",
	"Space exploration deserves public funding",
	"Homework should be abolished in primary school",
}

type user struct {
	id        int
	username  string
	password  string
	mmr       int
	userClass int
}

type remote struct {
	id     string
	userID int
	ws     *websocket.Conn
}

type server struct {
	log         *zap.Logger
	prepSeconds int
	turnSeconds int

	mu           sync.Mutex
	users        map[string]*user
	nextUserID   int
	conns        map[int]*remote
	queue        []int
	debates      map[int]*session
	nextDebateID int
}

func newServer(prepSeconds, turnSeconds int, log *zap.Logger) *server {
	s := &server{
		log:         log,
		prepSeconds: prepSeconds,
		turnSeconds: turnSeconds,
		users:       make(map[string]*user),
		nextUserID:  1,
		conns:       make(map[int]*remote),
		debates:     make(map[int]*session),
	}
	// Seed accounts so two clients can log in without registering.
	s.addUser("alice", "password1", 1500, 1)
	s.addUser("bob", "password2", 1490, 0)
	return s
}

func (s *server) addUser(username, password string, mmr, userClass int) *user {
	u := &user{id: s.nextUserID, username: username, password: password, mmr: mmr, userClass: userClass}
	s.nextUserID++
	s.users[username] = u
	return u
}

// frame injects the type tag into any payload struct.
func frame(typ string, v any) ([]byte, error) {
	m := map[string]any{}
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
	}
	m["type"] = typ
	return json.Marshal(m)
}

func (s *server) sendTo(ctx context.Context, userID int, typ string, v any) {
	s.mu.Lock()
	rc := s.conns[userID]
	s.mu.Unlock()
	if rc == nil {
		return
	}
	data, err := frame(typ, v)
	if err != nil {
		s.log.Warn("encode", zap.Error(err))
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.ws.Write(wctx, websocket.MessageText, data); err != nil {
		s.log.Debug("write failed", zap.Int("user_id", userID), zap.Error(err))
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "bye")

	rc := &remote{id: uuid.NewString(), ws: ws}
	s.log.Info("client connected", zap.String("conn_id", rc.id))
	defer s.disconnect(rc)

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			return
		}
		s.handleFrame(ctx, rc, data)
	}
}

func (s *server) disconnect(rc *remote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rc.userID != 0 && s.conns[rc.userID] == rc {
		delete(s.conns, rc.userID)
		s.removeFromQueueLocked(rc.userID)
	}
}

func (s *server) removeFromQueueLocked(userID int) {
	for i, id := range s.queue {
		if id == userID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

func (s *server) handleFrame(ctx context.Context, rc *remote, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		s.reply(ctx, rc, protocol.TypeError, protocol.ServerError{Message: "Invalid JSON format"})
		return
	}

	switch env.Type {
	case "authenticate":
		var m protocol.Authenticate
		json.Unmarshal(data, &m)
		s.handleAuthenticate(ctx, rc, m)
	case "create_account":
		var m protocol.CreateAccount
		json.Unmarshal(data, &m)
		s.handleCreateAccount(ctx, rc, m)
	case "join_matchmaking":
		var m protocol.JoinMatchmaking
		json.Unmarshal(data, &m)
		s.handleJoin(ctx, rc, m.UserID)
	case "leave_matchmaking":
		var m protocol.LeaveMatchmaking
		json.Unmarshal(data, &m)
		s.handleLeave(ctx, rc, m.UserID)
	case "start_debate":
		var m protocol.StartDebate
		json.Unmarshal(data, &m)
		s.handleStartDebate(ctx, rc, m)
	case "ping_ready":
		var m protocol.PingReady
		json.Unmarshal(data, &m)
		s.handlePingReady(m)
	case "debate_message":
		var m protocol.DebateMessage
		json.Unmarshal(data, &m)
		s.handleDebateMessage(ctx, rc, m)
	case "admin_get_data":
		var m protocol.AdminGetData
		json.Unmarshal(data, &m)
		s.handleAdminGetData(ctx, rc, m)
	case "ping":
		s.reply(ctx, rc, protocol.TypePong, nil)
	default:
		s.reply(ctx, rc, protocol.TypeError,
			protocol.ServerError{Message: fmt.Sprintf("Unknown message type: %s", env.Type)})
	}
}

func (s *server) reply(ctx context.Context, rc *remote, typ string, v any) {
	data, err := frame(typ, v)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = rc.ws.Write(wctx, websocket.MessageText, data)
}

func (s *server) handleAuthenticate(ctx context.Context, rc *remote, m protocol.Authenticate) {
	s.mu.Lock()
	u, ok := s.users[m.Username]
	if !ok || u.password != m.Password {
		s.mu.Unlock()
		s.reply(ctx, rc, protocol.TypeAuthResponse,
			protocol.AuthResponse{Success: false, Error: "Invalid username or password"})
		return
	}
	rc.userID = u.id
	s.conns[u.id] = rc
	s.mu.Unlock()

	s.reply(ctx, rc, protocol.TypeAuthResponse, protocol.AuthResponse{
		Success: true, UserID: u.id, Username: u.username, MMR: u.mmr, UserClass: u.userClass,
	})
}

func (s *server) handleCreateAccount(ctx context.Context, rc *remote, m protocol.CreateAccount) {
	fail := func(msg string) {
		s.reply(ctx, rc, protocol.TypeAccountCreationResponse,
			protocol.AccountCreationResponse{Success: false, Error: msg})
	}
	switch {
	case m.Username == "" || m.Password == "":
		fail("Username and password are required")
	case len(m.Username) < 3:
		fail("Username must be at least 3 characters long")
	case len(m.Password) < 6:
		fail("Password must be at least 6 characters long")
	default:
		s.mu.Lock()
		if _, exists := s.users[m.Username]; exists {
			s.mu.Unlock()
			fail("Failed to create account. Username may already exist.")
			return
		}
		u := s.addUser(m.Username, m.Password, 1200, 0)
		s.mu.Unlock()
		s.reply(ctx, rc, protocol.TypeAccountCreationResponse,
			protocol.AccountCreationResponse{Success: true, UserID: u.id, Message: "Account created successfully"})
	}
}

func (s *server) handleJoin(ctx context.Context, rc *remote, userID int) {
	s.mu.Lock()
	s.removeFromQueueLocked(userID)
	s.queue = append(s.queue, userID)
	status := protocol.QueueStatus{QueueSize: len(s.queue), WaitingUsers: append([]int{}, s.queue...)}
	s.mu.Unlock()

	s.reply(ctx, rc, protocol.TypeQueueJoined,
		protocol.QueueJoined{Message: "Searching for opponent...", QueueStatus: status})
	s.tryMatch(ctx)
}

func (s *server) handleLeave(ctx context.Context, rc *remote, userID int) {
	s.mu.Lock()
	s.removeFromQueueLocked(userID)
	s.mu.Unlock()
	s.reply(ctx, rc, protocol.TypeQueueLeft,
		protocol.QueueLeft{Message: "Removed from matchmaking queue"})
}

func (s *server) tryMatch(ctx context.Context) {
	s.mu.Lock()
	if len(s.queue) < 2 {
		s.mu.Unlock()
		return
	}
	u1ID, u2ID := s.queue[0], s.queue[1]
	s.queue = s.queue[2:]
	debateID := s.nextDebateID + 1
	s.nextDebateID = debateID
	topic := topics[debateID%len(topics)]
	u1 := s.userByIDLocked(u1ID)
	u2 := s.userByIDLocked(u2ID)
	s.debates[debateID] = newSession(s, debateID, topic, u1ID, u2ID)
	s.mu.Unlock()

	s.sendTo(ctx, u1ID, protocol.TypeMatchFound, protocol.MatchFound{
		DebateID: debateID, Topic: topic,
		Opponent: protocol.Opponent{ID: u2.id, Username: u2.username, MMR: u2.mmr},
	})
	s.sendTo(ctx, u2ID, protocol.TypeMatchFound, protocol.MatchFound{
		DebateID: debateID, Topic: topic,
		Opponent: protocol.Opponent{ID: u1.id, Username: u1.username, MMR: u1.mmr},
	})
}

func (s *server) userByIDLocked(id int) *user {
	for _, u := range s.users {
		if u.id == id {
			return u
		}
	}
	return nil
}

func (s *server) handleStartDebate(ctx context.Context, rc *remote, m protocol.StartDebate) {
	s.mu.Lock()
	sess := s.debates[m.DebateID]
	s.mu.Unlock()
	if sess == nil {
		s.reply(ctx, rc, protocol.TypeStartDebateResponse,
			protocol.StartDebateResponse{Success: false, Error: "Debate not found"})
		return
	}
	if m.UserID != sess.u1 && m.UserID != sess.u2 {
		s.reply(ctx, rc, protocol.TypeStartDebateResponse,
			protocol.StartDebateResponse{Success: false, Error: "You are not a participant in this debate"})
		return
	}
	s.reply(ctx, rc, protocol.TypeStartDebateResponse,
		protocol.StartDebateResponse{Success: true, Message: "Debate session started"})
	sess.startOnce(context.Background())
}

func (s *server) handlePingReady(m protocol.PingReady) {
	s.mu.Lock()
	sess := s.debates[m.DebateID]
	s.mu.Unlock()
	if sess != nil {
		sess.ping(m.UserID)
	}
}

func (s *server) handleDebateMessage(ctx context.Context, rc *remote, m protocol.DebateMessage) {
	s.mu.Lock()
	var sess *session
	for _, d := range s.debates {
		if d.u1 == m.UserID || d.u2 == m.UserID {
			sess = d
			break
		}
	}
	s.mu.Unlock()
	if sess == nil {
		s.reply(ctx, rc, protocol.TypeError,
			protocol.ServerError{Message: "You are not in an active debate"})
		return
	}
	s.reply(ctx, rc, protocol.TypeDebateResponse,
		protocol.DebateResponse{Success: true, Message: "Message submitted"})
	sess.submit(m.UserID, m.Content)
}

func (s *server) handleAdminGetData(ctx context.Context, rc *remote, m protocol.AdminGetData) {
	s.mu.Lock()
	requester := s.userByIDLocked(m.UserID)
	var rows []map[string]any
	if m.DataType == "users" {
		for _, u := range s.users {
			rows = append(rows, map[string]any{
				"id": u.id, "username": u.username, "mmr": u.mmr, "user_class": u.userClass,
			})
		}
	}
	s.mu.Unlock()

	if requester == nil || requester.userClass <= 0 {
		s.reply(ctx, rc, protocol.TypeAdminDataResponse,
			protocol.AdminDataResponse{Success: false, Error: "Admin privileges required"})
		return
	}
	if rows == nil {
		s.reply(ctx, rc, protocol.TypeAdminDataResponse,
			protocol.AdminDataResponse{Success: false, Error: "Invalid data type"})
		return
	}
	s.reply(ctx, rc, protocol.TypeAdminDataResponse,
		protocol.AdminDataResponse{Success: true, DataType: m.DataType, Data: rows})
}
