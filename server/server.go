package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/monitor"
	"github.com/khaldane/Scrabble-Game/network"
	"github.com/khaldane/Scrabble-Game/room"
	"github.com/khaldane/Scrabble-Game/session"
)

// DefaultHeartbeat 客户端必须在此间隔内发送任意消息，否则断开
const DefaultHeartbeat = 60 * time.Second

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	monitor        *monitor.Monitor
	heartbeat      time.Duration
	router         *chi.Mux
	shutdownChan   chan struct{}
	shutdownOnce   sync.Once
}

func NewGameServer(addr string, rooms *room.Manager, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           addr,
		roomManager:    rooms,
		sessionManager: session.NewManager(),
		monitor:        mon,
		heartbeat:      DefaultHeartbeat,
		router:         chi.NewRouter(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
	s.routes()
	return s
}

// SetHeartbeat changes the idle timeout for new connections; 0 disables it.
func (s *GameServer) SetHeartbeat(d time.Duration) {
	s.heartbeat = d
}

func (s *GameServer) routes() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Recoverer)

	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Get("/health", s.handleHealth)
		r.Get("/rooms", s.handleListRooms)
		r.Post("/rooms", s.handleCreateRoomHTTP)
	})

	s.router.Get("/ws", s.handleWebSocket)
}

// Handler exposes the router (useful for tests).
func (s *GameServer) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *GameServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Game server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes every websocket session.
func (s *GameServer) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
		s.sessionManager.CloseAll()
	})
}

// --- HTTP ---

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("write response: %v", err)
	}
}

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"rooms":    s.roomManager.Count(),
		"sessions": s.sessionManager.Count(),
	})
}

func (s *GameServer) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.roomManager.List(r.Context()))
}

type createRoomReq struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *GameServer) handleCreateRoomHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
	}

	rm, err := s.roomManager.CreateRoom(req.ID, req.Name)
	if errors.Is(err, room.ErrRoomExists) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	info, err := rm.Info(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// --- websocket ---

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(r.Context(), conn, r.URL.Query().Get("room"))
}

func (s *GameServer) handleConnection(ctx context.Context, conn *websocket.Conn, autoJoin string) {
	ctx = context.WithoutCancel(ctx)
	wsConn := network.NewWSConnection(conn)
	if s.heartbeat > 0 {
		wsConn.SetHeartbeat(s.heartbeat)
	}
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.leave(ctx, sess)
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		sess.Close()
	}()

	if autoJoin != "" {
		s.handleJoinRoom(ctx, sess, &network.Packet{MsgID: network.MsgTypeJoinRoom, Data: mustJSON(network.JoinRoomRequest{RoomID: autoJoin})})
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
		}
		packet, err := wsConn.ReadPacket()
		if err != nil {
			return
		}
		s.handlePacket(ctx, sess, packet)
	}
}

func mustJSON(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}

func (s *GameServer) handlePacket(ctx context.Context, sess *session.Session, packet *network.Packet) {
	sess.Touch()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Send(network.MsgTypeHeartbeat, nil)
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(ctx, sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(ctx, sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(ctx, sess, packet)
	case network.MsgTypeStartGame:
		s.handleStartGame(ctx, sess, packet)
	case network.MsgTypePlaceTiles:
		s.handlePlaceTiles(ctx, sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
		s.sendError(sess, packet.MsgID, errors.New("unknown message type"))
	}
}

func (s *GameServer) sendError(sess *session.Session, request uint16, err error) {
	sess.SendJSON(network.MsgTypeError, network.ErrorResponse{Request: request, Error: err.Error()})
}

var errNotInRoom = errors.New("not in a room")
var errAlreadyInRoom = errors.New("already in a room")

// boundRoom returns the room the session plays in.
func (s *GameServer) boundRoom(sess *session.Session) (*room.Room, error) {
	roomID, _ := sess.Binding()
	if roomID == "" {
		return nil, errNotInRoom
	}
	return s.roomManager.Lookup(roomID)
}

func (s *GameServer) handleCreateRoom(ctx context.Context, sess *session.Session, packet *network.Packet) {
	if roomID, _ := sess.Binding(); roomID != "" {
		s.sendError(sess, packet.MsgID, errAlreadyInRoom)
		return
	}
	rm, err := s.roomManager.CreateRoom("", "")
	if err != nil {
		s.sendError(sess, packet.MsgID, err)
		return
	}

	logger.Log.Infof("Session %s created room %s", sess.GetID(), rm.ID)
	sess.SendJSON(network.MsgTypeCreateRoom, network.CreateRoomResponse{RoomID: rm.ID})
	s.join(ctx, sess, rm, packet.MsgID)
}

func (s *GameServer) handleJoinRoom(ctx context.Context, sess *session.Session, packet *network.Packet) {
	if roomID, _ := sess.Binding(); roomID != "" {
		s.sendError(sess, packet.MsgID, errAlreadyInRoom)
		return
	}
	var req network.JoinRoomRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, packet.MsgID, err)
			return
		}
	}

	var rm *room.Room
	if req.RoomID == "" {
		rm = s.roomManager.FindAvailableRoom(ctx)
		if rm == nil {
			s.sendError(sess, packet.MsgID, room.ErrRoomNotFound)
			return
		}
	} else {
		var err error
		if rm, err = s.roomManager.Lookup(req.RoomID); err != nil {
			s.sendError(sess, packet.MsgID, err)
			return
		}
	}
	s.join(ctx, sess, rm, packet.MsgID)
}

func (s *GameServer) join(ctx context.Context, sess *session.Session, rm *room.Room, request uint16) {
	id, err := rm.Register(ctx, sess)
	if err != nil {
		s.sendError(sess, request, err)
		return
	}
	sess.Bind(rm.ID, id)
	sess.SendJSON(network.MsgTypeRegistered, network.RegisteredResponse{RoomID: rm.ID, PlayerID: id})
	logger.Log.Infof("Session %s joined room %s as player %d", sess.GetID(), rm.ID, id)
}

func (s *GameServer) handleLeaveRoom(ctx context.Context, sess *session.Session, packet *network.Packet) {
	if roomID, _ := sess.Binding(); roomID == "" {
		s.sendError(sess, packet.MsgID, errNotInRoom)
		return
	}
	s.leave(ctx, sess)
}

func (s *GameServer) leave(ctx context.Context, sess *session.Session) {
	roomID, playerID := sess.Binding()
	if roomID == "" {
		return
	}
	sess.Unbind()
	rm, err := s.roomManager.Lookup(roomID)
	if err != nil {
		return
	}
	if err := rm.Unregister(ctx, playerID); err != nil {
		logger.Log.Warnf("Session %s leaving room %s: %v", sess.GetID(), roomID, err)
	}
}

func (s *GameServer) handleStartGame(ctx context.Context, sess *session.Session, packet *network.Packet) {
	rm, err := s.boundRoom(sess)
	if err != nil {
		s.sendError(sess, packet.MsgID, err)
		return
	}
	if err := rm.StartGame(ctx); err != nil {
		s.sendError(sess, packet.MsgID, err)
	}
}

func (s *GameServer) handlePlaceTiles(ctx context.Context, sess *session.Session, packet *network.Packet) {
	rm, err := s.boundRoom(sess)
	if err != nil {
		logger.Log.Warnf("Session %s sent tiles but is not in a room", sess.GetID())
		s.sendError(sess, packet.MsgID, err)
		return
	}

	// 空消息体表示跳过本回合
	var req network.PlaceTilesRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, packet.MsgID, err)
			return
		}
	}

	_, playerID := sess.Binding()
	if _, err := rm.SubmitPlacement(ctx, playerID, req.Tiles); err != nil {
		s.sendError(sess, packet.MsgID, err)
	}
}
