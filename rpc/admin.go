package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/models"
	"github.com/khaldane/Scrabble-Game/room"
	"github.com/khaldane/Scrabble-Game/state"
)

const serviceName = "tilegame.Admin"

type EndGameRequest struct {
	RoomID string `json:"room_id"`
	Reason string `json:"reason"`
}

type EndGameReply struct {
	Room models.RoomInfo `json:"room"`
}

type ListRoomsRequest struct{}

type ListRoomsReply struct {
	Rooms []models.RoomInfo `json:"rooms"`
}

type CheckWordRequest struct {
	Word string `json:"word"`
}

type CheckWordReply struct {
	Word  string `json:"word"`
	Valid bool   `json:"valid"`
}

// AdminServer 管理接口
type AdminServer interface {
	EndGame(context.Context, *EndGameRequest) (*EndGameReply, error)
	ListRooms(context.Context, *ListRoomsRequest) (*ListRoomsReply, error)
	CheckWord(context.Context, *CheckWordRequest) (*CheckWordReply, error)
}

// WordChecker is satisfied by services.DictionaryService.
type WordChecker interface {
	CheckWord(ctx context.Context, candidate string) (string, bool, error)
}

// OracleChecker adapts any lexicon.Oracle to WordChecker.
func OracleChecker(o lexicon.Oracle) WordChecker {
	return oracleChecker{o}
}

type oracleChecker struct{ lexicon.Oracle }

func (c oracleChecker) CheckWord(ctx context.Context, candidate string) (string, bool, error) {
	key, err := lexicon.Normalize(candidate)
	if err != nil {
		return candidate, false, nil
	}
	ok, err := c.IsWord(ctx, key)
	return key, ok, err
}

// AdminService exposes rooms and the dictionary to operators.
type AdminService struct {
	rooms room.Directory
	words WordChecker
}

func NewAdminService(rooms room.Directory, words WordChecker) *AdminService {
	return &AdminService{rooms: rooms, words: words}
}

func (a *AdminService) EndGame(ctx context.Context, in *EndGameRequest) (*EndGameReply, error) {
	r, err := a.rooms.Lookup(in.RoomID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := r.EndGame(ctx, in.Reason); err != nil {
		return nil, toStatus(err)
	}
	info, err := r.Info(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &EndGameReply{Room: info}, nil
}

func (a *AdminService) ListRooms(ctx context.Context, _ *ListRoomsRequest) (*ListRoomsReply, error) {
	return &ListRoomsReply{Rooms: a.rooms.List(ctx)}, nil
}

func (a *AdminService) CheckWord(ctx context.Context, in *CheckWordRequest) (*CheckWordReply, error) {
	key, ok, err := a.words.CheckWord(ctx, in.Word)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &CheckWordReply{Word: key, Valid: ok}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, room.ErrRoomClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, state.ErrInvalidStateTransition), errors.Is(err, game.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// --- service descriptor，手写替代 protoc 生成的代码 ---

func unary[Req any, Resp any](method string, call func(AdminServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AdminServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AdminServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var adminServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("EndGame", AdminServer.EndGame),
		unary("ListRooms", AdminServer.ListRooms),
		unary("CheckWord", AdminServer.CheckWord),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "admin.json",
}

// RegisterAdminServer 注册管理服务
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&adminServiceDesc, srv)
}
