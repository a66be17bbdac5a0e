package rpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/khaldane/Scrabble-Game/logger"
)

// Server manages the admin gRPC listener.
type Server struct {
	listener net.Listener
	address  string
	grpc     *grpc.Server
}

// NewServer listens on addr and registers svc.
func NewServer(addr string, svc AdminServer) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServerWithListener(listener, svc), nil
}

// NewServerWithListener serves svc on an existing listener.
func NewServerWithListener(listener net.Listener, svc AdminServer) *Server {
	gs := grpc.NewServer(
		grpc.ForceServerCodec(jsonCodec{}),
		grpc.ChainUnaryInterceptor(logUnary),
	)
	RegisterAdminServer(gs, svc)
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		grpc:     gs,
	}
}

// Start blocks serving requests until Stop.
func (s *Server) Start() error {
	logger.Log.Infof("RPC server listening on %s", s.address)
	if err := s.grpc.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	logger.Log.Info("RPC server listener closed.")
	return nil
}

// Stop drains in-flight calls and closes the listener.
func (s *Server) Stop() {
	logger.Log.Info("Stopping RPC server.")
	s.grpc.GracefulStop()
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		logger.Log.Warnf("rpc %s failed after %s: %v", info.FullMethod, time.Since(start), err)
	} else {
		logger.Log.Debugf("rpc %s ok in %s", info.FullMethod, time.Since(start))
	}
	return resp, err
}

// Client 管理接口客户端
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to an admin server. Extra options are appended, so tests
// can pass a context dialer.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	cc, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out)
}

func (c *Client) EndGame(ctx context.Context, roomID, reason string) (*EndGameReply, error) {
	out := new(EndGameReply)
	err := c.invoke(ctx, "EndGame", &EndGameRequest{RoomID: roomID, Reason: reason}, out)
	return out, err
}

func (c *Client) ListRooms(ctx context.Context) (*ListRoomsReply, error) {
	out := new(ListRoomsReply)
	err := c.invoke(ctx, "ListRooms", &ListRoomsRequest{}, out)
	return out, err
}

func (c *Client) CheckWord(ctx context.Context, word string) (*CheckWordReply, error) {
	out := new(CheckWordReply)
	err := c.invoke(ctx, "CheckWord", &CheckWordRequest{Word: word}, out)
	return out, err
}

func (c *Client) Close() error {
	return c.cc.Close()
}
