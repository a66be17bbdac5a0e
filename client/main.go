package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/network"
	"github.com/khaldane/Scrabble-Game/rpc"
	"github.com/khaldane/Scrabble-Game/tiles"
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, v any) error {
	packet, err := network.Marshal(msgID, v)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	addr := flag.String("addr", "localhost:8080", "game server address")
	admin := flag.String("admin", "", "admin RPC address; runs one admin command from the arguments")
	flag.Parse()

	if *admin != "" {
		if err := runAdmin(*admin, flag.Args()); err != nil {
			log.Fatal(err)
		}
		return
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			packet, err := network.Decode(message)
			if err != nil {
				log.Printf("Received invalid packet: %v", err)
				continue
			}
			show(packet)
		}
	}()

	// 定时心跳
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				send(c, network.MsgTypeHeartbeat, nil)
			}
		}
	}()

	log.Println("Commands: create | join [room] | start | place r c L [r c L ...] | pass | leave")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	// Write loop
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case text, ok := <-lines:
			if !ok {
				return
			}
			msgID, payload, err := parseCommand(text)
			if err != nil {
				log.Println(err)
				continue
			}
			if msgID == 0 {
				continue
			}
			if err := send(c, msgID, payload); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func parseCommand(text string) (uint16, any, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, nil, nil
	}
	switch fields[0] {
	case "create":
		return network.MsgTypeCreateRoom, struct{}{}, nil
	case "join":
		req := network.JoinRoomRequest{}
		if len(fields) > 1 {
			req.RoomID = fields[1]
		}
		return network.MsgTypeJoinRoom, req, nil
	case "start":
		return network.MsgTypeStartGame, struct{}{}, nil
	case "leave":
		return network.MsgTypeLeaveRoom, struct{}{}, nil
	case "pass":
		return network.MsgTypePlaceTiles, network.PlaceTilesRequest{Tiles: []board.Cell{}}, nil
	case "place":
		cells, err := parseCells(fields[1:])
		if err != nil {
			return 0, nil, err
		}
		return network.MsgTypePlaceTiles, network.PlaceTilesRequest{Tiles: cells}, nil
	}
	return 0, nil, fmt.Errorf("unknown command %q", fields[0])
}

// parseCells reads "row col letter" triples.
func parseCells(args []string) ([]board.Cell, error) {
	if len(args) == 0 || len(args)%3 != 0 {
		return nil, fmt.Errorf("place needs row col letter triples")
	}
	cells := make([]board.Cell, 0, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		row, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, err
		}
		col, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, err
		}
		letter, err := tiles.ParseLetter(args[i+2])
		if err != nil {
			return nil, err
		}
		cells = append(cells, board.Cell{Coordinate: board.Coordinate{Row: row, Col: col}, Letter: letter})
	}
	return cells, nil
}

func show(packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeGameState:
		var snap game.Snapshot
		if err := json.Unmarshal(packet.Data, &snap); err != nil {
			break
		}
		hand := make([]string, len(snap.Hand))
		for i, t := range snap.Hand {
			hand[i] = fmt.Sprintf("%s%d", t.Letter, t.Value)
		}
		log.Printf("<- GAME turn=%d yours=%v scores=%v bag=%d hand=%s last=%d %v over=%v %s",
			snap.CurrentTurn, snap.YourTurn, snap.Scores, snap.RemainingTiles,
			strings.Join(hand, " "), snap.LastTurnScore, snap.Words, snap.GameOver, snap.EndReason)
		return
	case network.MsgTypeHeartbeat:
		return
	}
	log.Printf("<- RECV (ID: %d): %s", packet.MsgID, string(packet.Data))
}

// runAdmin: list | end <room> [reason] | check <word>
func runAdmin(addr string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("admin command required: list | end <room> [reason] | check <word>")
	}
	client, err := rpc.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var reply any
	switch {
	case args[0] == "list":
		reply, err = client.ListRooms(ctx)
	case args[0] == "end" && len(args) > 1:
		reply, err = client.EndGame(ctx, args[1], strings.Join(args[2:], " "))
	case args[0] == "check" && len(args) > 1:
		reply, err = client.CheckWord(ctx, args[1])
	default:
		return fmt.Errorf("unknown admin command %q", strings.Join(args, " "))
	}
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(reply, "", "  ")
	fmt.Println(string(out))
	return nil
}
