package cli

import (
	"bufio"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/corvino/roomcast/internal/protocol"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in a room interactively over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL := buildWSURL(flagServer, flagRoom)

			fmt.Fprintf(os.Stderr, "connecting to %s ...\n", wsURL)
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer conn.Close()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			// Filled in when identity-assigned arrives; reads happen on the
			// same goroutine that prints the local echo only after the
			// server confirmed the identity, so a plain string is enough.
			name := make(chan string, 1)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					var ev protocol.Event
					if err := conn.ReadJSON(&ev); err != nil {
						if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
							log.Printf("read error: %v", err)
						}
						return
					}
					switch ev.Type {
					case protocol.EventIdentityAssigned:
						fmt.Fprintf(os.Stderr, "you are %s in room %q\n", ev.Name, flagRoom)
						name <- ev.Name
					case protocol.EventMemberJoined:
						fmt.Printf("* %s joined\n", ev.Name)
					case protocol.EventMemberLeft:
						fmt.Printf("* %s left\n", ev.Name)
					case protocol.EventMessage:
						fmt.Printf("<%s> %s\n", ev.Name, ev.Body)
					}
				}
			}()

			var self string
			select {
			case self = <-name:
			case <-done:
				return fmt.Errorf("connection closed before identity was assigned")
			case <-interrupt:
				return nil
			}

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
			}()

			for {
				select {
				case line, ok := <-lines:
					if !ok {
						return closeQuietly(conn)
					}
					if strings.TrimSpace(line) == "" {
						continue
					}
					frame := protocol.ClientFrame{Type: protocol.EventSendMessage, Body: line}
					if err := conn.WriteJSON(frame); err != nil {
						return fmt.Errorf("send: %w", err)
					}
					// The hub excludes the sender from fan-out.
					fmt.Printf("<%s> %s\n", self, line)
				case <-done:
					return nil
				case <-interrupt:
					fmt.Fprintln(os.Stderr, "\ndisconnecting...")
					return closeQuietly(conn)
				}
			}
		},
	}
}

func closeQuietly(conn *websocket.Conn) error {
	return conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}

func buildWSURL(server, room string) string {
	u := strings.TrimRight(server, "/")
	u = strings.Replace(u, "https://", "wss://", 1)
	u = strings.Replace(u, "http://", "ws://", 1)
	return fmt.Sprintf("%s/ws/%s", u, url.PathEscape(room))
}
