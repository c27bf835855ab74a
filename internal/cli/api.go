package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corvino/roomcast/internal/protocol"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

func apiURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func getJSON(server, path string, out any) error {
	url := apiURL(server, path)
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func getRooms(server string) (*protocol.RoomList, error) {
	var list protocol.RoomList
	if err := getJSON(server, "/api/rooms", &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func getHealth(server string) (*protocol.HealthResponse, error) {
	var health protocol.HealthResponse
	if err := getJSON(server, "/api/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func getMembers(server, room string) (*protocol.MemberList, error) {
	var list protocol.MemberList
	if err := getJSON(server, fmt.Sprintf("/api/rooms/%s/members", room), &list); err != nil {
		return nil, err
	}
	return &list, nil
}
