//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	wsmsg "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

func TestWebSocketLiveQuiz(t *testing.T) {
	baseHTTP := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	baseWS := envOrDefault("INTEGRATION_WS_URL", "ws://localhost:8080/ws/play")
	q := createQuestion(t, baseHTTP, 3)

	conn := dialPlayWS(t, baseWS, "3")
	defer conn.Close()

	for {
		msg := roundTrip(t, conn, wsmsg.Message{Type: wsmsg.TypeNext})
		if msg.Type == wsmsg.TypeQuizComplete {
			t.Fatalf("quiz completed before question %d was served", q.ID)
		}
		if msg.Type != wsmsg.TypeQuestion {
			t.Fatalf("unexpected message %s: %s", msg.Type, msg.Payload)
		}

		var payload wsmsg.QuestionPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode question payload: %v", err)
		}
		if payload.ID != q.ID {
			continue
		}

		answer, _ := wsmsg.NewMessage(wsmsg.TypeAnswer, wsmsg.AnswerPayload{Answer: " Forty-Two "})
		reply := roundTrip(t, conn, answer)
		var result wsmsg.AnswerResultPayload
		if err := json.Unmarshal(reply.Payload, &result); err != nil {
			t.Fatalf("decode answer_result payload: %v", err)
		}
		if !result.Correct {
			t.Fatalf("expected answer to be accepted: %+v", result)
		}
		return
	}
}

func dialPlayWS(t *testing.T, wsBase, category string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(wsBase)
	if err != nil {
		t.Fatalf("invalid WS url: %v", err)
	}
	q := u.Query()
	q.Set("category", category)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, out wsmsg.Message) wsmsg.Message {
	t.Helper()

	conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	if err := conn.WriteJSON(out); err != nil {
		t.Fatalf("failed to send %s: %v", out.Type, err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var in wsmsg.Message
	if err := conn.ReadJSON(&in); err != nil {
		t.Fatalf("read ws message failed: %v", err)
	}
	return in
}
