package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWritePumpShutdownClosesConn(t *testing.T) {
	ctl := &SignalWSController{opts: Options{}.withDefaults()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := make(chan *WsSignalConn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		c := newWsSignalConn("c1", ws, 4)
		conns <- c
		ctl.writePump(ctx, c)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	c := <-conns

	if err := c.TrySend([]byte(`{"event":"pong"}`)); err != nil {
		t.Fatalf("TrySend before shutdown: %v", err)
	}
	if _, _, err := client.ReadMessage(); err != nil {
		t.Fatalf("read: %v", err)
	}

	cancel()
	_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = client.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("read after shutdown: %v", err)
	}
	if err := c.TrySend([]byte(`{"event":"pong"}`)); !errors.Is(err, ErrClosed) {
		t.Fatalf("TrySend after shutdown = %v, want ErrClosed", err)
	}
}
