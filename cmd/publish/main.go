// Command publish sends one event envelope on the hub bus, for local testing.
//
//	publish -type ai.chat.chunk -payload '{"conversationId":"c1","userId":"u1","requestId":"r1","delta":"hi","sequenceNumber":0}'
package main

import (
	"chat-hub/domain/event"
	"chat-hub/infrastructure/bus"
	"chat-hub/internal"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("Fatal error: %v", err))
		os.Exit(1)
	}
}

func run() error {
	eventType := flag.String("type", string(event.NotificationType), "Event type")
	payload := flag.String("payload", "{}", "JSON payload")
	id := flag.String("id", "", "Event id, random when empty. Reuse one to test deduplication")
	flag.Parse()

	config, err := internal.Load()
	if err != nil {
		return err
	}
	t := event.Type(*eventType)
	if !t.Known() {
		color.Yellow.Printf("Type %q is unknown to the hub, it will be acknowledged and ignored\n", t)
	}
	if !json.Valid([]byte(*payload)) {
		return fmt.Errorf("payload is not valid JSON")
	}
	if *id == "" {
		*id = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client := bus.NewClient(logs.GetLoggerFromString(config.LogLevel), bus.Config{
		URL:    config.NatsURL,
		Stream: config.BusStream,
		MaxAge: config.BusMaxAge,
	})
	if err = client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	e := event.Event{ID: *id, Type: t, OccurredAt: time.Now().UTC(), Payload: json.RawMessage(*payload)}
	if err = client.Publish(ctx, e); err != nil {
		return err
	}
	color.Green.Printf("Published %s on %s\n", e.ID, t.Subject(bus.SubjectPrefix))
	return nil
}
