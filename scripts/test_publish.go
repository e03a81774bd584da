//go:build ignore

// Публикует запрос на запуск в stream:railfusion:run и ждёт событие о завершении.
//
//	go run scripts/test_publish.go -redis localhost:6379 -null-policy fill-na
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rail-fusion/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	policy := flag.String("null-policy", "", "drop-na or fill-na")
	refetch := flag.Bool("refetch", false, "download raw sources before the run")
	wait := flag.Duration("wait", 5*time.Minute, "how long to wait for the done event")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	req := domain.FusionRunRequest{
		RequestID:  uuid.New(),
		NullPolicy: domain.NullPolicy(*policy),
		Refetch:    *refetch,
	}
	data, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	// Позиция конца done-стрима до публикации, чтобы не читать старые события
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamFusionDone, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamFusionRun,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish request: %v", err)
	}

	fmt.Printf("Request published: stream=%s message_id=%s request_id=%s\n",
		domain.StreamFusionRun, id, req.RequestID)
	fmt.Printf("Waiting for %s...\n", domain.StreamFusionDone)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamFusionDone, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Fatalf("Failed to read done stream: %v", err)
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				lastID = msg.ID
				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var event domain.FusionDoneEvent
				if err := json.Unmarshal([]byte(raw), &event); err != nil || event.RequestID != req.RequestID {
					continue
				}

				pretty, _ := json.MarshalIndent(event, "", "  ")
				fmt.Println(string(pretty))
				return
			}
		}
	}

	log.Fatalf("Timeout waiting for request %s", req.RequestID)
}
