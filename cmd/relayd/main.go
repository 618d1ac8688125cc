package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"vauchi/internal/domain"
)

// queueStore holds one FIFO envelope queue per recipient address.
type queueStore struct {
	mu     sync.Mutex
	queues map[string][]domain.Envelope
}

func newQueueStore() *queueStore {
	return &queueStore{queues: make(map[string][]domain.Envelope)}
}

func (s *queueStore) enqueue(addr string, env domain.Envelope) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[addr] = append(s.queues[addr], env)
	return len(s.queues[addr])
}

func (s *queueStore) peek(addr string, limit int) []domain.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[addr]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	return append([]domain.Envelope(nil), q...)
}

func (s *queueStore) ack(addr string, count int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[addr]
	if count > len(q) {
		count = len(q)
	}
	s.queues[addr] = q[count:]
	return count
}

func main() {
	listen := flag.String("listen", ":8080", "listen address")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	qs := newQueueStore()

	http.HandleFunc("/msg/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/msg/")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(rest, "/ack"):
			addr := strings.TrimSuffix(rest, "/ack")
			var body struct {
				Count int `json:"count"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			n := qs.ack(addr, body.Count)
			log.WithFields(logrus.Fields{"addr": short(addr), "acked": n}).Debug("ack")
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPost:
			var env domain.Envelope
			if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if env.Timestamp == 0 {
				env.Timestamp = time.Now().Unix()
			}
			depth := qs.enqueue(rest, env)
			log.WithFields(logrus.Fields{
				"addr":  short(rest),
				"bytes": len(env.Payload),
				"depth": depth,
			}).Debug("enqueue")
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet:
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					http.Error(w, "bad limit", http.StatusBadRequest)
					return
				}
				limit = n
			}
			envs := qs.peek(rest, limit)
			log.WithFields(logrus.Fields{"addr": short(rest), "returned": len(envs)}).Debug("fetch")
			_ = json.NewEncoder(w).Encode(envs)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	log.WithField("listen", *listen).Info("relay listening")
	log.Fatal(http.ListenAndServe(*listen, nil))
}

// short truncates an address for log lines.
func short(addr string) string {
	if len(addr) > 8 {
		return addr[:8]
	}
	return addr
}
