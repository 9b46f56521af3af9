package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Marte0208/atmsystem-nw2h-ctcc0513/src/internal/logger"
)

// Limiter keeps one token bucket per client key and refills each
// bucket at rps tokens per second.
type Limiter struct {
	mu     sync.Mutex
	tokens map[string]chan struct{}
	rps    int
	key    func(*http.Request) string
}

func NewLimiter(rps int, key func(*http.Request) string) *Limiter {
	return &Limiter{
		tokens: make(map[string]chan struct{}),
		rps:    rps,
		key:    key,
	}
}

// RateLimit wraps next and rejects requests whose bucket is empty with
// 429. Used on the login route to slow down PIN guessing per card.
func RateLimit(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := limiter.key(r)

			limiter.mu.Lock()
			tokens, ok := limiter.tokens[id]
			if !ok {
				tokens = make(chan struct{}, limiter.rps)
				for i := 0; i < limiter.rps; i++ {
					tokens <- struct{}{}
				}
				limiter.tokens[id] = tokens

				go fillTokenBucket(tokens, limiter.rps)
			}
			limiter.mu.Unlock()

			select {
			case <-tokens:
				next.ServeHTTP(w, r)
			default:
				logger.Info("rate limit exceeded", logger.Fields{
					"path": r.URL.Path,
					"key":  id,
				})
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			}
		})
	}
}

func fillTokenBucket(tokens chan struct{}, rps int) {
	ticker := time.NewTicker(time.Second / time.Duration(rps))
	defer ticker.Stop()

	for range ticker.C {
		select {
		case tokens <- struct{}{}:
		default:
		}
	}
}

// CardNumberKey extracts the card number from a login request body so
// throttling is per card rather than per connection. The body is
// restored for the next handler. Falls back to the remote address when
// the body is not a parseable login payload.
func CardNumberKey(r *http.Request) string {
	if r.Body == nil {
		return r.RemoteAddr
	}

	raw, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return r.RemoteAddr
	}

	var probe struct {
		CardNumber string `json:"cardNumber"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.CardNumber == "" {
		return r.RemoteAddr
	}

	return probe.CardNumber
}
