package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/entrhq/suno-mcp/pkg/logging"
	"github.com/entrhq/suno-mcp/pkg/types"
)

var (
	invocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "suno_mcp",
		Name:      "tool_invocations_total",
		Help:      "Tool invocations, by tool and result code (OK on success).",
	}, []string{"tool", "code"})

	invocationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "suno_mcp",
		Name:      "tool_duration_seconds",
		Help:      "Tool execution time.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"tool"})
)

// Registry holds the tools in registration order and dispatches invocations
// through a shared rate limiter.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	order   []string
	limiter *rate.Limiter
	logger  *logging.Logger
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// RequestsPerMinute is the sustained invocation rate; zero or less disables limiting
	RequestsPerMinute int

	// Burst is the number of invocations allowed at once
	Burst int

	Logger *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts RegistryOptions) *Registry {
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard("tools")
	}

	return &Registry{
		tools:   make(map[string]Tool),
		limiter: rate.NewLimiter(limit, burst),
		logger:  opts.Logger,
	}
}

// Register adds tools. Names must be unique.
func (r *Registry) Register(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; exists {
			return fmt.Errorf("tool %s is already registered", t.Name())
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Invoke runs the named tool. Every failure is a *types.Error: unknown
// names are UNKNOWN_TOOL, rejected calls are RATE_LIMITED, untyped tool
// errors and panics become INTERNAL_ERROR.
func (r *Registry) Invoke(ctx context.Context, name string, args Arguments) (result string, err error) {
	t, ok := r.Get(name)
	if !ok {
		invocations.WithLabelValues("unknown", string(types.CodeUnknownTool)).Inc()
		return "", types.NewError(types.CodeUnknownTool, "Unknown tool: %s", name)
	}

	if !r.limiter.Allow() {
		invocations.WithLabelValues(name, string(types.CodeRateLimited)).Inc()
		r.logger.Warnf("Rate limit exceeded for %s", name)
		return "", types.NewError(types.CodeRateLimited, "Rate limit exceeded, retry later")
	}

	if args == nil {
		args = Arguments{}
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("Tool %s panicked: %v", name, rec)
			err = types.NewError(types.CodeInternal, "%s failed: %v", name, rec)
		}

		invocationSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
		code := "OK"
		if err != nil {
			code = string(types.CodeOf(err))
		}
		invocations.WithLabelValues(name, code).Inc()
	}()

	r.logger.Debugf("Invoking %s", name)
	result, err = t.Execute(ctx, args)
	if err != nil {
		r.logger.Errorf("Tool %s failed: %v", name, err)
		return "", types.Ensure(err, types.CodeInternal, "%s failed", name)
	}

	return result, nil
}
