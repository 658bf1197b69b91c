package invalidation

import "go.uber.org/zap"

// Notifier receives request lifecycle signals. Implementations must not
// block; the builder calls them synchronously.
type Notifier interface {
	// RequestBuilt fires after a request is assembled, before the caller
	// attempts submission.
	RequestBuilt(req *Request)

	// RequestFailed fires when the caller reports a submission failure.
	RequestFailed(req *Request, err error)
}

// NopNotifier discards all signals.
type NopNotifier struct{}

func (NopNotifier) RequestBuilt(*Request)         {}
func (NopNotifier) RequestFailed(*Request, error) {}

// LogNotifier emits lifecycle signals as structured log lines.
type LogNotifier struct {
	Logger *zap.Logger
}

// NewLogNotifier creates a notifier logging to the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) RequestBuilt(req *Request) {
	n.Logger.Info("invalidation request built",
		zap.String("distribution_id", req.DistributionID),
		zap.String("caller_reference", req.CallerReference),
		zap.String("auth_mode", string(req.AuthMode)),
		zap.Int("path_count", len(req.Paths)),
		zap.Strings("paths", req.Paths))
}

func (n *LogNotifier) RequestFailed(req *Request, err error) {
	n.Logger.Error("invalidation request failed",
		zap.String("distribution_id", req.DistributionID),
		zap.String("caller_reference", req.CallerReference),
		zap.Error(err))
}
