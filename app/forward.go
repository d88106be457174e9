package app

import (
	"fmt"

	cmtlog "github.com/cometbft/cometbft/libs/log"
)

// ForwardEndpoint receives an opaque admin payload for one owned
// contract. Only success or failure flows back. Endpoints are invoked
// on every validator and may be invoked more than once per poll, so
// they must be deterministic and idempotent; anything reaching outside
// consensus state belongs behind an event consumer instead.
type ForwardEndpoint func(payload []byte) error

// ForwardRegistry routes forwarded poll messages to registered owned
// contracts. Forwarding to an unregistered contract fails, which fails
// the whole msg batch.
type ForwardRegistry struct {
	logger    cmtlog.Logger
	endpoints map[string]ForwardEndpoint
}

func NewForwardRegistry(logger cmtlog.Logger) *ForwardRegistry {
	return &ForwardRegistry{
		logger:    logger.With("module", "forward"),
		endpoints: make(map[string]ForwardEndpoint),
	}
}

func (r *ForwardRegistry) Register(contract string, ep ForwardEndpoint) {
	r.endpoints[contract] = ep
}

func (r *ForwardRegistry) Forward(contract string, payload []byte) error {
	ep, ok := r.endpoints[contract]
	if !ok {
		return fmt.Errorf("unknown contract %q", contract)
	}
	r.logger.Info("forward msg", "contract", contract, "bytes", len(payload))
	return ep(payload)
}
